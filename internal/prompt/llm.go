package prompt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/starford/raido/internal/models"
)

const systemPrompt = `You are an expert file search parameter extraction assistant. Your task is to analyze user requests for file searches and extract structured parameters.

## Your Role:
- Parse natural language file search requests
- Extract relevant search criteria
- Return structured JSON data
- Be precise and consistent

## Output Format:
Always return ONLY valid JSON in this exact structure:
{
    "file_types": [],
    "filename_keywords": [],
    "content_keywords": [],
    "search_sequence": ["file_type", "filename", "content"],
    "search_logic": "AND"
}

## Field Definitions:
- file_types: File extensions (.pdf, .txt, .docx, .doc, .ipynb, .py, .js, etc.)
- filename_keywords: Keywords to appear in file names. If the keywords are used to define file types, just ignore them here.
- content_keywords: Keywords likely to appear inside file contents
- search_sequence: Always use ["file_type", "filename", "content"]
- search_logic: Always use "AND" (files must match all criteria)

## Examples:
User: "find pdf files about machine learning"
Output: {"file_types": [".pdf"], "filename_keywords": ["machine", "learning"], "content_keywords": ["machine", "learning"], "search_sequence": ["file_type", "filename", "content"], "search_logic": "AND"}

User: "python scripts with neural network code"
Output: {"file_types": [".py"], "filename_keywords": ["neural", "network"], "content_keywords": ["neural", "network", "python"], "search_sequence": ["file_type", "filename", "content"], "search_logic": "AND"}`

// LLMParser delegates criteria extraction to an OpenAI-compatible chat
// model. Any failure degrades to the rule parser, so Parse never
// surfaces an error to the caller.
type LLMParser struct {
	client   llms.Model
	fallback Parser
	logger   *slog.Logger
}

var _ Parser = (*LLMParser)(nil)

// NewLLMParser creates a parser backed by an OpenAI-compatible
// endpoint. An empty baseURL targets the public OpenAI API; an empty
// token is replaced with a placeholder for local services that do not
// check it.
func NewLLMParser(baseURL, model, token string, logger *slog.Logger) (*LLMParser, error) {
	opts := []openai.Option{openai.WithModel(model)}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	if token == "" {
		token = "none"
	}
	opts = append(opts, openai.WithToken(token))

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("prompt: init llm client: %w", err)
	}
	return newLLMParser(client, logger), nil
}

func newLLMParser(client llms.Model, logger *slog.Logger) *LLMParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMParser{client: client, fallback: RuleParser{}, logger: logger}
}

// Parse asks the model for structured criteria and validates the
// response. Unreachable model, empty response, or invalid JSON all fall
// back to the deterministic rule parser.
func (p *LLMParser) Parse(ctx context.Context, text string) (models.Criteria, error) {
	criteria, err := p.delegate(ctx, text)
	if err != nil {
		p.logger.Warn("llm parse failed, using rule parser", slog.String("error", err.Error()))
		return p.fallback.Parse(ctx, text)
	}
	return criteria, nil
}

func (p *LLMParser) delegate(ctx context.Context, text string) (models.Criteria, error) {
	content := []llms.MessageContent{
		{Role: llms.ChatMessageTypeSystem, Parts: []llms.ContentPart{llms.TextPart(systemPrompt)}},
		{Role: llms.ChatMessageTypeHuman, Parts: []llms.ContentPart{llms.TextPart(userPrompt(text))}},
	}
	resp, err := p.client.GenerateContent(ctx, content, llms.WithTemperature(0), llms.WithJSONMode())
	if err != nil {
		return models.Criteria{}, fmt.Errorf("prompt: generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Criteria{}, fmt.Errorf("prompt: no choices returned")
	}

	raw := stripFences(resp.Choices[0].Content)
	if raw == "" {
		return models.Criteria{}, fmt.Errorf("prompt: empty response")
	}
	var criteria models.Criteria
	if err := json.Unmarshal([]byte(raw), &criteria); err != nil {
		return models.Criteria{}, fmt.Errorf("prompt: decode response: %w", err)
	}
	return normalize(criteria), nil
}

func userPrompt(text string) string {
	return fmt.Sprintf("Parse this file search request:\n\nRequest: %q\n\nReturn the JSON structure with extracted parameters.", text)
}

// stripFences removes an optional markdown code-fence wrapper around
// the model's JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// normalize enforces the criteria contract on model output: extensions
// lower-cased with a leading dot, unknown sequence kinds dropped,
// defaults filled in.
func normalize(c models.Criteria) models.Criteria {
	var types []string
	for _, t := range c.FileTypes {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, ".") {
			t = "." + t
		}
		types = append(types, t)
	}
	c.FileTypes = types

	var seq []models.CriterionKind
	for _, k := range c.Sequence {
		switch k {
		case models.KindFileType, models.KindFilename, models.KindContent:
			seq = append(seq, k)
		}
	}
	if len(seq) == 0 {
		seq = models.DefaultSequence()
	}
	c.Sequence = seq

	if c.Logic != models.LogicOr {
		c.Logic = models.LogicAnd
	}
	return c
}
