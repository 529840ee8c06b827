package prompt

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"github.com/starford/raido/internal/models"
)

// fakeModel returns a canned response or error from GenerateContent.
type fakeModel struct {
	response string
	err      error
}

func (f *fakeModel) GenerateContent(_ context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	return f.response, f.err
}

func llmParse(t *testing.T, model llms.Model, text string) models.Criteria {
	t.Helper()
	criteria, err := newLLMParser(model, nil).Parse(context.Background(), text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return criteria
}

func TestLLMParserValidJSON(t *testing.T) {
	model := &fakeModel{response: `{"file_types": [".pdf"], "filename_keywords": ["report"], "content_keywords": ["revenue"], "search_sequence": ["file_type", "filename", "content"], "search_logic": "AND"}`}
	criteria := llmParse(t, model, "pdf reports about revenue")

	if !reflect.DeepEqual(criteria.FileTypes, []string{".pdf"}) {
		t.Errorf("FileTypes = %v", criteria.FileTypes)
	}
	if !reflect.DeepEqual(criteria.ContentKeywords, []string{"revenue"}) {
		t.Errorf("ContentKeywords = %v", criteria.ContentKeywords)
	}
	if criteria.Logic != models.LogicAnd {
		t.Errorf("Logic = %q", criteria.Logic)
	}
}

func TestLLMParserStripsCodeFences(t *testing.T) {
	model := &fakeModel{response: "```json\n{\"file_types\": [\".txt\"], \"filename_keywords\": [], \"content_keywords\": [\"alpha\"], \"search_sequence\": [\"file_type\", \"filename\", \"content\"], \"search_logic\": \"AND\"}\n```"}
	criteria := llmParse(t, model, "txt files with alpha")

	if !reflect.DeepEqual(criteria.FileTypes, []string{".txt"}) {
		t.Errorf("FileTypes = %v, want fenced JSON to parse", criteria.FileTypes)
	}
}

func TestLLMParserNormalizesOutput(t *testing.T) {
	model := &fakeModel{response: `{"file_types": ["PDF", " .Docx "], "filename_keywords": [], "content_keywords": [], "search_sequence": ["file_type", "bogus", "content"], "search_logic": "MAYBE"}`}
	criteria := llmParse(t, model, "whatever")

	if !reflect.DeepEqual(criteria.FileTypes, []string{".pdf", ".docx"}) {
		t.Errorf("FileTypes = %v, want normalized extensions", criteria.FileTypes)
	}
	wantSeq := []models.CriterionKind{models.KindFileType, models.KindContent}
	if !reflect.DeepEqual(criteria.Sequence, wantSeq) {
		t.Errorf("Sequence = %v, want %v", criteria.Sequence, wantSeq)
	}
	if criteria.Logic != models.LogicAnd {
		t.Errorf("Logic = %q, want AND for unknown values", criteria.Logic)
	}
}

func TestLLMParserEmptySequenceDefaulted(t *testing.T) {
	model := &fakeModel{response: `{"file_types": [], "filename_keywords": [], "content_keywords": ["x"], "search_sequence": [], "search_logic": "AND"}`}
	criteria := llmParse(t, model, "whatever")

	if !reflect.DeepEqual(criteria.Sequence, models.DefaultSequence()) {
		t.Errorf("Sequence = %v, want default order", criteria.Sequence)
	}
}

func TestLLMParserFallsBackOnError(t *testing.T) {
	model := &fakeModel{err: errors.New("connection refused")}
	criteria := llmParse(t, model, "find .pdf files about machine learning")

	want, _ := RuleParser{}.Parse(context.Background(), "find .pdf files about machine learning")
	if !reflect.DeepEqual(criteria, want) {
		t.Errorf("criteria = %v, want rule parser output %v", criteria, want)
	}
}

func TestLLMParserFallsBackOnInvalidJSON(t *testing.T) {
	model := &fakeModel{response: "I could not parse that request, sorry!"}
	criteria := llmParse(t, model, "find .txt notes")

	want, _ := RuleParser{}.Parse(context.Background(), "find .txt notes")
	if !reflect.DeepEqual(criteria, want) {
		t.Errorf("criteria = %v, want rule parser output %v", criteria, want)
	}
}

func TestLLMParserFallsBackOnEmptyResponse(t *testing.T) {
	model := &fakeModel{response: "   "}
	criteria := llmParse(t, model, "find .txt notes")

	want, _ := RuleParser{}.Parse(context.Background(), "find .txt notes")
	if !reflect.DeepEqual(criteria, want) {
		t.Errorf("criteria = %v, want rule parser output %v", criteria, want)
	}
}
