// Package prompt turns free-text search prompts into structured
// criteria, preferring a language model and falling back to
// deterministic rules.
package prompt

import (
	"context"
	"regexp"
	"strings"

	"github.com/starford/raido/internal/models"
)

// Parser extracts search criteria from a natural-language prompt.
type Parser interface {
	Parse(ctx context.Context, prompt string) (models.Criteria, error)
}

var extensionRe = regexp.MustCompile(`\.(\w+)`)

// RuleParser is the deterministic parser used when no language model is
// configured or the model call fails. It never returns an error.
type RuleParser struct{}

var _ Parser = RuleParser{}

// Parse extracts every ".ext" token as a file type, then treats the
// remaining words longer than two characters as both filename and
// content keywords. The combination policy is OR only when the prompt
// contains a space-delimited "or", "either", or "any".
func (RuleParser) Parse(_ context.Context, text string) (models.Criteria, error) {
	lower := strings.ToLower(text)

	var types []string
	for _, m := range extensionRe.FindAllStringSubmatch(lower, -1) {
		types = append(types, "."+m[1])
	}

	var keywords []string
	for _, word := range strings.Fields(extensionRe.ReplaceAllString(lower, "")) {
		if len(word) > 2 {
			keywords = append(keywords, word)
		}
	}

	logic := models.LogicAnd
	for _, marker := range []string{" or ", " either ", " any "} {
		if strings.Contains(lower, marker) {
			logic = models.LogicOr
			break
		}
	}

	return models.Criteria{
		FileTypes:        types,
		FilenameKeywords: keywords,
		ContentKeywords:  keywords,
		Sequence:         models.DefaultSequence(),
		Logic:            logic,
	}, nil
}
