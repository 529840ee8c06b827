package prompt

import (
	"context"
	"reflect"
	"testing"

	"github.com/starford/raido/internal/models"
)

func ruleParse(t *testing.T, text string) models.Criteria {
	t.Helper()
	criteria, err := RuleParser{}.Parse(context.Background(), text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return criteria
}

func TestRuleParserExtractsExtensions(t *testing.T) {
	criteria := ruleParse(t, "find .PDF and .txt reports")

	want := []string{".pdf", ".txt"}
	if !reflect.DeepEqual(criteria.FileTypes, want) {
		t.Errorf("FileTypes = %v, want %v", criteria.FileTypes, want)
	}
	// Extension mentions are removed before keyword extraction.
	for _, kw := range criteria.ContentKeywords {
		if kw == "pdf" || kw == "txt" {
			t.Errorf("extension %q leaked into keywords %v", kw, criteria.ContentKeywords)
		}
	}
}

func TestRuleParserKeywordsShareBothSets(t *testing.T) {
	criteria := ruleParse(t, "find pdf files about machine learning")

	if len(criteria.FileTypes) != 0 {
		t.Errorf("FileTypes = %v, want none without a dot", criteria.FileTypes)
	}
	want := []string{"find", "pdf", "files", "about", "machine", "learning"}
	if !reflect.DeepEqual(criteria.FilenameKeywords, want) {
		t.Errorf("FilenameKeywords = %v, want %v", criteria.FilenameKeywords, want)
	}
	if !reflect.DeepEqual(criteria.ContentKeywords, want) {
		t.Errorf("ContentKeywords = %v, want %v", criteria.ContentKeywords, want)
	}
}

func TestRuleParserDropsShortWords(t *testing.T) {
	criteria := ruleParse(t, "go at it my ml notes")

	want := []string{"notes"}
	if !reflect.DeepEqual(criteria.ContentKeywords, want) {
		t.Errorf("ContentKeywords = %v, want %v", criteria.ContentKeywords, want)
	}
}

func TestRuleParserLogic(t *testing.T) {
	tests := []struct {
		prompt string
		want   models.Logic
	}{
		{"pdf files about budgets", models.LogicAnd},
		{"reports or invoices", models.LogicOr},
		{"find either drafts here", models.LogicOr},
		{"grab any notes around", models.LogicOr},
		{"victory reports", models.LogicAnd}, // "or" inside a word does not count
	}
	for _, tt := range tests {
		if got := ruleParse(t, tt.prompt).Logic; got != tt.want {
			t.Errorf("Parse(%q).Logic = %q, want %q", tt.prompt, got, tt.want)
		}
	}
}

func TestRuleParserSequenceAlwaysDefault(t *testing.T) {
	criteria := ruleParse(t, "anything at all")
	if !reflect.DeepEqual(criteria.Sequence, models.DefaultSequence()) {
		t.Errorf("Sequence = %v, want default order", criteria.Sequence)
	}
}

func TestRuleParserDeterministic(t *testing.T) {
	first := ruleParse(t, "find .pdf files about machine learning")
	second := ruleParse(t, "find .pdf files about machine learning")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("parses differ: %v vs %v", first, second)
	}
}
