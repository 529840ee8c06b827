// Package models defines the domain types for Raido.
package models

// CriterionKind identifies one independently evaluated search dimension.
type CriterionKind string

// Criterion kinds, in descending rank priority.
const (
	KindFileType CriterionKind = "file_type"
	KindFilename CriterionKind = "filename"
	KindContent  CriterionKind = "content"

	// KindFallback marks results from the unfiltered directory listing
	// the MCP wrapper produces when a search matches nothing.
	KindFallback CriterionKind = "fallback"
)

// Logic is the combination policy across active criteria.
type Logic string

// Combination policies.
const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// Query is one search request handed to the engine. Root must be an
// absolute, cleaned path; normalization is the caller's job.
type Query struct {
	Root       string
	Prompt     string
	MaxResults int
}

// Criteria is the structured form of a free-text prompt. The JSON tags
// are the wire contract the language model must produce.
type Criteria struct {
	FileTypes        []string        `json:"file_types"`
	FilenameKeywords []string        `json:"filename_keywords"`
	ContentKeywords  []string        `json:"content_keywords"`
	Sequence         []CriterionKind `json:"search_sequence"`
	Logic            Logic           `json:"search_logic"`
}

// DefaultSequence returns the standard criterion evaluation order.
func DefaultSequence() []CriterionKind {
	return []CriterionKind{KindFileType, KindFilename, KindContent}
}

// Candidate is one file surfaced by the walker before criterion filtering.
type Candidate struct {
	Path    string
	RelPath string
	Name    string
}

// Match is one criterion's verdict on a file. The aggregator collapses
// multiple matches per path into a single result.
type Match struct {
	Path    string
	RelPath string
	Name    string
	Score   int
	Details string
	Kind    CriterionKind
}

// Result is the external output unit, one per qualifying file. The JSON
// tags follow the original tool contract.
type Result struct {
	Path    string        `json:"file_path"`
	RelPath string        `json:"relative_path"`
	Name    string        `json:"file_name"`
	Score   int           `json:"relevance_score"`
	Details string        `json:"match_details"`
	Kind    CriterionKind `json:"search_type"`
}
