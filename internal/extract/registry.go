// Package extract produces bounded text samples from heterogeneous
// file formats for content-keyword matching.
package extract

import (
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
)

// SampleLimit caps raw-text reads per file, in bytes.
const SampleLimit = 50000

// Extractor turns one file format into searchable text.
type Extractor struct {
	// Name identifies the format in logs.
	Name string
	// Match reports whether this extractor handles a file, given its
	// lower-cased extension and base media type.
	Match func(ext, mediaType string) bool
	// Extract returns the text sample for path.
	Extract func(path string) (string, error)
}

// Registry dispatches files to format extractors in priority order.
type Registry struct {
	extractors []Extractor
	logger     *slog.Logger
}

// NewRegistry returns a registry with the default format chain: PDF,
// Word, JSON, spreadsheets, CSV, text-like files, then a raw capped
// read for any remaining media type hinting at textual content.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger: logger,
		extractors: []Extractor{
			{Name: "pdf", Match: matchPDF, Extract: extractPDF},
			{Name: "word", Match: matchWord, Extract: extractWord},
			{Name: "json", Match: matchJSON, Extract: extractJSON},
			{Name: "spreadsheet", Match: matchSpreadsheet, Extract: extractSpreadsheet},
			{Name: "csv", Match: matchCSV, Extract: extractCSV},
			{Name: "text", Match: matchText, Extract: readCapped},
			{Name: "readable", Match: matchReadable, Extract: readCapped},
		},
	}
}

// Sample returns the text sample for path, or "" when no extractor
// claims the file or extraction fails. Errors never escape the
// registry: a file that cannot be read contributes nothing.
// Case folding is the caller's job; samples keep their original case.
func (r *Registry) Sample(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	mediaType := baseMediaType(ext)
	for _, e := range r.extractors {
		if !e.Match(ext, mediaType) {
			continue
		}
		text, err := r.extract(e, path)
		if err != nil {
			r.logger.Debug("extraction failed",
				slog.String("path", path),
				slog.String("format", e.Name),
				slog.String("error", err.Error()))
			return ""
		}
		return text
	}
	return ""
}

// extract runs one extractor, converting panics to errors. The PDF
// reader panics on some malformed inputs.
func (r *Registry) extract(e Extractor, path string) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("extract: %s: panic: %v", e.Name, p)
		}
	}()
	return e.Extract(path)
}

// baseMediaType guesses the media type from the extension alone,
// stripping parameters ("text/plain; charset=utf-8" becomes
// "text/plain"). Content sniffing would change dispatch semantics.
func baseMediaType(ext string) string {
	t := mime.TypeByExtension(ext)
	if t == "" {
		return ""
	}
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(strings.ToLower(t))
}
