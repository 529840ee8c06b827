package search

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/walk"
)

// Per-criterion scoring constants.
const (
	fileTypeScore          = 15
	filenameKeywordScore   = 10
	contentOccurrenceScore = 2
)

// matchFileType emits a fixed-score match for every candidate whose
// extension exactly equals one of the requested extensions.
func (e *Engine) matchFileType(ctx context.Context, root string, types []string, limit int) ([]models.Match, error) {
	wanted := make(map[string]struct{}, len(types))
	for _, t := range types {
		wanted[strings.ToLower(t)] = struct{}{}
	}

	var matches []models.Match
	err := walk.Walk(ctx, root, e.excludes, func(c models.Candidate) bool {
		ext := strings.ToLower(filepath.Ext(c.Name))
		if _, ok := wanted[ext]; !ok {
			return true
		}
		matches = append(matches, models.Match{
			Path:    c.Path,
			RelPath: c.RelPath,
			Name:    c.Name,
			Score:   fileTypeScore,
			Details: fmt.Sprintf("file type: %s", ext),
			Kind:    models.KindFileType,
		})
		return len(matches) < limit
	})
	if err != nil {
		return nil, fmt.Errorf("search: file type scan: %w", err)
	}
	return matches, nil
}

// matchFilename scores candidates by how many requested keywords appear
// as case-insensitive substrings of the base name.
func (e *Engine) matchFilename(ctx context.Context, root string, keywords []string, limit int) ([]models.Match, error) {
	var matches []models.Match
	err := walk.Walk(ctx, root, e.excludes, func(c models.Candidate) bool {
		name := strings.ToLower(c.Name)
		var matched []string
		for _, kw := range keywords {
			if strings.Contains(name, strings.ToLower(kw)) {
				matched = append(matched, kw)
			}
		}
		if len(matched) == 0 {
			return true
		}
		matches = append(matches, models.Match{
			Path:    c.Path,
			RelPath: c.RelPath,
			Name:    c.Name,
			Score:   filenameKeywordScore * len(matched),
			Details: "filename: " + strings.Join(matched, ", "),
			Kind:    models.KindFilename,
		})
		return len(matches) < limit
	})
	if err != nil {
		return nil, fmt.Errorf("search: filename scan: %w", err)
	}
	return matches, nil
}

// matchContent samples each candidate's content and scores it by total
// keyword occurrences. Extraction runs on the worker pool in
// discovery-order windows, so the raw-match cap behaves exactly like a
// sequential scan.
func (e *Engine) matchContent(ctx context.Context, root string, keywords []string, limit int) ([]models.Match, error) {
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}

	var matches []models.Match
	window := make([]models.Candidate, 0, e.workers)

	flush := func() bool {
		if len(window) == 0 {
			return true
		}
		samples := e.sampleAll(window)
		for i, c := range window {
			m, ok := scanContent(c, keywords, lowered, samples[i])
			if !ok {
				continue
			}
			matches = append(matches, m)
			if len(matches) >= limit {
				window = window[:0]
				return false
			}
		}
		window = window[:0]
		return true
	}

	err := walk.Walk(ctx, root, e.excludes, func(c models.Candidate) bool {
		window = append(window, c)
		if len(window) == cap(window) {
			return flush()
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("search: content scan: %w", err)
	}
	flush()
	return matches, nil
}

// sampleAll extracts every candidate in the window concurrently.
func (e *Engine) sampleAll(window []models.Candidate) []string {
	samples := make([]string, len(window))
	var wg sync.WaitGroup
	for i, c := range window {
		wg.Add(1)
		if err := e.pool.Submit(func() {
			defer wg.Done()
			samples[i] = e.registry.Sample(c.Path)
		}); err != nil {
			// Pool refused the task: extract inline.
			samples[i] = e.registry.Sample(c.Path)
			wg.Done()
		}
	}
	wg.Wait()
	return samples
}

func scanContent(c models.Candidate, keywords, lowered []string, sample string) (models.Match, bool) {
	if sample == "" {
		return models.Match{}, false
	}
	text := strings.ToLower(sample)

	score := 0
	var details []string
	for i, kw := range lowered {
		count := strings.Count(text, kw)
		if count == 0 {
			continue
		}
		score += count * contentOccurrenceScore
		details = append(details, fmt.Sprintf("%s(%d)", keywords[i], count))
	}
	if len(details) == 0 {
		return models.Match{}, false
	}
	return models.Match{
		Path:    c.Path,
		RelPath: c.RelPath,
		Name:    c.Name,
		Score:   score,
		Details: "content: " + strings.Join(details, ", "),
		Kind:    models.KindContent,
	}, true
}
