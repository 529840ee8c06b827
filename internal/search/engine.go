// Package search implements the criterion matchers and the ranking
// engine that combines them.
package search

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/extract"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/prompt"
	"github.com/starford/raido/internal/walk"
)

const (
	defaultWorkers    = 8
	defaultMaxResults = 10

	// rawMatchFactor bounds each matcher's work before ranking: a
	// matcher stops after MaxResults * rawMatchFactor raw matches.
	rawMatchFactor = 10
)

// Engine runs queries: parse the prompt, drive the matchers in the
// criteria's order, intersect, rank, and truncate.
type Engine struct {
	parser   prompt.Parser
	registry *extract.Registry
	excludes []string
	workers  int
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithExcludes appends extra directory exclusion substrings to the
// built-in denylist. Comparison is case-insensitive.
func WithExcludes(extra []string) Option {
	return func(e *Engine) {
		for _, pattern := range extra {
			pattern = strings.ToLower(strings.TrimSpace(pattern))
			if pattern != "" {
				e.excludes = append(e.excludes, pattern)
			}
		}
	}
}

// WithWorkers sets the content-extraction pool size.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine. Close must be called to release the
// extraction worker pool.
func New(parser prompt.Parser, registry *extract.Registry, opts ...Option) (*Engine, error) {
	e := &Engine{
		parser:   parser,
		registry: registry,
		excludes: walk.DefaultExcludes,
		workers:  defaultWorkers,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	pool, err := ants.NewPool(e.workers)
	if err != nil {
		return nil, fmt.Errorf("search: create worker pool: %w", err)
	}
	e.pool = pool
	return e, nil
}

// Close releases the extraction worker pool.
func (e *Engine) Close() {
	e.pool.Release()
}

// ValidateRoot reports whether root can be searched, distinguishing a
// missing path from a path that is not a directory.
func (e *Engine) ValidateRoot(root string) error {
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("search: %s: %w", root, apperr.ErrRootNotFound)
	}
	if err != nil {
		return fmt.Errorf("search: stat root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("search: %s: %w", root, apperr.ErrNotDirectory)
	}
	return nil
}

// Search runs one query to completion and returns ranked results.
// Every invocation performs a fresh filesystem scan per active
// criterion; no state is shared across queries.
func (e *Engine) Search(ctx context.Context, q models.Query) ([]models.Result, error) {
	if err := e.ValidateRoot(q.Root); err != nil {
		return nil, err
	}

	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	rawCap := maxResults * rawMatchFactor

	logger := e.logger.With(slog.String("search_id", uuid.NewString()))

	criteria, err := e.parser.Parse(ctx, q.Prompt)
	if err != nil {
		// Both shipped parsers degrade internally, but a custom Parser
		// may not; keep the same never-fail contract here.
		logger.Warn("query parse failed, using rule parser", slog.String("error", err.Error()))
		criteria, _ = prompt.RuleParser{}.Parse(ctx, q.Prompt)
	}
	logger.Info("criteria parsed",
		slog.Any("file_types", criteria.FileTypes),
		slog.Any("filename_keywords", criteria.FilenameKeywords),
		slog.Any("content_keywords", criteria.ContentKeywords),
		slog.String("logic", string(criteria.Logic)))

	// TODO: honor Logic == LogicOr with a union merge; the intersection
	// below applies AND regardless of what the parser returned.
	var (
		order   []string
		records map[string]models.Match
		seeded  bool
	)
	for _, kind := range criteria.Sequence {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var matches []models.Match
		var err error
		switch kind {
		case models.KindFileType:
			if len(criteria.FileTypes) == 0 {
				continue
			}
			matches, err = e.matchFileType(ctx, q.Root, criteria.FileTypes, rawCap)
		case models.KindFilename:
			if len(criteria.FilenameKeywords) == 0 {
				continue
			}
			matches, err = e.matchFilename(ctx, q.Root, criteria.FilenameKeywords, rawCap)
		case models.KindContent:
			if len(criteria.ContentKeywords) == 0 {
				continue
			}
			matches, err = e.matchContent(ctx, q.Root, criteria.ContentKeywords, rawCap)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		logger.Info("criterion evaluated",
			slog.String("kind", string(kind)),
			slog.Int("matches", len(matches)))

		if !seeded {
			records = make(map[string]models.Match, len(matches))
			for _, m := range matches {
				if _, ok := records[m.Path]; ok {
					continue
				}
				records[m.Path] = m
				order = append(order, m.Path)
			}
			seeded = true
			continue
		}

		// Intersect by path, keeping the newer criterion's record so a
		// result's score and details reflect the last matcher that ran.
		next := make(map[string]models.Match, len(matches))
		for _, m := range matches {
			if _, ok := next[m.Path]; !ok {
				next[m.Path] = m
			}
		}
		var kept []string
		filtered := make(map[string]models.Match, len(kept))
		for _, path := range order {
			if m, ok := next[path]; ok {
				kept = append(kept, path)
				filtered[path] = m
			}
		}
		order, records = kept, filtered
	}

	results := rank(order, records, q.Root, maxResults)
	logger.Info("search complete", slog.Int("results", len(results)))
	return results, nil
}

// kindPriority orders criterion kinds for the final sort: file-type
// matches outrank filename matches, which outrank content matches.
func kindPriority(k models.CriterionKind) int {
	switch k {
	case models.KindFileType:
		return 3
	case models.KindFilename:
		return 2
	case models.KindContent:
		return 1
	}
	return 0
}

func rank(order []string, records map[string]models.Match, root string, limit int) []models.Result {
	matches := make([]models.Match, 0, len(order))
	for _, path := range order {
		matches = append(matches, records[path])
	}

	// Stable sort: ties on (priority, score) keep discovery order.
	sort.SliceStable(matches, func(i, j int) bool {
		pi, pj := kindPriority(matches[i].Kind), kindPriority(matches[j].Kind)
		if pi != pj {
			return pi > pj
		}
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]models.Result, 0, len(matches))
	for _, m := range matches {
		results = append(results, models.Result{
			Path:    m.Path,
			RelPath: relativeTo(root, m.Path),
			Name:    m.Name,
			Score:   m.Score,
			Details: m.Details,
			Kind:    m.Kind,
		})
	}
	return results
}

// relativeTo strips the root prefix and normalizes separators to
// forward slashes.
func relativeTo(root, path string) string {
	rel := strings.TrimPrefix(path, root)
	rel = strings.TrimLeft(rel, "/\\")
	return filepath.ToSlash(rel)
}
