package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/search"
)

// Handler holds API route handlers.
type Handler struct {
	engine *search.Engine
}

// NewHandler creates a new Handler.
func NewHandler(engine *search.Engine) *Handler {
	return &Handler{engine: engine}
}

// Search handles POST /api/search: run one natural-language file
// search and return ranked results.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	// The engine expects an absolute, cleaned root; normalization is
	// the wrapper's job.
	root := req.FolderPath
	if !filepath.IsAbs(root) {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	root = filepath.Clean(root)

	results, err := h.engine.Search(r.Context(), models.Query{
		Root:       root,
		Prompt:     req.SearchPrompt,
		MaxResults: req.MaxResults,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrRootNotFound):
			writeJSON(w, http.StatusNotFound, errorBody(fmt.Sprintf("folder path %s does not exist", root)))
		case errors.Is(err, apperr.ErrNotDirectory):
			writeJSON(w, http.StatusBadRequest, errorBody(fmt.Sprintf("%s is not a directory", root)))
		default:
			slog.Error("search failed", slog.String("root", root), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}

	if results == nil {
		results = []models.Result{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results, Total: len(results)})
}
