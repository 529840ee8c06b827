// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Raido file search tools via stdio transport.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/search"
)

const (
	defaultMaxResults = 10

	// fallbackScore is the fixed relevance assigned to the unfiltered
	// directory listing shown when a search matches nothing.
	fallbackScore = 5
)

// Server wraps the MCP server with Raido tools.
type Server struct {
	mcp    *server.MCPServer
	engine *search.Engine
}

// New creates a new MCP server with all Raido tools registered.
func New(engine *search.Engine) *Server {
	s := &Server{engine: engine}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_files",
		mcp.WithDescription("Search for files in a local directory by file type, filename, and content. "+
			"Describe what you are looking for in natural language; see the raido://search-guide "+
			"resource for prompt tips."),
		mcp.WithString("folder_path", mcp.Required(), mcp.Description("Absolute path to the folder to search in")),
		mcp.WithString("search_prompt", mcp.Required(), mcp.Description("Natural language description of files to search for")),
		mcp.WithNumber("max_results", mcp.Description("Maximum number of results to return (1-100, default 10)")),
	), s.searchFiles)

	s.mcp.AddTool(mcp.NewTool("validate_path",
		mcp.WithDescription("Check that a folder path exists and is a directory before searching it."),
		mcp.WithString("folder_path", mcp.Required(), mcp.Description("Path to check")),
	), s.validatePath)

	// Resource: search prompt guide.
	s.mcp.AddResource(
		mcp.NewResource("raido://search-guide", "File Search Guide",
			mcp.WithResourceDescription("How to phrase search prompts for the best results."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSearchGuideResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

type searchArgs struct {
	FolderPath   string
	SearchPrompt string
	MaxResults   int
}

func (a searchArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.FolderPath, validation.Required),
		validation.Field(&a.SearchPrompt, validation.Required),
		validation.Field(&a.MaxResults, validation.Min(1), validation.Max(100)),
	)
}

func (s *Server) searchFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder, err := req.RequireString("folder_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	searchPrompt, err := req.RequireString("search_prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	maxResults := req.GetInt("max_results", defaultMaxResults)

	args := searchArgs{FolderPath: folder, SearchPrompt: searchPrompt, MaxResults: maxResults}
	if err := args.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// The engine expects an absolute, cleaned root; normalization is
	// the wrapper's job.
	root := folder
	if !filepath.IsAbs(root) {
		if abs, absErr := filepath.Abs(root); absErr == nil {
			root = abs
		}
	}
	root = filepath.Clean(root)

	results, err := s.engine.Search(ctx, models.Query{
		Root:       root,
		Prompt:     searchPrompt,
		MaxResults: maxResults,
	})
	switch {
	case errors.Is(err, apperr.ErrRootNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("folder %q does not exist", root)), nil
	case errors.Is(err, apperr.ErrNotDirectory):
		return mcp.NewToolResultError(fmt.Sprintf("%q is not a directory", root)), nil
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return s.fallbackListing(root, maxResults)
	}
	header := fmt.Sprintf("Found %d files matching %q:", len(results), searchPrompt)
	return mcp.NewToolResultText(formatResults(header, results)), nil
}

// fallbackListing emits a flat listing of the root's top-level files
// when the search matched nothing, so the caller still sees what is
// there.
func (s *Server) fallbackListing(root string, limit int) (*mcp.CallToolResult, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("permission denied accessing %q", root)), nil
	}

	var results []models.Result
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if len(results) >= limit {
			break
		}
		name := entry.Name()
		results = append(results, models.Result{
			Path:    filepath.Join(root, name),
			RelPath: name,
			Name:    name,
			Score:   fallbackScore,
			Details: "fallback - showing all files in directory",
			Kind:    models.KindFallback,
		})
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("folder is empty"), nil
	}
	header := fmt.Sprintf("Found %d files:", len(results))
	return mcp.NewToolResultText(formatResults(header, results)), nil
}

func formatResults(header string, results []models.Result) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	for i, res := range results {
		fmt.Fprintf(&b, "%d. **%s**\n   - Full path: %s\n   - Relevance: %d/10\n   - Match: %s\n\n",
			i+1, res.RelPath, res.Path, res.Score, res.Details)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *Server) validatePath(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder, err := req.RequireString("folder_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.engine.ValidateRoot(folder); err != nil {
		switch {
		case errors.Is(err, apperr.ErrRootNotFound):
			return mcp.NewToolResultError(fmt.Sprintf("folder %q does not exist", folder)), nil
		case errors.Is(err, apperr.ErrNotDirectory):
			return mcp.NewToolResultError(fmt.Sprintf("%q is not a directory", folder)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("ok: %s is a searchable directory", folder)), nil
}

func (s *Server) readSearchGuideResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "raido://search-guide",
			MIMEType: "text/markdown",
			Text:     SearchGuide,
		},
	}, nil
}
