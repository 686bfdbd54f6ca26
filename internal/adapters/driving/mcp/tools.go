package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/askdesk/internal/core/domain"
	"github.com/custodia-labs/askdesk/internal/logger"
)

const defaultSearchLimit = 10

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the internal documents"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string           `json:"answer"`
	Sources []DocumentOutput `json:"sources"`
	Model   string           `json:"model"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query to find documents"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10, at most 100)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []DocumentOutput `json:"results"`
	Count   int              `json:"count"`
}

// DocumentOutput represents a single retrieved document.
type DocumentOutput struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the indexed internal documents, with sources",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Full-text search across all indexed documents",
	}, s.handleSearch)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	logger.Debug("mcp ask: %q", input.Question)

	answer, err := s.ports.Answer.Answer(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:  answer.Answer,
		Sources: toOutputs(answer.Sources, false),
		Model:   answer.Model,
	}, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	limit = min(limit, domain.MaxResultLimit)

	docs := s.ports.Search.Retrieve(ctx, input.Query, limit)

	return nil, SearchOutput{
		Results: toOutputs(docs, true),
		Count:   len(docs),
	}, nil
}

func toOutputs(docs []domain.Document, withContent bool) []DocumentOutput {
	out := make([]DocumentOutput, len(docs))
	for i := range docs {
		out[i] = DocumentOutput{ID: docs[i].ID, Title: docs[i].Title}
		if withContent {
			out[i].Content = docs[i].Content
		}
	}
	return out
}
