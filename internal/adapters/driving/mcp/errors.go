// Package mcp provides an MCP (Model Context Protocol) server adapter for askdesk.
// It lets AI assistants ask grounded questions and search the document index.
package mcp

import "errors"

var (
	// ErrMissingAnswerService is returned when the answer service is not provided.
	ErrMissingAnswerService = errors.New("mcp: answer service is required")

	// ErrMissingSearchService is returned when the search service is not provided.
	ErrMissingSearchService = errors.New("mcp: search service is required")
)
