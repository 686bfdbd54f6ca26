// Package plaintext provides the fallback Normaliser for .txt files.
package plaintext

import (
	"strings"

	"github.com/custodia-labs/askdesk/internal/core/domain"
	"github.com/custodia-labs/askdesk/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const byteOrderMark = "\uFEFF"

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Extensions returns the file extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".txt"}
}

// Normalise returns the text with line endings unified and any byte order
// mark removed. The title is always fallbackTitle.
func (n *Normaliser) Normalise(fallbackTitle string, data []byte) domain.NewDocument {
	return domain.NewDocument{
		Title:   fallbackTitle,
		Content: Clean(string(data)),
	}
}

// Clean strips a leading byte order mark and converts CRLF and CR line
// endings to LF.
func Clean(content string) string {
	content = strings.TrimPrefix(content, byteOrderMark)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}
