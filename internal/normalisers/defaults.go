package normalisers

import (
	"github.com/custodia-labs/askdesk/internal/normalisers/html"
	"github.com/custodia-labs/askdesk/internal/normalisers/markdown"
	"github.com/custodia-labs/askdesk/internal/normalisers/plaintext"
)

// Default returns a registry with the built-in normalisers:
// .txt, .md/.markdown and .html/.htm.
func Default() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	return r
}
