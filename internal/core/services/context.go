package services

import (
	"strings"

	"github.com/custodia-labs/askdesk/internal/core/domain"
)

// NoContextSentinel is the context text used when retrieval found nothing.
const NoContextSentinel = "No relevant internal documents found."

// AssembleContext formats documents into the context block placed in the
// prompt. Each document becomes "--- Source: <title> ---\n<content>" and
// blocks are separated by a blank line, in input order.
func AssembleContext(docs []domain.Document) string {
	return AssembleContextWithBudget(docs, 0)
}

// AssembleContextWithBudget is AssembleContext with an upper bound on the
// context length in bytes. The block that crosses the budget is truncated and
// later documents are dropped. maxChars <= 0 means unbounded.
func AssembleContextWithBudget(docs []domain.Document, maxChars int) string {
	if len(docs) == 0 {
		return NoContextSentinel
	}

	var b strings.Builder
	for i, doc := range docs {
		block := sourceBlock(doc)
		if i > 0 {
			block = "\n\n" + block
		}
		if maxChars > 0 {
			remaining := maxChars - b.Len()
			if remaining <= 0 {
				break
			}
			if len(block) > remaining {
				b.WriteString(truncateRunes(block, remaining))
				break
			}
		}
		b.WriteString(block)
	}
	return b.String()
}

func sourceBlock(doc domain.Document) string {
	return "--- Source: " + doc.Title + " ---\n" + doc.Content
}

// truncateRunes cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
