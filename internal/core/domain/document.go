package domain

import "time"

// Document is a stored unit of knowledge.
// Documents are append-only: once ingested they are never updated or deleted.
type Document struct {
	// ID is assigned by the store on insert. It is monotonically increasing
	// and doubles as the rowid of the document's search index entry.
	ID int64 `json:"id"`

	// Title is the human-readable title, used as the provenance label
	// when the document is placed in a prompt context.
	Title string `json:"title"`

	// Content is the full searchable text.
	Content string `json:"content"`

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time `json:"-"`
}

// DocumentSummary is the listing projection of a Document.
type DocumentSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Summary returns the listing projection of the document.
func (d Document) Summary() DocumentSummary {
	return DocumentSummary{ID: d.ID, Title: d.Title}
}

// NewDocument is an ingestion request that has not been stored yet.
type NewDocument struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}
