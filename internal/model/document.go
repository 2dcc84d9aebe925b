package model

// Document is one source legal text unit: a code section, a glossary
// term or an amendment note. Documents are immutable once ingested.
type Document struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Section  string `json:"section"`
	Category string `json:"category"`
}

// Chunk is a retrievable slice of a document. The ID is derived from
// the document ID and the rune offset of the slice, so re-indexing an
// unchanged corpus always yields identical chunk IDs.
type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Source     string    `json:"source"`
	Title      string    `json:"title"`
	Section    string    `json:"section"`
	Text       string    `json:"text"`
	Offset     int       `json:"offset"`
	Length     int       `json:"length"`
	Embedding  []float32 `json:"-"`
}
