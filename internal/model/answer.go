package model

// ScoredChunk pairs a retrieved chunk with its similarity score.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// Answer is the final pipeline output. UsedChunks is diagnostic only
// and is never required to be non-empty: a clarifying question or the
// no-information fallback carries none.
type Answer struct {
	Reply      string      `json:"reply"`
	Intent     QueryIntent `json:"intent"`
	Clarify    bool        `json:"clarify"`
	UsedChunks []string    `json:"used_chunks,omitempty"`

	// Failed marks a reply produced by the apology path after a stage
	// error. Such answers must never be cached; the next identical
	// question has to retry the pipeline.
	Failed bool `json:"-"`
}
