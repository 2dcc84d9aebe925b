package errors

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid")
	ErrTooMany  = errors.New("too many requests")
	ErrInternal = errors.New("internal")

	// ErrIngestion marks a malformed corpus source document. It is
	// per-document: the indexer skips and counts it, the batch goes on.
	ErrIngestion = errors.New("malformed source document")

	// ErrModelUnavailable means the embedding model could not be loaded
	// or does not match the indexed collection. Fatal at startup; the
	// service must refuse to serve rather than degrade retrieval.
	ErrModelUnavailable = errors.New("embedding model unavailable")

	// ErrSynthesis is an internal generation failure. The orchestrator
	// recovers it with the fixed apology reply.
	ErrSynthesis = errors.New("synthesis failed")

	// ErrTranscription signals that a voice input produced no usable
	// text. The core pipeline is never invoked in that case.
	ErrTranscription = errors.New("transcription unavailable")
)

func IsIngestion(err error) bool {
	return errors.Is(err, ErrIngestion)
}

func IsModelUnavailable(err error) bool {
	return errors.Is(err, ErrModelUnavailable)
}
