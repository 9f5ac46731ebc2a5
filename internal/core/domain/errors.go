package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates a document format no extractor handles.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrJobInProgress indicates a processing job for the assignment is
	// already running; a new trigger is coalesced, never interleaved.
	ErrJobInProgress = errors.New("job in progress")

	// ErrLLMUnavailable indicates the completion service is not configured.
	// Keyword expansion, calibration and scoring are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Retrieval is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrIndexUnavailable indicates no rubric index has been built.
	ErrIndexUnavailable = errors.New("rubric index unavailable")

	// ErrIndexStale indicates the persisted rubric index no longer matches
	// the current dimension set. Retrieval is blocked until a rebuild.
	ErrIndexStale = errors.New("rubric index stale")

	// ErrDimensionMismatch indicates embeddings of differing dimensionality
	// were mixed in one index.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrRetryExhausted indicates a transient external-service failure
	// survived every retry attempt. Terminal for the unit of work, not
	// for the batch.
	ErrRetryExhausted = errors.New("retries exhausted")

	// ErrRateLimited indicates the external API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrExtractionEmpty indicates text extraction produced too little
	// readable content even after the OCR fallback.
	ErrExtractionEmpty = errors.New("extraction produced no readable text")
)
