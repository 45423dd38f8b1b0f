package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a file extension no loader handles.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrIO indicates a file could not be read or is corrupt.
	ErrIO = errors.New("io error")

	// ErrDuplicateChunk indicates the store already holds a chunk with the same identity key.
	// Callers report it as a skip.
	ErrDuplicateChunk = errors.New("duplicate chunk")

	// ErrTransient indicates an external call kept failing after every retry attempt.
	ErrTransient = errors.New("transient service failure")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrAnswerUnavailable indicates the answer generator is not configured.
	ErrAnswerUnavailable = errors.New("answer generator unavailable")

	// ErrStoreUnavailable indicates the vector store could not be reached.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrUnauthorized indicates the access password did not match.
	ErrUnauthorized = errors.New("unauthorized")
)
