package domain

import "errors"

var (
	// ErrChunkStoreError signals a chunk store failure.
	ErrChunkStoreError = errors.New("chunk store error")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorDimMismatch signals an embedding dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrInvalidParams signals search parameters outside their valid ranges.
	ErrInvalidParams = errors.New("invalid search parameters")
	// ErrInvalidScope signals a search scope without an owner.
	ErrInvalidScope = errors.New("invalid search scope")
)
