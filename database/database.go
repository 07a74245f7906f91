package database

import (
	"context"

	"github.com/KhurramShams/docuchat-be/types"
)

// VectorIndex is the gateway to the remote vector store. Implementations
// wrap every remote failure in a types.Error with kind "index" so callers
// can decide retry vs abort.
type VectorIndex interface {
	// EnsureSchema idempotently guarantees the index exists with the
	// configured dimension and metric; it creates the class only if absent.
	EnsureSchema(ctx context.Context) error

	// IsIndexed reports whether any stored vector carries the fingerprint.
	IsIndexed(ctx context.Context, fingerprint string) (bool, error)

	// StoreChunks upserts one vector per chunk with metadata
	// {fingerprint, chunkIndex, content}. Vector IDs are derived from
	// fingerprint and chunk index, so re-storing the same document is an
	// idempotent overwrite rather than a duplicate.
	StoreChunks(ctx context.Context, fingerprint string, chunks []types.Chunk, vectors [][]float32) error

	// SearchSimilar returns the k nearest chunks, highest similarity first.
	SearchSimilar(ctx context.Context, vector []float32, limit int) ([]types.ScoredChunk, error)

	// DeleteByFingerprint removes every vector stored for one document.
	DeleteByFingerprint(ctx context.Context, fingerprint string) error

	// Reset drops and recreates the whole index. Destructive; only the
	// reset-index command calls it.
	Reset(ctx context.Context) error
}

// DocumentStore persists ingest audit records. The pipeline works without
// one; a nil store just disables the documents listing.
type DocumentStore interface {
	SaveRecord(ctx context.Context, record *types.DocumentRecord) error
	GetRecord(ctx context.Context, fingerprint string) (*types.DocumentRecord, error)
	ListRecords(ctx context.Context) ([]types.DocumentRecord, error)
}
