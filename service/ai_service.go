package service

import (
	"context"

	"github.com/KhurramShams/docuchat-be/types"
)

// Embedder turns text into a fixed-dimension vector. The same Embedder
// instance must serve both ingestion and querying; wiring a single one at
// startup is what keeps the embedding spaces consistent.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// ChatModel produces a completion for one stateless prompt. No conversation
// memory is kept across calls.
type ChatModel interface {
	Complete(ctx context.Context, system, user string) (string, error)
	CompleteStream(ctx context.Context, system, user string, handler types.StreamHandler) error
}

// AIService is the pair of collaborators the pipeline needs from a provider.
type AIService interface {
	Embedder
	ChatModel
}

// Validator checks raw PDF bytes against the upload limits and extracts the
// document text.
type Validator interface {
	Validate(data []byte) (*types.ValidatedDocument, error)
}
