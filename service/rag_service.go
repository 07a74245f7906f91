package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/KhurramShams/docuchat-be/database"
	"github.com/KhurramShams/docuchat-be/types"
)

const defaultTopK = 3

const ragSystemPrompt = "You are a helpful assistant. Answer the user's question based only on the " +
	"following context. If the context does not contain enough information, say so. Do not make up facts."

// RAGService answers questions by retrieving the top-k most similar chunks
// and stuffing them, together with the question, into a single completion
// call. The question is embedded with the same Embedder used at ingestion.
type RAGService struct {
	embedder Embedder
	chat     ChatModel
	index    database.VectorIndex
	topK     int
	logger   *zap.Logger
}

func NewRAGService(embedder Embedder, chat ChatModel, index database.VectorIndex, topK int, logger *zap.Logger) *RAGService {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &RAGService{
		embedder: embedder,
		chat:     chat,
		index:    index,
		topK:     topK,
		logger:   logger,
	}
}

// Answer returns the model's completion verbatim along with the retrieved
// chunks. No automatic retry on failure; that is the caller's decision.
func (s *RAGService) Answer(ctx context.Context, question string) (*types.AskResult, error) {
	chunks, err := s.retrieve(ctx, question)
	if err != nil {
		return nil, err
	}

	answer, err := s.chat.Complete(ctx, ragSystemPrompt, buildPrompt(chunks, question))
	if err != nil {
		return nil, types.WrapError(types.ErrGeneration, "failed to generate answer", err)
	}

	return &types.AskResult{
		Answer: strings.TrimSpace(answer),
		Chunks: chunks,
	}, nil
}

// AnswerStream behaves like Answer but forwards completion deltas to the
// handler as they arrive. It returns the retrieved chunks.
func (s *RAGService) AnswerStream(ctx context.Context, question string, handler types.StreamHandler) ([]types.ScoredChunk, error) {
	chunks, err := s.retrieve(ctx, question)
	if err != nil {
		return nil, err
	}
	if err := s.chat.CompleteStream(ctx, ragSystemPrompt, buildPrompt(chunks, question), handler); err != nil {
		return nil, types.WrapError(types.ErrGeneration, "failed to generate answer", err)
	}
	return chunks, nil
}

func (s *RAGService) retrieve(ctx context.Context, question string) ([]types.ScoredChunk, error) {
	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, types.WrapError(types.ErrRetrieval, "failed to embed question", err)
	}

	chunks, err := s.index.SearchSimilar(ctx, vector, s.topK)
	if err != nil {
		return nil, types.WrapError(types.ErrRetrieval, "failed to retrieve context", err)
	}
	if len(chunks) == 0 {
		return nil, types.NewError(types.ErrRetrieval, "no indexed content to answer from")
	}

	s.logger.Info("retrieved context",
		zap.Int("chunks", len(chunks)),
		zap.Float32("top_score", chunks[0].Score))
	return chunks, nil
}

func buildPrompt(chunks []types.ScoredChunk, question string) string {
	var sb strings.Builder
	sb.WriteString("Context:")
	for _, c := range chunks {
		sb.WriteString("\n---\n")
		sb.WriteString(c.Content)
	}
	sb.WriteString("\n---")
	fmt.Fprintf(&sb, "\n\nQuestion: %s\n\nAnswer:", question)
	return sb.String()
}
