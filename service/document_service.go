package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/KhurramShams/docuchat-be/database"
	"github.com/KhurramShams/docuchat-be/types"
	"github.com/KhurramShams/docuchat-be/utils"
)

// embedBatchSize caps how many chunks go into one embedding call; embedding
// APIs commonly limit batch size.
const embedBatchSize = 10

// DocumentService sequences the ingestion pipeline:
// validate -> fingerprint -> skip-if-indexed -> chunk -> embed -> store,
// and gates question answering on a document being ready. One document is
// processed at a time; a new upload replaces the previous per-document
// context entirely.
type DocumentService struct {
	validator Validator
	splitter  *Splitter
	embedder  Embedder
	index     database.VectorIndex
	records   database.DocumentStore // nil disables audit records
	rag       *RAGService
	logger    *zap.Logger

	mu      sync.Mutex
	state   types.PipelineState
	current *types.IngestResult
}

func NewDocumentService(
	validator Validator,
	splitter *Splitter,
	embedder Embedder,
	index database.VectorIndex,
	records database.DocumentStore,
	rag *RAGService,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		validator: validator,
		splitter:  splitter,
		embedder:  embedder,
		index:     index,
		records:   records,
		rag:       rag,
		logger:    logger,
		state:     types.StateIdle,
	}
}

func (s *DocumentService) State() types.PipelineState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *DocumentService) setState(state types.PipelineState) {
	s.state = state
	s.logger.Info("pipeline state", zap.String("state", string(state)))
}

// Process runs the full ingestion pipeline on one document. Component
// failures are converted into typed errors and leave the pipeline at the
// last stable state; a validation rejection is terminal for the document
// until the user uploads a new one.
func (s *DocumentService) Process(ctx context.Context, title string, data []byte) (*types.IngestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Fresh per-document context; nothing survives from earlier uploads.
	stable := types.StateIdle
	s.current = nil
	s.setState(types.StateUploaded)

	s.setState(types.StateValidating)
	doc, err := s.validator.Validate(data)
	if err != nil {
		if types.IsKind(err, types.ErrValidation) || types.IsKind(err, types.ErrParse) {
			s.setState(types.StateRejected)
		} else {
			s.setState(stable)
		}
		return nil, err
	}

	fingerprint := utils.Fingerprint(data)
	result := &types.IngestResult{
		Fingerprint: fingerprint,
		Title:       title,
		PageCount:   doc.PageCount,
		WordCount:   doc.WordCount,
	}

	s.setState(types.StateFingerprintCheck)
	indexed, err := s.index.IsIndexed(ctx, fingerprint)
	if err != nil {
		s.setState(stable)
		return nil, err
	}
	if indexed {
		s.setState(types.StateAlreadyIndexed)
		result.AlreadyIndexed = true
		s.fillFromRecord(ctx, result)
		s.current = result
		s.setState(types.StateAnsweringReady)
		return result, nil
	}

	s.setState(types.StateChunking)
	chunks := s.splitter.Split(doc.Text)
	if len(chunks) == 0 {
		s.setState(stable)
		return nil, types.NewError(types.ErrChunking, "document produced no chunks")
	}
	result.ChunkCount = len(chunks)

	s.setState(types.StateEmbedding)
	vectors, err := s.embedAll(ctx, chunks)
	if err != nil {
		s.setState(stable)
		return nil, types.WrapError(types.ErrIndex, "failed to embed document chunks", err)
	}

	if err := s.index.StoreChunks(ctx, fingerprint, chunks, vectors); err != nil {
		s.setState(stable)
		return nil, err
	}
	s.setState(types.StateIndexed)

	// The record is written only after every vector batch succeeded, so a
	// failed ingestion is never reported as indexed.
	if s.records != nil {
		record := &types.DocumentRecord{
			Fingerprint: fingerprint,
			Title:       title,
			PageCount:   doc.PageCount,
			WordCount:   doc.WordCount,
			ChunkCount:  len(chunks),
			IndexedAt:   time.Now().Unix(),
		}
		if err := s.records.SaveRecord(ctx, record); err != nil {
			s.logger.Warn("failed to save ingest record", zap.Error(err))
		}
	}

	s.current = result
	s.setState(types.StateAnsweringReady)
	s.logger.Info("document indexed",
		zap.String("fingerprint", fingerprint),
		zap.Int("chunks", len(chunks)))
	return result, nil
}

// Ask answers a question against the indexed document. Repeated calls are
// allowed while the pipeline stays in the answering-ready state.
func (s *DocumentService) Ask(ctx context.Context, question string) (*types.AskResult, error) {
	if err := s.requireReady(); err != nil {
		return nil, err
	}
	return s.rag.Answer(ctx, question)
}

// AskStream is Ask with streamed completion deltas.
func (s *DocumentService) AskStream(ctx context.Context, question string, handler types.StreamHandler) ([]types.ScoredChunk, error) {
	if err := s.requireReady(); err != nil {
		return nil, err
	}
	return s.rag.AnswerStream(ctx, question, handler)
}

// Current returns the ingest result of the active document, or nil.
func (s *DocumentService) Current() *types.IngestResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *DocumentService) requireReady() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != types.StateAnsweringReady {
		return types.NewError(types.ErrValidation, "Upload a valid PDF to ask questions.")
	}
	return nil
}

// embedAll embeds every chunk before anything is upserted: an embedding
// failure therefore leaves the index untouched and the fingerprint
// unindexed.
func (s *DocumentService) embedAll(ctx context.Context, chunks []types.Chunk) ([][]float32, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	var vectors [][]float32
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := s.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (s *DocumentService) fillFromRecord(ctx context.Context, result *types.IngestResult) {
	if s.records == nil {
		return
	}
	record, err := s.records.GetRecord(ctx, result.Fingerprint)
	if err != nil || record == nil {
		return
	}
	result.ChunkCount = record.ChunkCount
}
