package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/KhurramShams/docuchat-be/types"
)

// fakeEmbedder produces deterministic vectors derived from text length so
// tests can tell inputs apart without a real model.
type fakeEmbedder struct {
	dimension  int
	embedErr   error
	batchErr   error
	batchCalls int
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{dimension: 4}
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return f.vectorFor(text), nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.batchCalls++
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		vectors[i] = f.vectorFor(t)
	}
	return vectors, nil
}

func (f *fakeEmbedder) Dimension() int {
	return f.dimension
}

func (f *fakeEmbedder) vectorFor(text string) []float32 {
	v := make([]float32, f.dimension)
	for i := range v {
		v[i] = float32(len(text)%(i+2)) + 0.5
	}
	return v
}

// fakeChat echoes the prompts it received so tests can inspect them.
type fakeChat struct {
	answer      string
	completeErr error
	lastSystem  string
	lastUser    string
	deltas      []string
}

func (f *fakeChat) Complete(ctx context.Context, system, user string) (string, error) {
	f.lastSystem = system
	f.lastUser = user
	if f.completeErr != nil {
		return "", f.completeErr
	}
	if f.answer != "" {
		return f.answer, nil
	}
	return "fake answer", nil
}

func (f *fakeChat) CompleteStream(ctx context.Context, system, user string, handler types.StreamHandler) error {
	f.lastSystem = system
	f.lastUser = user
	if f.completeErr != nil {
		return f.completeErr
	}
	deltas := f.deltas
	if len(deltas) == 0 {
		deltas = []string{"fake ", "answer"}
	}
	for _, d := range deltas {
		handler(d)
	}
	return nil
}

// fakeIndex is an in-memory VectorIndex keyed by fingerprint.
type fakeIndex struct {
	mu          sync.Mutex
	stored      map[string][]types.Chunk
	vectors     map[string][][]float32
	storeErr    error
	searchErr   error
	isIndexed   error
	searchHits  []types.ScoredChunk
	searchLimit int
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{
		stored:  make(map[string][]types.Chunk),
		vectors: make(map[string][][]float32),
	}
}

func (f *fakeIndex) EnsureSchema(ctx context.Context) error { return nil }

func (f *fakeIndex) IsIndexed(ctx context.Context, fingerprint string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.isIndexed != nil {
		return false, f.isIndexed
	}
	_, ok := f.stored[fingerprint]
	return ok, nil
}

func (f *fakeIndex) StoreChunks(ctx context.Context, fingerprint string, chunks []types.Chunk, vectors [][]float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return f.storeErr
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}
	f.stored[fingerprint] = chunks
	f.vectors[fingerprint] = vectors
	return nil
}

func (f *fakeIndex) SearchSimilar(ctx context.Context, vector []float32, limit int) ([]types.ScoredChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchLimit = limit
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.searchHits != nil {
		if len(f.searchHits) > limit {
			return f.searchHits[:limit], nil
		}
		return f.searchHits, nil
	}
	var hits []types.ScoredChunk
	for fp, chunks := range f.stored {
		for _, c := range chunks {
			hits = append(hits, types.ScoredChunk{Chunk: c, Fingerprint: fp, Score: 0.9})
			if len(hits) == limit {
				return hits, nil
			}
		}
	}
	return hits, nil
}

func (f *fakeIndex) DeleteByFingerprint(ctx context.Context, fingerprint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stored, fingerprint)
	delete(f.vectors, fingerprint)
	return nil
}

func (f *fakeIndex) Reset(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = make(map[string][]types.Chunk)
	f.vectors = make(map[string][][]float32)
	return nil
}

// fakeValidator accepts any input whose bytes do not start with "bad".
type fakeValidator struct {
	text     string
	pages    int
	words    int
	parseErr bool
}

func (f *fakeValidator) Validate(data []byte) (*types.ValidatedDocument, error) {
	if f.parseErr {
		return nil, types.WrapError(types.ErrParse, "Error reading PDF: truncated", errors.New("truncated"))
	}
	if strings.HasPrefix(string(data), "bad") {
		return nil, types.NewError(types.ErrValidation, "PDF has 6 pages. Maximum allowed is 5.")
	}
	text := f.text
	if text == "" {
		text = string(data)
	}
	pages := f.pages
	if pages == 0 {
		pages = 1
	}
	words := f.words
	if words == 0 {
		words = len(strings.Fields(text))
	}
	return &types.ValidatedDocument{
		Text:      text,
		PageCount: pages,
		WordCount: words,
		Message:   "PDF is valid.",
	}, nil
}

// fakeRecords is an in-memory DocumentStore.
type fakeRecords struct {
	mu      sync.Mutex
	records map[string]types.DocumentRecord
	saveErr error
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{records: make(map[string]types.DocumentRecord)}
}

func (f *fakeRecords) SaveRecord(ctx context.Context, record *types.DocumentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records[record.Fingerprint] = *record
	return nil
}

func (f *fakeRecords) GetRecord(ctx context.Context, fingerprint string) (*types.DocumentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[fingerprint]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (f *fakeRecords) ListRecords(ctx context.Context) ([]types.DocumentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.DocumentRecord
	for _, r := range f.records {
		out = append(out, r)
	}
	return out, nil
}
