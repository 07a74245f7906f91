package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
	"go.uber.org/zap"

	"github.com/KhurramShams/docuchat-be/config"
	"github.com/KhurramShams/docuchat-be/types"
)

const batchSize = 100

// chunkNamespace seeds the deterministic object IDs. One fingerprint and
// chunk index always map to the same UUID, so a concurrent double-ingest
// degenerates to an idempotent re-upsert instead of duplicate vectors.
var chunkNamespace = uuid.MustParse("8a0e6f6e-1d3c-4e7b-9f2a-5c1b7d4e9a21")

// WeaviateStore implements VectorIndex on top of a Weaviate class holding
// one object per chunk with metadata {fingerprint, chunkIndex, content}.
// Vectorizer is "none": the pipeline supplies its own embeddings so that
// ingestion and query share a single embedding space by construction.
type WeaviateStore struct {
	client    *weaviate.Client
	className string
	dimension int
	logger    *zap.Logger
}

func NewWeaviateStore(cfg config.WeaviateStoreConfig, dimension int, logger *zap.Logger) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(cfg.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(cfg.Host, scheme+"://")
	clientCfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if cfg.APIKey != "" {
		clientCfg.AuthConfig = auth.ApiKey{Value: cfg.APIKey}
	}
	client, err := weaviate.NewClient(clientCfg)
	if err != nil {
		return nil, types.WrapError(types.ErrIndex, "failed to create weaviate client", err)
	}
	return &WeaviateStore{
		client:    client,
		className: cfg.ClassName,
		dimension: dimension,
		logger:    logger,
	}, nil
}

func (s *WeaviateStore) classObject() *models.Class {
	return &models.Class{
		Class: s.className,
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "fingerprint", DataType: []string{"text"}},
			{Name: "chunkIndex", DataType: []string{"int"}},
		},
		Vectorizer:        "none",
		VectorIndexType:   "hnsw",
		VectorIndexConfig: map[string]interface{}{"distance": "cosine"},
	}
}

// EnsureSchema creates the chunk class if it does not exist yet. Safe to
// call on every startup; creation happens at most once per index name.
func (s *WeaviateStore) EnsureSchema(ctx context.Context) error {
	schema, err := s.client.Schema().Getter().Do(ctx)
	if err != nil {
		return types.WrapError(types.ErrIndex, "failed to get schema", err)
	}
	for _, class := range schema.Classes {
		if class.Class == s.className {
			return nil
		}
	}
	if err := s.client.Schema().ClassCreator().WithClass(s.classObject()).Do(ctx); err != nil {
		return types.WrapError(types.ErrIndex, fmt.Sprintf("failed to create class %s", s.className), err)
	}
	s.logger.Info("created vector index class", zap.String("class", s.className))
	return nil
}

// IsIndexed reports whether any stored object carries the fingerprint.
func (s *WeaviateStore) IsIndexed(ctx context.Context, fingerprint string) (bool, error) {
	where := filters.Where().
		WithPath([]string{"fingerprint"}).
		WithOperator(filters.Equal).
		WithValueString(fingerprint)

	result, err := s.client.GraphQL().Get().
		WithClassName(s.className).
		WithFields(graphql.Field{Name: "_additional", Fields: []graphql.Field{{Name: "id"}}}).
		WithWhere(where).
		WithLimit(1).
		Do(ctx)
	if err != nil {
		return false, types.WrapError(types.ErrIndex, "fingerprint lookup failed", err)
	}
	if len(result.Errors) > 0 {
		return false, types.NewError(types.ErrIndex, "fingerprint lookup failed: "+result.Errors[0].Message)
	}
	return len(s.classData(result)) > 0, nil
}

// StoreChunks upserts one object per chunk in batches. Object IDs are
// deterministic per (fingerprint, chunkIndex); any per-object batch error
// fails the whole store so the fingerprint is never half-indexed.
func (s *WeaviateStore) StoreChunks(ctx context.Context, fingerprint string, chunks []types.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return types.NewError(types.ErrIndex, "chunks and vectors length mismatch")
	}
	for i, vec := range vectors {
		if len(vec) != s.dimension {
			return types.NewError(types.ErrIndex,
				fmt.Sprintf("vector %d has dimension %d, index expects %d", i, len(vec), s.dimension))
		}
	}

	total := len(chunks)
	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()
		for i := start; i < end; i++ {
			batcher = batcher.WithObjects(&models.Object{
				Class: s.className,
				ID:    chunkObjectID(fingerprint, chunks[i].Index),
				Properties: map[string]interface{}{
					"content":     chunks[i].Content,
					"fingerprint": fingerprint,
					"chunkIndex":  chunks[i].Index,
				},
				Vector: vectors[i],
			})
		}

		resp, err := batcher.Do(ctx)
		if err != nil {
			return types.WrapError(types.ErrIndex, fmt.Sprintf("failed to store batch %d-%d", start, end), err)
		}
		for _, obj := range resp {
			if obj.Result != nil && obj.Result.Errors != nil && len(obj.Result.Errors.Error) > 0 {
				return types.NewError(types.ErrIndex,
					fmt.Sprintf("failed to store object %s: %s", obj.ID, obj.Result.Errors.Error[0].Message))
			}
		}
		s.logger.Info("stored chunk batch",
			zap.String("fingerprint", fingerprint),
			zap.Int("from", start), zap.Int("to", end), zap.Int("total", total))
	}
	return nil
}

// SearchSimilar runs a nearVector query and returns the k nearest chunks,
// highest similarity first. Similarity is 1 - cosine distance.
func (s *WeaviateStore) SearchSimilar(ctx context.Context, vector []float32, limit int) ([]types.ScoredChunk, error) {
	if limit <= 0 {
		limit = 3
	}
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "fingerprint"},
		{Name: "chunkIndex"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}}},
	}
	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vector)

	result, err := s.client.GraphQL().Get().
		WithClassName(s.className).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, types.WrapError(types.ErrIndex, "similarity search failed", err)
	}
	if len(result.Errors) > 0 {
		return nil, types.NewError(types.ErrIndex, "similarity search failed: "+result.Errors[0].Message)
	}

	var hits []types.ScoredChunk
	for _, item := range s.classData(result) {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		hit := types.ScoredChunk{}
		if v, ok := obj["content"].(string); ok {
			hit.Content = v
		}
		if v, ok := obj["fingerprint"].(string); ok {
			hit.Fingerprint = v
		}
		if v, ok := obj["chunkIndex"].(float64); ok {
			hit.Index = int(v)
		}
		if additional, ok := obj["_additional"].(map[string]interface{}); ok {
			if d, ok := additional["distance"].(float64); ok {
				hit.Score = 1 - float32(d)
			}
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// DeleteByFingerprint removes every vector stored for one document.
func (s *WeaviateStore) DeleteByFingerprint(ctx context.Context, fingerprint string) error {
	where := filters.Where().
		WithPath([]string{"fingerprint"}).
		WithOperator(filters.Equal).
		WithValueString(fingerprint)

	_, err := s.client.Batch().ObjectsBatchDeleter().
		WithClassName(s.className).
		WithWhere(where).
		Do(ctx)
	if err != nil {
		return types.WrapError(types.ErrIndex, "failed to delete document vectors", err)
	}
	return nil
}

// Reset drops and recreates the class. This is the destructive replace
// policy; it destroys every stored document and is reachable only through
// the reset-index command.
func (s *WeaviateStore) Reset(ctx context.Context) error {
	if err := s.client.Schema().ClassDeleter().WithClassName(s.className).Do(ctx); err != nil {
		return types.WrapError(types.ErrIndex, fmt.Sprintf("failed to delete class %s", s.className), err)
	}
	if err := s.client.Schema().ClassCreator().WithClass(s.classObject()).Do(ctx); err != nil {
		return types.WrapError(types.ErrIndex, fmt.Sprintf("failed to recreate class %s", s.className), err)
	}
	s.logger.Warn("vector index reset", zap.String("class", s.className))
	return nil
}

// classData digs the per-class object list out of a GraphQL Get response.
func (s *WeaviateStore) classData(result *models.GraphQLResponse) []interface{} {
	get, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return nil
	}
	data, _ := get[s.className].([]interface{})
	return data
}

func chunkObjectID(fingerprint string, chunkIndex int) strfmt.UUID {
	id := uuid.NewSHA1(chunkNamespace, []byte(fmt.Sprintf("%s:%d", fingerprint, chunkIndex)))
	return strfmt.UUID(id.String())
}
