package database

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/KhurramShams/docuchat-be/config"
	"github.com/KhurramShams/docuchat-be/types"
)

// fakeWeaviate is a minimal HTTP double for the subset of the Weaviate REST
// API the store talks to.
type fakeWeaviate struct {
	srv            *httptest.Server
	schemaClasses  []string
	createdClasses []map[string]interface{}
	deletedClasses []string
	graphqlQueries []string
	graphqlReply   string
	batchedObjects []map[string]interface{}
	batchDeletes   []string
}

func newFakeWeaviate(t *testing.T) *fakeWeaviate {
	t.Helper()
	f := &fakeWeaviate{graphqlReply: `{"data":{"Get":{"RagIndex":[]}}}`}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/schema", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			classes := make([]map[string]interface{}, 0, len(f.schemaClasses))
			for _, name := range f.schemaClasses {
				classes = append(classes, map[string]interface{}{"class": name})
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"classes": classes})
		case http.MethodPost:
			var class map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&class))
			f.createdClasses = append(f.createdClasses, class)
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(class)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/v1/schema/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			f.deletedClasses = append(f.deletedClasses, r.URL.Path)
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
	mux.HandleFunc("/v1/graphql", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		query, _ := body["query"].(string)
		f.graphqlQueries = append(f.graphqlQueries, query)
		w.Write([]byte(f.graphqlReply))
	})
	mux.HandleFunc("/v1/batch/objects", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var body struct {
				Objects []map[string]interface{} `json:"objects"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.batchedObjects = append(f.batchedObjects, body.Objects...)
			out := make([]map[string]interface{}, 0, len(body.Objects))
			for _, obj := range body.Objects {
				out = append(out, map[string]interface{}{
					"id":     obj["id"],
					"class":  obj["class"],
					"result": map[string]interface{}{"status": "SUCCESS"},
				})
			}
			json.NewEncoder(w).Encode(out)
		case http.MethodDelete:
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			raw, _ := json.Marshal(body)
			f.batchDeletes = append(f.batchDeletes, string(raw))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"results": map[string]interface{}{"matches": 1},
			})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func newTestStore(t *testing.T, f *fakeWeaviate) *WeaviateStore {
	t.Helper()
	store, err := NewWeaviateStore(config.WeaviateStoreConfig{
		Host:      f.srv.URL,
		ClassName: "RagIndex",
	}, 3, zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestEnsureSchemaCreatesMissingClass(t *testing.T) {
	f := newFakeWeaviate(t)
	store := newTestStore(t, f)

	require.NoError(t, store.EnsureSchema(context.Background()))

	require.Len(t, f.createdClasses, 1)
	created := f.createdClasses[0]
	assert.Equal(t, "RagIndex", created["class"])
	assert.Equal(t, "none", created["vectorizer"])
	assert.Equal(t, "hnsw", created["vectorIndexType"])
}

func TestEnsureSchemaSkipsExistingClass(t *testing.T) {
	f := newFakeWeaviate(t)
	f.schemaClasses = []string{"RagIndex"}
	store := newTestStore(t, f)

	require.NoError(t, store.EnsureSchema(context.Background()))

	assert.Empty(t, f.createdClasses)
}

func TestIsIndexed(t *testing.T) {
	f := newFakeWeaviate(t)
	store := newTestStore(t, f)

	f.graphqlReply = `{"data":{"Get":{"RagIndex":[]}}}`
	indexed, err := store.IsIndexed(context.Background(), "abc123")
	require.NoError(t, err)
	assert.False(t, indexed)

	f.graphqlReply = `{"data":{"Get":{"RagIndex":[{"_additional":{"id":"some-id"}}]}}}`
	indexed, err = store.IsIndexed(context.Background(), "abc123")
	require.NoError(t, err)
	assert.True(t, indexed)

	// The lookup filters on the fingerprint property.
	require.NotEmpty(t, f.graphqlQueries)
	assert.Contains(t, f.graphqlQueries[0], "fingerprint")
	assert.Contains(t, f.graphqlQueries[0], "abc123")
}

func TestStoreChunksUpsertsDeterministicIDs(t *testing.T) {
	f := newFakeWeaviate(t)
	store := newTestStore(t, f)

	chunks := []types.Chunk{
		{Index: 0, Content: "first chunk"},
		{Index: 1, Content: "second chunk"},
	}
	vectors := [][]float32{{1, 0, 0}, {0, 1, 0}}

	require.NoError(t, store.StoreChunks(context.Background(), "fp-1", chunks, vectors))

	require.Len(t, f.batchedObjects, 2)
	first := f.batchedObjects[0]
	assert.Equal(t, "RagIndex", first["class"])
	assert.Equal(t, string(chunkObjectID("fp-1", 0)), first["id"])
	props := first["properties"].(map[string]interface{})
	assert.Equal(t, "first chunk", props["content"])
	assert.Equal(t, "fp-1", props["fingerprint"])
	assert.Equal(t, float64(0), props["chunkIndex"])

	// Re-storing the same document produces the same IDs, so the second
	// write is an overwrite rather than a duplicate.
	require.NoError(t, store.StoreChunks(context.Background(), "fp-1", chunks, vectors))
	require.Len(t, f.batchedObjects, 4)
	assert.Equal(t, f.batchedObjects[0]["id"], f.batchedObjects[2]["id"])
	assert.Equal(t, f.batchedObjects[1]["id"], f.batchedObjects[3]["id"])
}

func TestStoreChunksRejectsDimensionMismatch(t *testing.T) {
	f := newFakeWeaviate(t)
	store := newTestStore(t, f)

	err := store.StoreChunks(context.Background(), "fp-1",
		[]types.Chunk{{Index: 0, Content: "c"}},
		[][]float32{{1, 0}})

	require.Error(t, err)
	assert.Equal(t, types.ErrIndex, types.KindOf(err))
	assert.Empty(t, f.batchedObjects)
}

func TestStoreChunksRejectsCountMismatch(t *testing.T) {
	f := newFakeWeaviate(t)
	store := newTestStore(t, f)

	err := store.StoreChunks(context.Background(), "fp-1",
		[]types.Chunk{{Index: 0, Content: "c"}}, nil)

	require.Error(t, err)
	assert.Equal(t, types.ErrIndex, types.KindOf(err))
}

func TestSearchSimilarParsesHits(t *testing.T) {
	f := newFakeWeaviate(t)
	f.graphqlReply = `{"data":{"Get":{"RagIndex":[
		{"content":"chunk a","fingerprint":"fp-1","chunkIndex":2,"_additional":{"distance":0.25}},
		{"content":"chunk b","fingerprint":"fp-1","chunkIndex":7,"_additional":{"distance":0.5}}
	]}}}`
	store := newTestStore(t, f)

	hits, err := store.SearchSimilar(context.Background(), []float32{1, 0, 0}, 3)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "chunk a", hits[0].Content)
	assert.Equal(t, "fp-1", hits[0].Fingerprint)
	assert.Equal(t, 2, hits[0].Index)
	assert.InDelta(t, 0.75, hits[0].Score, 1e-6)
	assert.InDelta(t, 0.5, hits[1].Score, 1e-6)
}

func TestSearchSimilarGraphQLError(t *testing.T) {
	f := newFakeWeaviate(t)
	f.graphqlReply = `{"data":null,"errors":[{"message":"vector dimension mismatch"}]}`
	store := newTestStore(t, f)

	_, err := store.SearchSimilar(context.Background(), []float32{1, 0, 0}, 3)

	require.Error(t, err)
	assert.Equal(t, types.ErrIndex, types.KindOf(err))
	assert.Contains(t, err.Error(), "vector dimension mismatch")
}

func TestSearchSimilarEmptyIndex(t *testing.T) {
	f := newFakeWeaviate(t)
	store := newTestStore(t, f)

	hits, err := store.SearchSimilar(context.Background(), []float32{1, 0, 0}, 3)

	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestDeleteByFingerprintFiltersOnFingerprint(t *testing.T) {
	f := newFakeWeaviate(t)
	store := newTestStore(t, f)

	require.NoError(t, store.DeleteByFingerprint(context.Background(), "fp-gone"))

	require.Len(t, f.batchDeletes, 1)
	assert.Contains(t, f.batchDeletes[0], "fingerprint")
	assert.Contains(t, f.batchDeletes[0], "fp-gone")
}

func TestResetDropsAndRecreatesClass(t *testing.T) {
	f := newFakeWeaviate(t)
	f.schemaClasses = []string{"RagIndex"}
	store := newTestStore(t, f)

	require.NoError(t, store.Reset(context.Background()))

	require.Len(t, f.deletedClasses, 1)
	assert.Contains(t, f.deletedClasses[0], "RagIndex")
	require.Len(t, f.createdClasses, 1)
	assert.Equal(t, "RagIndex", f.createdClasses[0]["class"])
}

func TestChunkObjectIDDeterministic(t *testing.T) {
	a := chunkObjectID("fp", 0)
	b := chunkObjectID("fp", 0)
	c := chunkObjectID("fp", 1)
	d := chunkObjectID("other", 0)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.NotEqual(t, fmt.Sprint(c), fmt.Sprint(d))
}
