package service

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/KhurramShams/docuchat-be/types"
)

// GeminiService implements Embedder and ChatModel on Google Gemini. Several
// API keys may be supplied; on a failed call the service rotates to the next
// key and retries once.
type GeminiService struct {
	apiKeys        []string
	currentKey     int
	client         *genai.Client
	modelName      string
	embeddingModel string
	dimension      int
	logger         *zap.Logger
	mu             sync.Mutex
}

func NewGeminiService(apiKeys []string, modelName, embeddingModel string, dimension int, logger *zap.Logger) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}
	service := &GeminiService{
		apiKeys:        apiKeys,
		currentKey:     0,
		modelName:      modelName,
		embeddingModel: embeddingModel,
		dimension:      dimension,
		logger:         logger,
	}
	if err := service.initClient(); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *GeminiService) initClient() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKeys[s.currentKey]))
	if err != nil {
		return err
	}
	s.client = client
	return nil
}

// shouldRotate reports whether err indicates a problem with the current API
// key rather than with the request itself. Only key problems trigger
// failover; every other error surfaces on the first failure.
func shouldRotate(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		return true
	}
	return false
}

func (s *GeminiService) rotateAPIKey() error {
	s.mu.Lock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	if err := s.client.Close(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	s.logger.Warn("rotated gemini api key", zap.Int("key_index", s.currentKey))
	return s.initClient()
}

func (s *GeminiService) Dimension() int {
	return s.dimension
}

func (s *GeminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	em := s.client.EmbeddingModel(s.embeddingModel)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		if !shouldRotate(err) {
			return nil, err
		}
		if err := s.rotateAPIKey(); err != nil {
			return nil, err
		}
		em = s.client.EmbeddingModel(s.embeddingModel)
		res, err = em.EmbedContent(ctx, genai.Text(text))
		if err != nil {
			return nil, err
		}
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, errors.New("empty embedding in response")
	}
	return res.Embedding.Values, nil
}

func (s *GeminiService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	em := s.client.EmbeddingModel(s.embeddingModel)
	batch := em.NewBatch()
	for _, text := range texts {
		batch = batch.AddContent(genai.Text(text))
	}
	res, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, err
	}
	if len(res.Embeddings) != len(texts) {
		return nil, errors.New("embedding count mismatch")
	}
	vectors := make([][]float32, len(res.Embeddings))
	for i, e := range res.Embeddings {
		vectors[i] = e.Values
	}
	return vectors, nil
}

func (s *GeminiService) Complete(ctx context.Context, system, user string) (string, error) {
	model := s.client.GenerativeModel(s.modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		if !shouldRotate(err) {
			return "", err
		}
		if err := s.rotateAPIKey(); err != nil {
			return "", err
		}
		model = s.client.GenerativeModel(s.modelName)
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
		resp, err = model.GenerateContent(ctx, genai.Text(user))
		if err != nil {
			return "", err
		}
	}
	return collectText(resp)
}

func (s *GeminiService) CompleteStream(ctx context.Context, system, user string, handler types.StreamHandler) error {
	model := s.client.GenerativeModel(s.modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	iter := model.GenerateContentStream(ctx, genai.Text(user))
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return err
		}
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					handler(string(text))
				}
			}
		}
	}
}

func collectText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", errors.New("no response generated")
	}
	content := ""
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content += string(text)
			}
		}
	}
	return content, nil
}
