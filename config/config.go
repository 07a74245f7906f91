package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/KhurramShams/docuchat-be/types"
)

type Config struct {
	Port                string              `mapstructure:"port"`
	AIProvider          string              `mapstructure:"ai_provider"`
	AIEndpoint          string              `mapstructure:"ai_endpoint"`
	Model               string              `mapstructure:"model"`
	EmbeddingModel      string              `mapstructure:"embedding_model"`
	EmbeddingDimension  int                 `mapstructure:"embedding_dimension"`
	OpenAIAPIKey        string              `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKeys       []string            `mapstructure:"gemini_api_keys"`
	MongoURI            string              `mapstructure:"MONGODB_URI"`
	TopK                int                 `mapstructure:"top_k"`
	ChunkSize           int                 `mapstructure:"chunk_size"`
	ChunkOverlap        int                 `mapstructure:"chunk_overlap"`
	MaxPages            int                 `mapstructure:"max_pages"`
	MaxWords            int                 `mapstructure:"max_words"`
	WeaviateStoreConfig WeaviateStoreConfig `mapstructure:"weaviate_store_config"`
}

type WeaviateStoreConfig struct {
	Host      string `mapstructure:"host"`
	APIKey    string `mapstructure:"WEAVIATE_APIKEY"`
	ClassName string `mapstructure:"class_name"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, types.WrapError(types.ErrConfig, "error reading config file", err)
	}

	// Secrets come from the environment, never from the yaml file.
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("weaviate_store_config.WEAVIATE_APIKEY", "WEAVIATE_APIKEY")
	v.BindEnv("MONGODB_URI")
	v.BindEnv("GEMINI_API_KEYS")

	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, types.WrapError(types.ErrConfig, "error unmarshaling config", err)
	}

	// GEMINI_API_KEYS is a comma-separated list in the environment.
	if len(config.GeminiAPIKeys) == 0 {
		if raw := v.GetString("GEMINI_API_KEYS"); raw != "" {
			for _, key := range strings.Split(raw, ",") {
				if key = strings.TrimSpace(key); key != "" {
					config.GeminiAPIKeys = append(config.GeminiAPIKeys, key)
				}
			}
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("ai_provider", "openai")
	v.SetDefault("ai_endpoint", "https://api.openai.com/v1")
	v.SetDefault("model", "gpt-4o-mini")
	v.SetDefault("embedding_model", "text-embedding-3-small")
	v.SetDefault("embedding_dimension", 1536)
	v.SetDefault("top_k", 3)
	v.SetDefault("chunk_size", 1000)
	v.SetDefault("chunk_overlap", 200)
	v.SetDefault("max_pages", 5)
	v.SetDefault("max_words", 10000)
	v.SetDefault("weaviate_store_config.class_name", "RagIndex")
}

func (c *Config) validate() error {
	if c.WeaviateStoreConfig.Host == "" {
		return types.NewError(types.ErrConfig, "weaviate host is not configured")
	}
	if c.WeaviateStoreConfig.APIKey == "" {
		return types.NewError(types.ErrConfig, "WEAVIATE_APIKEY is not set")
	}
	switch c.AIProvider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return types.NewError(types.ErrConfig, "OPENAI_API_KEY is not set")
		}
	case "gemini":
		if len(c.GeminiAPIKeys) == 0 {
			return types.NewError(types.ErrConfig, "gemini_api_keys is empty")
		}
	default:
		return types.NewError(types.ErrConfig, fmt.Sprintf("unknown ai provider: %s", c.AIProvider))
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return types.NewError(types.ErrConfig, "chunk_overlap must be smaller than chunk_size")
	}
	return nil
}
