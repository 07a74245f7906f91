/*
Copyright © 2025 KhurramShams
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KhurramShams/docuchat-be/config"
	"github.com/KhurramShams/docuchat-be/database"
	"github.com/KhurramShams/docuchat-be/service"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docuchat-be",
	Short: "Single-document PDF question answering backend",
	Long: `docuchat-be indexes one PDF at a time into a vector store and answers
questions about it with retrieval-augmented generation.

Use "start" to run the HTTP server, "ingest" to index a PDF from the
command line, "ask" to query the standing index, and "reset-index" to
drop and recreate the vector index.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yaml", "config file")
}

func newLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return logger
}

// newAIService builds the configured provider. Both providers expose the
// same embedding and chat surface.
func newAIService(cfg *config.Config, logger *zap.Logger) (service.AIService, error) {
	switch cfg.AIProvider {
	case "gemini":
		return service.NewGeminiService(cfg.GeminiAPIKeys, cfg.Model, cfg.EmbeddingModel, cfg.EmbeddingDimension, logger)
	default:
		return service.NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model, cfg.EmbeddingModel, cfg.EmbeddingDimension, logger), nil
	}
}

func newVectorStore(cfg *config.Config, logger *zap.Logger) (*database.WeaviateStore, error) {
	return database.NewWeaviateStore(cfg.WeaviateStoreConfig, cfg.EmbeddingDimension, logger)
}
