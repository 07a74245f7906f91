/*
Copyright © 2025 KhurramShams
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KhurramShams/docuchat-be/config"
	"github.com/KhurramShams/docuchat-be/database"
	"github.com/KhurramShams/docuchat-be/repository"
	"github.com/KhurramShams/docuchat-be/service"
	"github.com/KhurramShams/docuchat-be/types"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index a PDF from the command line",
	Long:  `Validates, chunks, embeds and indexes a single PDF file`,
	Run: func(cmd *cobra.Command, args []string) {
		filePath, _ := cmd.Flags().GetString("file")
		if filePath == "" {
			log.Fatal("--file is required")
		}

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		logger := newLogger()
		defer logger.Sync()

		data, err := os.ReadFile(filePath)
		if err != nil {
			log.Fatalf("Failed to read file: %v", err)
		}

		weaviateDb, err := newVectorStore(cfg, logger)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate database: %v", err)
		}
		if err := weaviateDb.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("Failed to ensure vector schema: %v", err)
		}
		aiService, err := newAIService(cfg, logger)
		if err != nil {
			log.Fatalf("Failed to create AI service: %v", err)
		}

		var documentRepo database.DocumentStore
		if cfg.MongoURI != "" {
			mongoClient, err := database.NewMongoClient(cfg.MongoURI)
			if err != nil {
				log.Fatalf("Failed to connect to MongoDB: %v", err)
			}
			documentRepo = repository.NewDocumentRepo(mongoClient.Database("docuchat").Collection("documents"))
		}

		pdfService := service.NewPDFService(
			types.DocumentServiceConfig{
				MaxPages: cfg.MaxPages,
				MaxWords: cfg.MaxWords,
			}, logger)
		splitter := service.NewSplitter(types.SplitterConfig{
			ChunkSize:    cfg.ChunkSize,
			ChunkOverlap: cfg.ChunkOverlap,
		})
		ragService := service.NewRAGService(aiService, aiService, weaviateDb, cfg.TopK, logger)
		documentService := service.NewDocumentService(pdfService, splitter, aiService, weaviateDb, documentRepo, ragService, logger)

		title := filepath.Base(filePath)
		result, err := documentService.Process(context.Background(), title, data)
		if err != nil {
			log.Fatalf("Ingest failed: %v", err)
		}

		if result.AlreadyIndexed {
			fmt.Printf("Already indexed: %s (fingerprint %s)\n", result.Title, result.Fingerprint)
			return
		}
		fmt.Printf("Indexed %s: %d pages, %d words, %d chunks (fingerprint %s)\n",
			result.Title, result.PageCount, result.WordCount, result.ChunkCount, result.Fingerprint)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringP("file", "f", "", "Path to the PDF file to index")
}
