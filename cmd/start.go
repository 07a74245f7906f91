/*
Copyright © 2025 KhurramShams
*/
package cmd

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KhurramShams/docuchat-be/config"
	"github.com/KhurramShams/docuchat-be/database"
	"github.com/KhurramShams/docuchat-be/handler"
	"github.com/KhurramShams/docuchat-be/repository"
	"github.com/KhurramShams/docuchat-be/service"
	"github.com/KhurramShams/docuchat-be/types"
)

// startServerCmd represents the startServer command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the question answering server",
	Long:  `Starts a server that accepts one PDF upload and answers questions about it`,
	Run: func(cmd *cobra.Command, args []string) {

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		logger := newLogger()
		defer logger.Sync()

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

		// MongoDB is optional; without it the documents listing falls back
		// to the in-memory current document.
		var documentRepo database.DocumentStore
		if cfg.MongoURI != "" {
			mongoClient, err := database.NewMongoClient(cfg.MongoURI)
			if err != nil {
				log.Fatalf("Failed to connect to MongoDB: %v", err)
			}
			mongoDb := mongoClient.Database("docuchat")
			documentRepo = repository.NewDocumentRepo(mongoDb.Collection("documents"))
		} else {
			logger.Warn("MONGODB_URI not set, document records disabled")
		}

		// Initialize services
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
		websocketService := service.NewWebSocketService(documentService, logger)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		uploadHandler := handler.NewUploadHandler(documentService)
		askHandler := handler.NewAskHandler(documentService, websocketService)
		documentHandler := handler.NewDocumentHandler(documentService, documentRepo)
		healthHandler := handler.NewHealthHandler(documentService)

		// Setup Gin router
		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		apiV1 := router.Group("/api/v1")
		{
			apiV1.POST("/documents/upload", uploadHandler.UploadDocumentHandler)
			apiV1.GET("/documents", documentHandler.ListDocumentsHandler)
			apiV1.POST("/ask", askHandler.AskHandler)
			apiV1.GET("/ask/stream", askHandler.AskStreamHandler)
			apiV1.GET("/health", healthHandler.HealthHandler)
		}

		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
