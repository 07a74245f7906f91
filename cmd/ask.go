/*
Copyright © 2025 KhurramShams
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KhurramShams/docuchat-be/config"
	"github.com/KhurramShams/docuchat-be/service"
	"github.com/KhurramShams/docuchat-be/types"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against the standing index",
	Long:  `Retrieves the most similar indexed chunks and generates an answer`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		question := strings.TrimSpace(strings.Join(args, " "))
		if err := types.ValidateQuestion(question); err != nil {
			log.Fatal(types.UserMessage(err))
		}

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
		aiService, err := newAIService(cfg, logger)
		if err != nil {
			log.Fatalf("Failed to create AI service: %v", err)
		}

		ragService := service.NewRAGService(aiService, aiService, weaviateDb, cfg.TopK, logger)

		_, err = ragService.AnswerStream(context.Background(), question, func(delta string) {
			fmt.Print(delta)
		})
		if err != nil {
			log.Fatalf("Ask failed: %v", err)
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
