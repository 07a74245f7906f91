/*
Copyright © 2025 KhurramShams
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/KhurramShams/docuchat-be/config"
)

// resetIndexCmd represents the reset-index command
var resetIndexCmd = &cobra.Command{
	Use:   "reset-index",
	Short: "Drop and recreate the vector index",
	Long:  `Deletes every stored vector and recreates the index schema. Destructive.`,
	Run: func(cmd *cobra.Command, args []string) {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			log.Fatal("reset-index deletes all indexed content; re-run with --yes to confirm")
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
		if err := weaviateDb.Reset(context.Background()); err != nil {
			log.Fatalf("Failed to reset index: %v", err)
		}
		fmt.Println("Index reset.")
	},
}

func init() {
	rootCmd.AddCommand(resetIndexCmd)

	resetIndexCmd.Flags().BoolP("yes", "y", false, "Confirm the destructive reset")
}
