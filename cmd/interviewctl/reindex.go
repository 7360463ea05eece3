package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"alfredoptarigan/interview-ace/internal/bootstrap"
	"alfredoptarigan/interview-ace/internal/config"
	"alfredoptarigan/interview-ace/internal/repositories"
	"alfredoptarigan/interview-ace/internal/services"
)

func newReindexCmd() *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the semantic search index from archived interviews",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg := config.Load()
			if err := cfg.ValidateModel(); err != nil {
				return err
			}
			if cfg.Qdrant.URL == "" {
				return fmt.Errorf("QDRANT_URL must be set to reindex")
			}

			db, err := config.InitDatabase(cfg)
			if err != nil {
				return err
			}
			interviewRepo := repositories.NewInterviewRepository(db)

			_, embedder, err := bootstrap.ModelProvider(ctx, cfg)
			if err != nil {
				return err
			}
			index, err := bootstrap.InterviewIndex(ctx, cfg)
			if err != nil {
				return err
			}

			indexer := services.NewIndexerService(interviewRepo, embedder, index)

			ids := []uuid.UUID{}
			if only != "" {
				id, err := uuid.Parse(only)
				if err != nil {
					return fmt.Errorf("invalid interview id %q: %w", only, err)
				}
				ids = append(ids, id)
			} else if ids, err = interviewRepo.ListAllIDs(); err != nil {
				return err
			}

			return runReindex(ctx, cmd.OutOrStdout(), indexer, ids)
		},
	}

	cmd.Flags().StringVar(&only, "id", "", "reindex a single interview")
	return cmd
}

// runReindex indexes every id, continuing past failures, and reports an
// error if any interview could not be indexed.
func runReindex(ctx context.Context, out io.Writer, indexer services.IndexerService, ids []uuid.UUID) error {
	fmt.Fprintf(out, "🚀 Reindexing %d interviews\n", len(ids))

	successCount := 0
	failCount := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := indexer.IndexInterview(ctx, id); err != nil {
			fmt.Fprintf(out, "❌ %s: %v\n", id, err)
			failCount++
			continue
		}
		fmt.Fprintf(out, "✅ %s\n", id)
		successCount++
	}

	fmt.Fprintf(out, "\n📊 Summary: %d indexed, %d failed\n", successCount, failCount)
	if failCount > 0 {
		return fmt.Errorf("%d interviews failed to index", failCount)
	}
	return nil
}
