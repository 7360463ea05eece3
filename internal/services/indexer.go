package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"alfredoptarigan/interview-ace/internal/models"
	"alfredoptarigan/interview-ace/internal/repositories"
)

const indexChunkSize = 1200

type IndexerService interface {
	IndexInterview(ctx context.Context, recordID uuid.UUID) error
}

type indexerService struct {
	interviewRepo repositories.InterviewRepository
	embedder      Embedder
	index         InterviewIndex
	chunker       TranscriptChunker
	promptBuilder *PromptBuilder
}

func NewIndexerService(
	interviewRepo repositories.InterviewRepository,
	embedder Embedder,
	index InterviewIndex,
) IndexerService {
	return &indexerService{
		interviewRepo: interviewRepo,
		embedder:      embedder,
		index:         index,
		chunker:       NewTextChunker(),
		promptBuilder: NewPromptBuilder(),
	}
}

// IndexInterview embeds the report digest and every transcript chunk of an
// archived interview and stores them in the interview index.
func (i *indexerService) IndexInterview(ctx context.Context, recordID uuid.UUID) error {
	if err := i.interviewRepo.UpdateIndexStatus(recordID, models.IndexIndexing, nil); err != nil {
		return fmt.Errorf("failed to update index status: %w", err)
	}

	record, err := i.interviewRepo.FindByID(recordID)
	if err != nil {
		return i.fail(recordID, fmt.Errorf("failed to load interview: %w", err))
	}

	// Drop chunks from a previous run so a shorter transcript leaves no stale points
	if err := i.index.DeleteInterview(ctx, record.ID.String()); err != nil {
		return i.fail(recordID, fmt.Errorf("failed to clear previous chunks: %w", err))
	}

	chunks := append(
		[]string{i.promptBuilder.BuildInterviewDigest(record)},
		i.chunker.ChunkTranscript(record.Transcript, indexChunkSize)...,
	)

	log.Printf("📄 Indexing interview %s (%d chunks)\n", recordID, len(chunks))

	for position, text := range chunks {
		embedding, err := i.embedder.GenerateEmbedding(ctx, text)
		if err != nil {
			return i.fail(recordID, fmt.Errorf("failed to embed chunk %d: %w", position, err))
		}

		chunk := IndexedChunk{
			InterviewID: record.ID.String(),
			UserID:      record.UserID,
			Position:    position,
			Text:        text,
		}
		if err := i.index.UpsertChunk(ctx, chunk, embedding); err != nil {
			return i.fail(recordID, fmt.Errorf("failed to store chunk %d: %w", position, err))
		}
	}

	if err := i.interviewRepo.UpdateIndexStatus(recordID, models.IndexIndexed, nil); err != nil {
		return fmt.Errorf("failed to update index status: %w", err)
	}

	log.Printf("✅ Interview %s indexed\n", recordID)
	return nil
}

func (i *indexerService) fail(recordID uuid.UUID, cause error) error {
	msg := cause.Error()
	if err := i.interviewRepo.UpdateIndexStatus(recordID, models.IndexFailed, &msg); err != nil {
		log.Printf("⚠️  Failed to mark interview %s as failed: %v\n", recordID, err)
	}
	return cause
}
