package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"alfredoptarigan/interview-ace/internal/models"
	"alfredoptarigan/interview-ace/internal/repositories"
)

var ErrSearchUnavailable = errors.New("interview search is not configured")

type HistoryService interface {
	ListInterviews(userID string, limit int) ([]models.InterviewSummary, error)
	GetInterview(userID string, id uuid.UUID) (*models.InterviewRecord, error)
	SearchInterviews(ctx context.Context, userID, query string, limit int) ([]models.SearchHit, error)
}

type historyService struct {
	interviewRepo repositories.InterviewRepository
	embedder      Embedder
	index         InterviewIndex
}

// NewHistoryService serves a user's archived interviews. embedder and index
// may be nil, in which case search reports ErrSearchUnavailable.
func NewHistoryService(interviewRepo repositories.InterviewRepository, embedder Embedder, index InterviewIndex) HistoryService {
	return &historyService{
		interviewRepo: interviewRepo,
		embedder:      embedder,
		index:         index,
	}
}

func (h *historyService) ListInterviews(userID string, limit int) ([]models.InterviewSummary, error) {
	records, err := h.interviewRepo.ListByUser(userID, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.InterviewSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, models.InterviewSummary{
			ID:            record.ID.String(),
			Difficulty:    record.Difficulty,
			InterviewType: record.InterviewType,
			VerdictStatus: record.Feedback.FinalVerdict.Status,
			Rating:        record.Feedback.OverallPerformance.Rating,
			TurnCount:     len(record.Transcript),
			CreatedAt:     record.CreatedAt,
		})
	}
	return summaries, nil
}

func (h *historyService) GetInterview(userID string, id uuid.UUID) (*models.InterviewRecord, error) {
	return h.interviewRepo.FindByIDForUser(id, userID)
}

// SearchInterviews returns the best matching excerpt per interview, in score
// order.
func (h *historyService) SearchInterviews(ctx context.Context, userID, query string, limit int) ([]models.SearchHit, error) {
	if h.embedder == nil || h.index == nil {
		return nil, ErrSearchUnavailable
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []models.SearchHit{}, nil
	}
	if limit <= 0 {
		limit = 5
	}

	embedding, err := h.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	// Over-fetch so collapsing chunks per interview still fills the page.
	results, err := h.index.Search(ctx, embedding, userID, limit*3)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	hits := make([]models.SearchHit, 0, limit)
	for _, result := range results {
		if seen[result.InterviewID] {
			continue
		}
		seen[result.InterviewID] = true
		hits = append(hits, models.SearchHit{
			InterviewID: result.InterviewID,
			Score:       result.Score,
			Excerpt:     result.Text,
		})
		if len(hits) == limit {
			break
		}
	}
	return hits, nil
}
