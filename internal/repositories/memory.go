package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-ace/internal/models"
)

// MemoryInterviewRepository keeps archived interviews in process memory.
// interviewctl uses it when no database is configured.
type MemoryInterviewRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*models.InterviewRecord
}

func NewMemoryInterviewRepository() *MemoryInterviewRepository {
	return &MemoryInterviewRepository{
		records: make(map[uuid.UUID]*models.InterviewRecord),
	}
}

func (r *MemoryInterviewRepository) Create(record *models.InterviewRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return fmt.Errorf("failed to create interview record: %s already exists", record.ID)
	}

	stored := *record
	r.records[record.ID] = &stored
	return nil
}

func (r *MemoryInterviewRepository) FindByID(id uuid.UUID) (*models.InterviewRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	found := *record
	return &found, nil
}

func (r *MemoryInterviewRepository) FindByIDForUser(id uuid.UUID, userID string) (*models.InterviewRecord, error) {
	record, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		return nil, ErrRecordNotFound
	}
	return record, nil
}

func (r *MemoryInterviewRepository) ListByUser(userID string, limit int) ([]models.InterviewRecord, error) {
	var result []models.InterviewRecord
	for _, record := range r.sorted(false) {
		if record.UserID != userID {
			continue
		}
		result = append(result, record)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (r *MemoryInterviewRepository) ListAllIDs() ([]uuid.UUID, error) {
	records := r.sorted(true)
	ids := make([]uuid.UUID, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.ID)
	}
	return ids, nil
}

func (r *MemoryInterviewRepository) UpdateIndexStatus(id uuid.UUID, status models.IndexStatus, indexErr *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return ErrRecordNotFound
	}
	record.IndexStatus = status
	record.IndexError = indexErr
	record.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryInterviewRepository) FindPendingIndex(limit int) ([]models.InterviewRecord, error) {
	var result []models.InterviewRecord
	for _, record := range r.sorted(true) {
		if record.IndexStatus != models.IndexPending {
			continue
		}
		result = append(result, record)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (r *MemoryInterviewRepository) sorted(ascending bool) []models.InterviewRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]models.InterviewRecord, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, *record)
	}
	sort.Slice(records, func(i, j int) bool {
		if ascending {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records
}
