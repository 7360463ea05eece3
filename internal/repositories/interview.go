package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/interview-ace/internal/models"
)

var ErrRecordNotFound = errors.New("record not found")

type InterviewRepository interface {
	Create(record *models.InterviewRecord) error
	FindByID(id uuid.UUID) (*models.InterviewRecord, error)
	FindByIDForUser(id uuid.UUID, userID string) (*models.InterviewRecord, error)
	ListByUser(userID string, limit int) ([]models.InterviewRecord, error)
	ListAllIDs() ([]uuid.UUID, error)
	UpdateIndexStatus(id uuid.UUID, status models.IndexStatus, indexErr *string) error
	FindPendingIndex(limit int) ([]models.InterviewRecord, error)
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(record *models.InterviewRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create interview record: %w", err)
	}
	return nil
}

func (r *interviewRepository) FindByID(id uuid.UUID) (*models.InterviewRecord, error) {
	var record models.InterviewRecord
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to find interview record: %w", err)
	}
	return &record, nil
}

func (r *interviewRepository) FindByIDForUser(id uuid.UUID, userID string) (*models.InterviewRecord, error) {
	var record models.InterviewRecord
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to find interview record: %w", err)
	}
	return &record, nil
}

func (r *interviewRepository) ListByUser(userID string, limit int) ([]models.InterviewRecord, error) {
	var records []models.InterviewRecord
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list interview records: %w", err)
	}
	return records, nil
}

func (r *interviewRepository) ListAllIDs() ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.Model(&models.InterviewRecord{}).Order("created_at ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list interview ids: %w", err)
	}
	return ids, nil
}

func (r *interviewRepository) UpdateIndexStatus(id uuid.UUID, status models.IndexStatus, indexErr *string) error {
	result := r.db.Model(&models.InterviewRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"index_status": status,
			"index_error":  indexErr,
			"updated_at":   time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update index status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (r *interviewRepository) FindPendingIndex(limit int) ([]models.InterviewRecord, error) {
	var records []models.InterviewRecord
	err := r.db.
		Select("id", "created_at").
		Where("index_status = ?", models.IndexPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&records).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending index jobs: %w", err)
	}

	return records, nil
}
