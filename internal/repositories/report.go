package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/interview-ace/internal/models"
)

type VideoReportRepository interface {
	Create(report *models.VideoReport) error
	FindByID(id uuid.UUID) (*models.VideoReport, error)
	ListByUser(userID string) ([]models.VideoReport, error)
}

type videoReportRepository struct {
	db *gorm.DB
}

func NewVideoReportRepository(db *gorm.DB) VideoReportRepository {
	return &videoReportRepository{db: db}
}

func (r *videoReportRepository) Create(report *models.VideoReport) error {
	if err := r.db.Create(report).Error; err != nil {
		return fmt.Errorf("failed to create video report: %w", err)
	}
	return nil
}

func (r *videoReportRepository) FindByID(id uuid.UUID) (*models.VideoReport, error) {
	var report models.VideoReport
	if err := r.db.Where("id = ?", id).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to find video report: %w", err)
	}
	return &report, nil
}

func (r *videoReportRepository) ListByUser(userID string) ([]models.VideoReport, error) {
	var reports []models.VideoReport
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list video reports: %w", err)
	}
	return reports, nil
}
