package services

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-ace/internal/models"
	"alfredoptarigan/interview-ace/internal/repositories"
)

type ReportService interface {
	SaveReport(userID string, video *multipart.FileHeader, analysisJSON string) (*models.VideoReport, error)
	GetVideoPath(id uuid.UUID) (string, error)
	ListReports(userID string) ([]models.VideoReport, error)
}

type reportService struct {
	reportRepo repositories.VideoReportRepository
	storage    StorageService
}

func NewReportService(reportRepo repositories.VideoReportRepository, storage StorageService) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		storage:    storage,
	}
}

// SaveReport stores the video and persists the analysis alongside it.
func (r *reportService) SaveReport(userID string, video *multipart.FileHeader, analysisJSON string) (*models.VideoReport, error) {
	var analysis map[string]any
	if err := json.Unmarshal([]byte(analysisJSON), &analysis); err != nil {
		return nil, fmt.Errorf("invalid analysis JSON: %w", err)
	}

	filename, _, err := r.storage.SaveVideo(video)
	if err != nil {
		return nil, err
	}

	report := &models.VideoReport{
		ID:            uuid.New(),
		UserID:        userID,
		VideoFilename: filename,
		AnalysisData:  analysis,
		OverallScore:  OverallScore(analysis),
		CreatedAt:     time.Now(),
	}
	report.VideoURL = "/api/v1/videos/" + report.ID.String()

	if err := r.reportRepo.Create(report); err != nil {
		if delErr := r.storage.DeleteFile(filename); delErr != nil {
			log.Printf("⚠️  Failed to clean up video %s: %v\n", filename, delErr)
		}
		return nil, err
	}

	return report, nil
}

func (r *reportService) GetVideoPath(id uuid.UUID) (string, error) {
	report, err := r.reportRepo.FindByID(id)
	if err != nil {
		return "", err
	}
	return r.storage.GetFilePath(report.VideoFilename), nil
}

func (r *reportService) ListReports(userID string) ([]models.VideoReport, error) {
	return r.reportRepo.ListByUser(userID)
}

// OverallScore reads the "overallScore" field of an analysis, defaulting to 0.
func OverallScore(analysis map[string]any) int {
	switch v := analysis["overallScore"].(type) {
	case float64:
		return int(math.Round(v))
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return int(math.Round(f))
		}
	}
	return 0
}
