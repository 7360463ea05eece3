package models

import (
	"time"

	"github.com/google/uuid"
)

// VideoReport links a recorded interview video to the client-side analysis
// that was produced for it.
type VideoReport struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID        string         `gorm:"type:text;index;not null" json:"user_id"`
	VideoFilename string         `gorm:"type:text" json:"video_filename"`
	VideoURL      string         `gorm:"type:text" json:"video_url"`
	AnalysisData  map[string]any `gorm:"type:jsonb;serializer:json" json:"analysis_data"`
	OverallScore  int            `json:"overall_score"`
	CreatedAt     time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (VideoReport) TableName() string {
	return "video_reports"
}
