package models

import (
	"time"

	"github.com/google/uuid"
)

type IndexStatus string

const (
	IndexPending  IndexStatus = "pending"
	IndexIndexing IndexStatus = "indexing"
	IndexIndexed  IndexStatus = "indexed"
	IndexFailed   IndexStatus = "failed"
)

// InterviewRecord archives a completed interview: the full transcript and the
// feedback report, owned by the authenticated user who ended it.
type InterviewRecord struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID        string         `gorm:"type:text;index;not null" json:"user_id"`
	Difficulty    string         `gorm:"type:text" json:"difficulty"`
	InterviewType string         `gorm:"type:text" json:"interview_type"`
	Transcript    []Turn         `gorm:"type:jsonb;serializer:json" json:"transcript"`
	Feedback      FeedbackReport `gorm:"type:jsonb;serializer:json" json:"feedback"`
	IndexStatus   IndexStatus    `gorm:"type:text;not null;default:'pending'" json:"index_status"`
	IndexError    *string        `gorm:"type:text" json:"index_error,omitempty"`
	CreatedAt     time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (InterviewRecord) TableName() string {
	return "interview_records"
}
