package models

import "time"

type StartInterviewResponse struct {
	SessionID string `json:"sessionId"`
	Question  string `json:"question"`
	Degraded  bool   `json:"degraded,omitempty"`
}

type TurnRequest struct {
	Text string `json:"text"`
}

type TurnResponse struct {
	Reply    string `json:"reply"`
	Degraded bool   `json:"degraded,omitempty"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type InterviewSummary struct {
	ID            string    `json:"id"`
	Difficulty    string    `json:"difficulty"`
	InterviewType string    `json:"interview_type"`
	VerdictStatus string    `json:"verdict_status"`
	Rating        float64   `json:"rating"`
	TurnCount     int       `json:"turn_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type SearchHit struct {
	InterviewID string  `json:"interview_id"`
	Score       float32 `json:"score"`
	Excerpt     string  `json:"excerpt"`
}
