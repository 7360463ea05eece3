package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-ace/internal/models"
	"alfredoptarigan/interview-ace/internal/repositories"
)

type StartInterviewInput struct {
	ResumeText         string
	JobDescriptionText string
	Difficulty         string
	InterviewType      string
}

type StartInterviewResult struct {
	Handle   string
	Question string
	Degraded bool
}

type EndInterviewResult struct {
	RecordID uuid.UUID
	Report   *models.FeedbackReport
}

// IdentityResolver yields the authenticated user id of the current caller.
type IdentityResolver func() (string, error)

// IndexQueue accepts archived interviews for background indexing.
type IndexQueue interface {
	EnqueueJob(recordID uuid.UUID)
}

type InterviewService interface {
	StartInterview(ctx context.Context, in StartInterviewInput) *StartInterviewResult
	SubmitTurn(ctx context.Context, handle, userText string) (*TurnReply, error)
	EndInterview(ctx context.Context, handle string, currentUserID IdentityResolver) (*EndInterviewResult, error)
	AbandonInterview(handle string) error
}

type InterviewOptions struct {
	// MaxTurns caps the transcript length; 0 means unlimited.
	MaxTurns int
}

type interviewService struct {
	sessions      *SessionManager
	orchestrator  *TurnOrchestrator
	extractor     *FeedbackExtractor
	promptBuilder *PromptBuilder
	interviewRepo repositories.InterviewRepository
	indexQueue    IndexQueue
	opts          InterviewOptions
}

func NewInterviewService(
	sessions *SessionManager,
	orchestrator *TurnOrchestrator,
	interviewRepo repositories.InterviewRepository,
	indexQueue IndexQueue,
	opts InterviewOptions,
) InterviewService {
	return &interviewService{
		sessions:      sessions,
		orchestrator:  orchestrator,
		extractor:     NewFeedbackExtractor(orchestrator),
		promptBuilder: NewPromptBuilder(),
		interviewRepo: interviewRepo,
		indexQueue:    indexQueue,
		opts:          opts,
	}
}

func (s *interviewService) StartInterview(ctx context.Context, in StartInterviewInput) *StartInterviewResult {
	difficulty := NormalizeDifficulty(in.Difficulty)
	interviewType := NormalizeInterviewType(in.InterviewType)

	seed := s.promptBuilder.BuildSeedTurn(in.ResumeText, in.JobDescriptionText, difficulty, interviewType)
	session := s.sessions.Create(seed)
	session.Difficulty = difficulty
	session.InterviewType = interviewType

	session.Lock()
	defer session.Unlock()

	log.Printf("🎤 Interview %s started (%s, %s)\n", session.Handle, interviewType, difficulty)

	reply := s.orchestrator.Complete(ctx, session)
	return &StartInterviewResult{
		Handle:   session.Handle,
		Question: reply.Text,
		Degraded: reply.Degraded,
	}
}

func (s *interviewService) SubmitTurn(ctx context.Context, handle, userText string) (*TurnReply, error) {
	session, err := s.acquire(handle)
	if err != nil {
		return nil, err
	}
	defer session.Unlock()

	if s.opts.MaxTurns > 0 && session.Transcript.Len()+2 > s.opts.MaxTurns {
		return nil, ErrTranscriptLimit
	}

	reply := s.orchestrator.RunTurn(ctx, session, userText)
	return &reply, nil
}

// EndInterview extracts the final report, archives transcript and report
// under the caller's identity, then retires the session. Failures keep the
// session so the call can be retried.
func (s *interviewService) EndInterview(ctx context.Context, handle string, currentUserID IdentityResolver) (*EndInterviewResult, error) {
	if _, err := s.sessions.Get(handle); err != nil {
		return nil, err
	}

	userID, err := currentUserID()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	session, err := s.acquire(handle)
	if err != nil {
		return nil, err
	}
	defer session.Unlock()

	report := session.report
	if report == nil {
		log.Printf("🤖 Generating feedback for interview %s\n", handle)
		report, err = s.extractor.Extract(ctx, session)
		if err != nil {
			return nil, err
		}
		session.report = report
	}

	record := &models.InterviewRecord{
		ID:            uuid.New(),
		UserID:        userID,
		Difficulty:    session.Difficulty,
		InterviewType: session.InterviewType,
		Transcript:    append([]models.Turn(nil), session.Transcript.Snapshot()...),
		Feedback:      *report,
		IndexStatus:   models.IndexPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.interviewRepo.Create(record); err != nil {
		log.Printf("❌ Failed to archive interview %s: %v\n", handle, err)
		return nil, fmt.Errorf("failed to save interview record: %w", err)
	}

	s.sessions.Destroy(handle)
	log.Printf("✅ Interview %s archived as %s\n", handle, record.ID)

	if s.indexQueue != nil {
		s.indexQueue.EnqueueJob(record.ID)
	}

	return &EndInterviewResult{RecordID: record.ID, Report: report}, nil
}

// acquire locks the session behind handle. The handle is resolved again
// under the lock because another request may have retired it meanwhile.
func (s *interviewService) acquire(handle string) (*Session, error) {
	session, err := s.sessions.Get(handle)
	if err != nil {
		return nil, err
	}

	session.Lock()
	if current, err := s.sessions.Get(handle); err != nil || current != session {
		session.Unlock()
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *interviewService) AbandonInterview(handle string) error {
	if _, err := s.sessions.Get(handle); err != nil {
		return err
	}
	s.sessions.Destroy(handle)
	log.Printf("🛑 Interview %s abandoned\n", handle)
	return nil
}
