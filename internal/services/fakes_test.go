package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/interview-ace/internal/models"
	"alfredoptarigan/interview-ace/internal/repositories"
)

// scriptedGateway replays a fixed list of outcomes and records every
// transcript it was sent.
type scriptedGateway struct {
	mu       sync.Mutex
	outcomes []gatewayOutcome
	calls    [][]models.Turn
}

type gatewayOutcome struct {
	reply string
	err   error
}

func reply(text string) gatewayOutcome { return gatewayOutcome{reply: text} }

func failure(msg string) gatewayOutcome {
	return gatewayOutcome{err: modelCallFailed(msg, nil)}
}

func newScriptedGateway(outcomes ...gatewayOutcome) *scriptedGateway {
	return &scriptedGateway{outcomes: outcomes}
}

func (g *scriptedGateway) Send(ctx context.Context, transcript []models.Turn) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, append([]models.Turn(nil), transcript...))
	if len(g.outcomes) == 0 {
		return "", modelCallFailed("no scripted reply left", nil)
	}
	next := g.outcomes[0]
	g.outcomes = g.outcomes[1:]
	return next.reply, next.err
}

func (g *scriptedGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *scriptedGateway) lastCall() []models.Turn {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[len(g.calls)-1]
}

// flakyRepository fails Create a set number of times before delegating.
type flakyRepository struct {
	*repositories.MemoryInterviewRepository
	failCreates int
}

func (r *flakyRepository) Create(record *models.InterviewRecord) error {
	if r.failCreates > 0 {
		r.failCreates--
		return errors.New("database unavailable")
	}
	return r.MemoryInterviewRepository.Create(record)
}

type recordingQueue struct {
	ids []uuid.UUID
}

func (q *recordingQueue) EnqueueJob(recordID uuid.UUID) {
	q.ids = append(q.ids, recordID)
}

type fakeEmbedder struct {
	err   error
	texts []string
}

func (e *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.texts = append(e.texts, text)
	return []float32{float32(len(text)), 1}, nil
}

type fakeIndex struct {
	deleted []string
	chunks  []IndexedChunk
	results []SearchResult
	limit   int
	userID  string
}

func (f *fakeIndex) InitCollection(ctx context.Context) error { return nil }

func (f *fakeIndex) UpsertChunk(ctx context.Context, chunk IndexedChunk, embedding []float32) error {
	f.chunks = append(f.chunks, chunk)
	return nil
}

func (f *fakeIndex) Search(ctx context.Context, queryEmbedding []float32, userID string, limit int) ([]SearchResult, error) {
	f.userID = userID
	f.limit = limit
	return f.results, nil
}

func (f *fakeIndex) DeleteInterview(ctx context.Context, interviewID string) error {
	f.deleted = append(f.deleted, interviewID)
	return nil
}

const sampleReportJSON = `{
  "overallPerformance": {"rating": 4.2, "summary": "Solid backend skills."},
  "strengths": ["Clear explanations"],
  "weaknesses": ["Few metrics"],
  "communication": {"clarity": "Good", "structure": "Moderate", "conciseness": "Strong", "impactFocus": "Weak"},
  "areasForImprovement": ["Quantify impact"],
  "recommendations": ["Practice STAR"],
  "evaluationMetrics": {"technicalKnowledge": 8, "problemSolving": 7, "communication": 8, "projectExperience": 8, "overallReadiness": 7.8},
  "interviewerNotes": [{"section": "Backend", "comment": "Good command of Go."}],
  "finalVerdict": {"status": "Potential Candidate", "summary": "Strong foundation."}
}`
