package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-ace/internal/models"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	seed := NewPromptBuilder().BuildSeedTurn("resume", "jd", "", "")
	return NewSessionManager().Create(seed)
}

func TestTurnOrchestrator_Complete(t *testing.T) {
	ctx := context.Background()
	gateway := newScriptedGateway(reply("Tell me about yourself."))
	orchestrator := NewTurnOrchestrator(gateway, time.Second)
	session := newTestSession(t)

	result := orchestrator.Complete(ctx, session)

	assert.False(t, result.Degraded)
	assert.Equal(t, "Tell me about yourself.", result.Text)
	require.Equal(t, 2, session.Transcript.Len())
	last, _ := session.Transcript.Last()
	assert.Equal(t, models.RoleModel, last.Role)
	assert.Equal(t, []string{"Tell me about yourself."}, last.Parts)

	// The seed turn went out with both fragments
	sent := gateway.lastCall()
	require.Len(t, sent, 1)
	assert.Len(t, sent[0].Parts, 2)
}

func TestTurnOrchestrator_RunTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("AppendsUserAndModelTurns", func(t *testing.T) {
		gateway := newScriptedGateway(reply("Q1"), reply("Nice. Q2"), reply("Good. Q3"))
		orchestrator := NewTurnOrchestrator(gateway, 0)
		session := newTestSession(t)
		orchestrator.Complete(ctx, session)

		orchestrator.RunTurn(ctx, session, "answer one")
		result := orchestrator.RunTurn(ctx, session, "answer two")

		assert.Equal(t, "Good. Q3", result.Text)
		turns := session.Transcript.Snapshot()
		require.Len(t, turns, 6)
		for i := 1; i < len(turns); i += 2 {
			assert.Equal(t, models.RoleModel, turns[i].Role, "turn %d", i)
		}
		for i := 2; i < len(turns); i += 2 {
			assert.Equal(t, models.RoleUser, turns[i].Role, "turn %d", i)
		}
		assert.Equal(t, "answer two", turns[4].Text())

		// Every request replays the whole transcript
		assert.Len(t, gateway.lastCall(), 5)
	})

	t.Run("FailureKeepsUserTurnAndDegrades", func(t *testing.T) {
		gateway := newScriptedGateway(reply("Q1"), failure("503 service unavailable"))
		orchestrator := NewTurnOrchestrator(gateway, 0)
		session := newTestSession(t)
		orchestrator.Complete(ctx, session)

		result := orchestrator.RunTurn(ctx, session, "my answer")

		assert.True(t, result.Degraded)
		assert.True(t, errors.Is(result.Err, ErrModelCallFailed))
		assert.Contains(t, result.Text, "An error occurred during the API call: ")
		assert.Contains(t, result.Text, "503 service unavailable")

		require.Equal(t, 3, session.Transcript.Len())
		last, _ := session.Transcript.Last()
		assert.Equal(t, models.RoleUser, last.Role)
		assert.Equal(t, "my answer", last.Text())
	})

	t.Run("TimeoutAppliesPerCall", func(t *testing.T) {
		orchestrator := NewTurnOrchestrator(blockingGateway{}, 20*time.Millisecond)
		session := newTestSession(t)

		result := orchestrator.Complete(ctx, session)

		assert.True(t, result.Degraded)
		assert.True(t, errors.Is(result.Err, context.DeadlineExceeded))
		assert.Equal(t, 1, session.Transcript.Len())
	})
}

type blockingGateway struct{}

func (blockingGateway) Send(ctx context.Context, transcript []models.Turn) (string, error) {
	<-ctx.Done()
	return "", modelCallFailed("request cancelled", ctx.Err())
}
