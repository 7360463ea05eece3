package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-ace/internal/models"
)

func newOpenAITestService(t *testing.T, handler http.HandlerFunc) LanguageModel {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	service, err := NewOpenAIService(OpenAIConfig{
		APIKey:     "sk-test",
		BaseURL:    server.URL + "/v1",
		Model:      "gpt-test",
		Dimensions: 4,
	})
	require.NoError(t, err)
	return service
}

func TestOpenAIService_Send(t *testing.T) {
	transcript := []models.Turn{
		models.NewTurn(models.RoleUser, "instructions", FirstQuestionRequest),
		models.NewTurn(models.RoleModel, "Q1"),
	}

	t.Run("Success", func(t *testing.T) {
		var req openai.ChatCompletionRequest
		service := newOpenAITestService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &req)

			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Q2"},"finish_reason":"stop"}]}`)
		})

		got, err := service.Send(context.Background(), transcript)
		require.NoError(t, err)
		assert.Equal(t, "Q2", got)

		assert.Equal(t, "gpt-test", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, openai.ChatMessageRoleUser, req.Messages[0].Role)
		assert.Equal(t, "instructions\n\n"+FirstQuestionRequest, req.Messages[0].Content)
		assert.Equal(t, openai.ChatMessageRoleAssistant, req.Messages[1].Role)
	})

	t.Run("ErrorStatus", func(t *testing.T) {
		service := newOpenAITestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, `{"error":{"message":"overloaded","type":"server_error"}}`)
		})

		_, err := service.Send(context.Background(), transcript)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrModelCallFailed))
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("NoChoices", func(t *testing.T) {
		service := newOpenAITestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":"1","choices":[]}`)
		})

		_, err := service.Send(context.Background(), transcript)
		assert.True(t, errors.Is(err, ErrModelCallFailed))
	})
}

func TestOpenAIService_GenerateEmbedding(t *testing.T) {
	service := newOpenAITestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.1,0.2,0.3,0.4]}]}`)
	})

	embedding, err := service.GenerateEmbedding(context.Background(), "payments migration")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3, 0.4}, embedding)
}
