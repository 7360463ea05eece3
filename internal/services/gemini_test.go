package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"alfredoptarigan/interview-ace/internal/models"
)

func newGeminiTestService(t *testing.T, handler http.HandlerFunc) ModelGateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gateway, err := NewGeminiService(context.Background(), GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-test",
		BaseURL: server.URL + "/",
	})
	require.NoError(t, err)
	return gateway
}

func TestGeminiService_Send(t *testing.T) {
	transcript := []models.Turn{
		models.NewTurn(models.RoleUser, "instructions", FirstQuestionRequest),
		models.NewTurn(models.RoleModel, "Q1"),
		models.NewTurn(models.RoleUser, "A1"),
	}

	t.Run("Success", func(t *testing.T) {
		var body struct {
			Contents []struct {
				Role  string `json:"role"`
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		var path string

		gateway := newGeminiTestService(t, func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &body)
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Q2"}]}}]}`)
		})

		got, err := gateway.Send(context.Background(), transcript)
		require.NoError(t, err)
		assert.Equal(t, "Q2", got)

		assert.True(t, strings.HasSuffix(path, "models/gemini-test:generateContent"), path)
		require.Len(t, body.Contents, 3)
		assert.Equal(t, "user", body.Contents[0].Role)
		require.Len(t, body.Contents[0].Parts, 2)
		assert.Equal(t, FirstQuestionRequest, body.Contents[0].Parts[1].Text)
		assert.Equal(t, "model", body.Contents[1].Role)
		assert.Equal(t, "A1", body.Contents[2].Parts[0].Text)
	})

	t.Run("ErrorStatus", func(t *testing.T) {
		gateway := newGeminiTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"code":400,"message":"bad request","status":"INVALID_ARGUMENT"}}`)
		})

		_, err := gateway.Send(context.Background(), transcript)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrModelCallFailed))
		assert.Contains(t, err.Error(), "400")
	})

	t.Run("NoCandidates", func(t *testing.T) {
		gateway := newGeminiTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"candidates":[]}`)
		})

		_, err := gateway.Send(context.Background(), transcript)
		assert.True(t, errors.Is(err, ErrModelCallFailed))
	})
}

func TestNewGeminiService_RequiresKey(t *testing.T) {
	_, err := NewGeminiService(context.Background(), GeminiConfig{})
	assert.Error(t, err)
}

func TestToGeminiContents(t *testing.T) {
	contents := toGeminiContents([]models.Turn{
		models.NewTurn(models.RoleUser, "instructions", FirstQuestionRequest),
		models.NewTurn(models.RoleModel, "Q1"),
	})

	require.Len(t, contents, 2)
	assert.Equal(t, genai.RoleUser, contents[0].Role)
	assert.Len(t, contents[0].Parts, 2)
	assert.Equal(t, genai.RoleModel, contents[1].Role)
	assert.Equal(t, "Q1", contents[1].Parts[0].Text)
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "short", truncateUTF8("short", 10))
	assert.Equal(t, "abc", truncateUTF8("abcdef", 3))

	// "é" is two bytes; cutting at byte 2 would split it
	got := truncateUTF8("aéb", 2)
	assert.Equal(t, "a", got)
	assert.True(t, utf8.ValidString(got))

	long := strings.Repeat("日", maxEmbedBytes)
	got = truncateUTF8(long, maxEmbedBytes)
	assert.LessOrEqual(t, len(got), maxEmbedBytes)
	assert.True(t, utf8.ValidString(got))
}
