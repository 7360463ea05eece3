package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-ace/internal/models"
)

func TestTextChunker_ChunkText(t *testing.T) {
	chunker := NewTextChunker()

	t.Run("PacksParagraphs", func(t *testing.T) {
		text := "first paragraph\n\nsecond paragraph\n\nthird paragraph"
		chunks := chunker.ChunkText(text, 40, 0)

		require.Len(t, chunks, 2)
		assert.Equal(t, "first paragraph\n\nsecond paragraph", chunks[0])
		assert.Equal(t, "third paragraph", chunks[1])
	})

	t.Run("SplitsLongParagraphOnSentences", func(t *testing.T) {
		text := strings.Repeat("This sentence is fairly long. ", 10)
		chunks := chunker.ChunkText(text, 70, 0)

		assert.Greater(t, len(chunks), 1)
		for _, chunk := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 70)
		}
	})

	t.Run("Overlap", func(t *testing.T) {
		chunks := chunker.ChunkText("alpha beta gamma\n\ndelta epsilon", 20, 5)

		require.Len(t, chunks, 2)
		assert.True(t, strings.HasPrefix(chunks[1], "gamma"), chunks[1])
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Empty(t, chunker.ChunkText("  \n\n ", 100, 0))
	})
}

func TestTextChunker_ChunkTranscript(t *testing.T) {
	pb := NewPromptBuilder()
	turns := []models.Turn{
		pb.BuildSeedTurn("secret resume", "jd", "", ""),
		models.NewTurn(models.RoleModel, "What is a goroutine?"),
		pb.BuildUserTurn("A lightweight thread."),
		models.NewTurn(models.RoleModel, "Correct. Next question."),
		pb.BuildFeedbackRubricTurn(),
		models.NewTurn(models.RoleModel, `{"finalVerdict":{}}`),
	}

	chunks := NewTextChunker().ChunkTranscript(turns, 1000)
	require.Len(t, chunks, 1)

	assert.Equal(t, "Interviewer: What is a goroutine?\n\nCandidate: A lightweight thread.\n\nInterviewer: Correct. Next question.", chunks[0])
	assert.NotContains(t, chunks[0], "secret resume")
	assert.NotContains(t, chunks[0], "finalVerdict")
}
