package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"alfredoptarigan/interview-ace/internal/models"
)

type TranscriptChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
	ChunkTranscript(turns []models.Turn, maxChunkSize int) []string
}

type textChunker struct{}

func NewTextChunker() TranscriptChunker {
	return &textChunker{}
}

// ChunkTranscript renders question/answer exchanges as labelled text and
// packs them into chunks of at most maxChunkSize runes. The seed turn, the
// feedback rubric and the archived report are skipped.
func (tc *textChunker) ChunkTranscript(turns []models.Turn, maxChunkSize int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}

	var exchanges []string
	for i, turn := range turns {
		if i == 0 || IsFeedbackRubricTurn(turn) {
			continue
		}
		if turn.Role == models.RoleModel && IsFeedbackRubricTurn(turns[i-1]) {
			continue
		}

		label := "Candidate"
		if turn.Role == models.RoleModel {
			label = "Interviewer"
		}
		exchanges = append(exchanges, fmt.Sprintf("%s: %s", label, strings.TrimSpace(turn.Text())))
	}

	return tc.ChunkText(strings.Join(exchanges, "\n\n"), maxChunkSize, 0)
}

// ChunkText splits on paragraphs, falling back to sentences for paragraphs
// longer than maxChunkSize. overlap carries trailing runes of a chunk into
// the next one.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		chunks = append(chunks, current.String())
		current.Reset()
		if overlap > 0 {
			current.WriteString(getLastNChars(chunks[len(chunks)-1], overlap))
		}
	}

	appendPiece := func(piece, sep string) {
		if utf8.RuneCountInString(current.String())+utf8.RuneCountInString(piece)+len(sep) > maxChunkSize {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(piece)
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= maxChunkSize {
			appendPiece(para, "\n\n")
			continue
		}

		for _, sentence := range splitIntoSentences(para) {
			appendPiece(sentence, " ")
		}
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

func splitIntoSentences(text string) []string {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var result []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}

func getLastNChars(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
