package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"alfredoptarigan/interview-ace/internal/models"
)

var (
	leadingFence  = regexp.MustCompile("^```(json)?")
	trailingFence = regexp.MustCompile("```$")
	// First '{' through last '}'. Braces inside string values before the
	// real object are not handled.
	jsonObject = regexp.MustCompile(`(?s)\{.*\}`)
)

type FeedbackExtractor struct {
	orchestrator  *TurnOrchestrator
	promptBuilder *PromptBuilder
}

func NewFeedbackExtractor(orchestrator *TurnOrchestrator) *FeedbackExtractor {
	return &FeedbackExtractor{
		orchestrator:  orchestrator,
		promptBuilder: NewPromptBuilder(),
	}
}

// Extract asks the model for the final report and decodes it. On success the
// canonical JSON is appended as a model turn. On failure the rubric turn
// stays in the transcript and is reused by the next attempt.
func (f *FeedbackExtractor) Extract(ctx context.Context, session *Session) (*models.FeedbackReport, error) {
	if last, ok := session.Transcript.Last(); !ok || !IsFeedbackRubricTurn(last) {
		session.Transcript.Append(f.promptBuilder.BuildFeedbackRubricTurn())
	}

	raw, err := f.orchestrator.send(ctx, session.Transcript.Snapshot())
	if err != nil {
		log.Printf("❌ Feedback model call failed for session %s: %v\n", session.Handle, err)
		return nil, fmt.Errorf("%w: %w", ErrFeedbackGenerationFailed, err)
	}

	report, err := ParseFeedback(raw)
	if err != nil {
		var parseErr *FeedbackParseError
		if errors.As(err, &parseErr) {
			log.Printf("❌ Error parsing structured feedback JSON: %v\nCleaned response: %s\n", parseErr.Cause, parseErr.Cleaned)
		}
		return nil, err
	}

	canonical, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode report: %w", ErrFeedbackGenerationFailed, err)
	}
	session.Transcript.Append(models.NewTurn(models.RoleModel, string(canonical)))

	return report, nil
}

// CleanModelJSON strips code fences and surrounding prose from a model reply,
// keeping the span from the first '{' to the last '}'. Clean JSON is
// returned unchanged apart from outer whitespace.
func CleanModelJSON(raw string) string {
	text := strings.TrimSpace(raw)
	text = leadingFence.ReplaceAllString(text, "")
	text = trailingFence.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	if match := jsonObject.FindString(text); match != "" {
		return match
	}
	return text
}

// ParseFeedback decodes a model reply into a FeedbackReport. Unknown fields
// are ignored and missing ones stay zero; anything that is not a JSON object
// yields a *FeedbackParseError.
func ParseFeedback(raw string) (*models.FeedbackReport, error) {
	cleaned := CleanModelJSON(raw)

	if !strings.HasPrefix(cleaned, "{") {
		return nil, &FeedbackParseError{Raw: raw, Cleaned: cleaned, Cause: errors.New("no JSON object in model reply")}
	}

	var report models.FeedbackReport
	if err := json.Unmarshal([]byte(cleaned), &report); err != nil {
		return nil, &FeedbackParseError{Raw: raw, Cleaned: cleaned, Cause: err}
	}

	report.Normalize()
	return &report, nil
}
