package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// FeedbackReport is the structured evaluation produced when an interview ends.
// Field names follow the JSON shape the model is instructed to return.
type FeedbackReport struct {
	OverallPerformance  OverallPerformance `json:"overallPerformance"`
	Strengths           []string           `json:"strengths"`
	Weaknesses          []string           `json:"weaknesses"`
	Communication       Communication      `json:"communication"`
	AreasForImprovement []string           `json:"areasForImprovement"`
	Recommendations     []string           `json:"recommendations"`
	EvaluationMetrics   EvaluationMetrics  `json:"evaluationMetrics"`
	InterviewerNotes    []InterviewerNote  `json:"interviewerNotes"`
	FinalVerdict        FinalVerdict       `json:"finalVerdict"`
}

type OverallPerformance struct {
	Rating  float64 `json:"rating"`
	Summary string  `json:"summary"`
}

type Communication struct {
	Clarity     string `json:"clarity"`
	Structure   string `json:"structure"`
	Conciseness string `json:"conciseness"`
	ImpactFocus string `json:"impactFocus"`
}

// EvaluationMetrics scores are 0-10; OverallReadiness is a composite.
// Decoding accepts fractional or quoted scores.
type EvaluationMetrics struct {
	TechnicalKnowledge int     `json:"technicalKnowledge"`
	ProblemSolving     int     `json:"problemSolving"`
	Communication      int     `json:"communication"`
	ProjectExperience  int     `json:"projectExperience"`
	OverallReadiness   float64 `json:"overallReadiness"`
}

type InterviewerNote struct {
	Section string `json:"section"`
	Comment string `json:"comment"`
}

type FinalVerdict struct {
	Status  string `json:"status"`
	Summary string `json:"summary"`
}

const maxMetricScore = 10

// score decodes a JSON number or numeric string. Null and "" decode as zero.
type score float64

func (s *score) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if text, ok := v.(string); ok {
		text = strings.TrimSpace(text)
		if text == "" {
			*s = 0
			return nil
		}
		v = text
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("score %s is not a finite number", data)
	}
	*s = score(f)
	return nil
}

// metric truncates toward zero and clamps into 0-10.
func (s score) metric() int {
	n := int(math.Trunc(float64(s)))
	return min(max(n, 0), maxMetricScore)
}

func (p *OverallPerformance) UnmarshalJSON(data []byte) error {
	var aux struct {
		Rating  score  `json:"rating"`
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Rating = float64(aux.Rating)
	p.Summary = aux.Summary
	return nil
}

func (m *EvaluationMetrics) UnmarshalJSON(data []byte) error {
	var aux struct {
		TechnicalKnowledge score `json:"technicalKnowledge"`
		ProblemSolving     score `json:"problemSolving"`
		Communication      score `json:"communication"`
		ProjectExperience  score `json:"projectExperience"`
		OverallReadiness   score `json:"overallReadiness"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.TechnicalKnowledge = aux.TechnicalKnowledge.metric()
	m.ProblemSolving = aux.ProblemSolving.metric()
	m.Communication = aux.Communication.metric()
	m.ProjectExperience = aux.ProjectExperience.metric()
	m.OverallReadiness = float64(aux.OverallReadiness)
	return nil
}

// Normalize replaces nil lists with empty ones so the report always
// serializes with arrays instead of nulls.
func (r *FeedbackReport) Normalize() {
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
	if r.Weaknesses == nil {
		r.Weaknesses = []string{}
	}
	if r.AreasForImprovement == nil {
		r.AreasForImprovement = []string{}
	}
	if r.Recommendations == nil {
		r.Recommendations = []string{}
	}
	if r.InterviewerNotes == nil {
		r.InterviewerNotes = []InterviewerNote{}
	}
}
