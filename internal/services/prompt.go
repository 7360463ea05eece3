package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/interview-ace/internal/models"
)

const (
	DefaultDifficulty    = "Medium"
	DefaultInterviewType = "Technical"

	// FirstQuestionRequest closes the seed turn so the first model reply is
	// the opening question.
	FirstQuestionRequest = "Generate the first interview question."

	// EndInterviewCue is the phrase the model is told ends the interview.
	EndInterviewCue = "End Interview"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// NormalizeDifficulty falls back to DefaultDifficulty for blank input.
func NormalizeDifficulty(difficulty string) string {
	if strings.TrimSpace(difficulty) == "" {
		return DefaultDifficulty
	}
	return difficulty
}

// NormalizeInterviewType falls back to DefaultInterviewType for blank input.
func NormalizeInterviewType(interviewType string) string {
	if strings.TrimSpace(interviewType) == "" {
		return DefaultInterviewType
	}
	return interviewType
}

// BuildInstructions fills the interviewer template. Resume and job description
// are interpolated as-is.
func (pb *PromptBuilder) BuildInstructions(resumeText, jobDescriptionText, difficulty, interviewType string) string {
	difficulty = NormalizeDifficulty(difficulty)
	interviewType = NormalizeInterviewType(interviewType)

	return fmt.Sprintf(`You are an AI Interviewer specialized in conducting %s interviews. Use ONLY the following:
1. Resume: %s
2. Job Description: %s
Select difficulty level: %s

Instructions:
1. Ask questions strictly relevant to the resume & job description.
2. Maintain professionalism.
3. For each user response, give a short constructive suggestion.
4. Then ask the next question.
5. When user says '%s', provide a final detailed feedback report.`,
		interviewType, resumeText, jobDescriptionText, difficulty, EndInterviewCue)
}

// BuildSeedTurn produces the first user turn of every transcript: the
// interviewer instructions followed by the first-question request.
func (pb *PromptBuilder) BuildSeedTurn(resumeText, jobDescriptionText, difficulty, interviewType string) models.Turn {
	return models.NewTurn(
		models.RoleUser,
		pb.BuildInstructions(resumeText, jobDescriptionText, difficulty, interviewType),
		FirstQuestionRequest,
	)
}

// BuildUserTurn wraps caller text as a single-fragment user turn.
func (pb *PromptBuilder) BuildUserTurn(text string) models.Turn {
	return models.NewTurn(models.RoleUser, text)
}

// BuildFeedbackRubricTurn asks for the final report as a bare JSON object.
func (pb *PromptBuilder) BuildFeedbackRubricTurn() models.Turn {
	return models.NewTurn(models.RoleUser, feedbackRubric)
}

// IsFeedbackRubricTurn reports whether turn is the rubric instruction.
func IsFeedbackRubricTurn(turn models.Turn) bool {
	return turn.Role == models.RoleUser && len(turn.Parts) == 1 && turn.Parts[0] == feedbackRubric
}

// BuildInterviewDigest renders an archived interview as plain text for
// embedding and semantic search.
func (pb *PromptBuilder) BuildInterviewDigest(record *models.InterviewRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s interview (%s)\n", record.InterviewType, record.Difficulty)
	fmt.Fprintf(&b, "Verdict: %s - %s\n", record.Feedback.FinalVerdict.Status, record.Feedback.FinalVerdict.Summary)
	fmt.Fprintf(&b, "Overall: %.1f - %s\n", record.Feedback.OverallPerformance.Rating, record.Feedback.OverallPerformance.Summary)
	if len(record.Feedback.Strengths) > 0 {
		fmt.Fprintf(&b, "Strengths: %s\n", strings.Join(record.Feedback.Strengths, "; "))
	}
	if len(record.Feedback.Weaknesses) > 0 {
		fmt.Fprintf(&b, "Weaknesses: %s\n", strings.Join(record.Feedback.Weaknesses, "; "))
	}
	return b.String()
}

const feedbackRubric = `You are an AI interviewer evaluation assistant.

Your task is to generate a structured, JSON-formatted interview feedback report based on the entire conversation history between the interviewer and the candidate.

Return **only a valid JSON object** - no markdown formatting, no code blocks, no backticks, and no explanations.
The response must start with '{' and end with '}'.

JSON Structure (Example):
{
  "overallPerformance": {
    "rating": 4.2,
    "summary": "The candidate demonstrated solid full-stack skills, especially in backend optimization and database handling."
  },
  "strengths": [
    "Good understanding of React.js and Spring Boot integration.",
    "Strong problem-solving and debugging approach."
  ],
  "weaknesses": [
    "Needs to provide measurable results for performance improvements.",
    "Should elaborate more on authentication and security implementation details."
  ],
  "communication": {
    "clarity": "Good - communicates technical ideas effectively.",
    "structure": "Moderate - could organize responses better using the STAR method.",
    "conciseness": "Strong - answers are brief and relevant.",
    "impactFocus": "Needs improvement - should highlight project impact and metrics."
  },
  "areasForImprovement": [
    "Use more quantifiable metrics in explanations.",
    "Improve depth in security and API optimization discussions."
  ],
  "recommendations": [
    "Practice explaining technical concepts using the STAR method.",
    "Explore DevOps and cloud fundamentals (Docker, AWS)."
  ],
  "evaluationMetrics": {
    "technicalKnowledge": 8,
    "problemSolving": 7,
    "communication": 8,
    "projectExperience": 8,
    "overallReadiness": 7.8
  },
  "interviewerNotes": [
    {
      "section": "Full-Stack Development",
      "comment": "Good command over React.js and Spring Boot."
    }
  ],
  "finalVerdict": {
    "status": "Potential Candidate",
    "summary": "Solid foundation with strong technical breadth. Can improve by adding quantifiable outcomes."
  }
}

Evaluation metrics are integers from 0 to 10; overallReadiness may be fractional.

Now, analyze the entire interview conversation history and fill in this JSON structure accurately.`
