package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"alfredoptarigan/interview-ace/internal/models"
)

// TurnReply is the outcome of one request/response cycle. Degraded replies
// carry a failure notice instead of model output; Err holds the cause.
type TurnReply struct {
	Text     string
	Degraded bool
	Err      error
}

// TurnOrchestrator drives request/response cycles against a ModelGateway.
type TurnOrchestrator struct {
	gateway       ModelGateway
	promptBuilder *PromptBuilder
	callTimeout   time.Duration
}

func NewTurnOrchestrator(gateway ModelGateway, callTimeout time.Duration) *TurnOrchestrator {
	return &TurnOrchestrator{
		gateway:       gateway,
		promptBuilder: NewPromptBuilder(),
		callTimeout:   callTimeout,
	}
}

// RunTurn appends userText as a user turn and completes the cycle. A failed
// model call keeps the user turn in the transcript.
func (o *TurnOrchestrator) RunTurn(ctx context.Context, session *Session, userText string) TurnReply {
	session.Transcript.Append(o.promptBuilder.BuildUserTurn(userText))
	return o.Complete(ctx, session)
}

// Complete sends the transcript as it stands and appends the model reply.
// The first question of an interview is produced by calling Complete right
// after the seed turn, so both paths share this cycle.
func (o *TurnOrchestrator) Complete(ctx context.Context, session *Session) TurnReply {
	reply, err := o.send(ctx, session.Transcript.Snapshot())
	if err != nil {
		log.Printf("⚠️ Session %s turn degraded: %v\n", session.Handle, err)
		return TurnReply{
			Text:     fmt.Sprintf("An error occurred during the API call: %v", err),
			Degraded: true,
			Err:      err,
		}
	}

	session.Transcript.Append(models.NewTurn(models.RoleModel, reply))
	return TurnReply{Text: reply}
}

func (o *TurnOrchestrator) send(ctx context.Context, transcript []models.Turn) (string, error) {
	if o.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.callTimeout)
		defer cancel()
	}

	log.Printf("🤖 Sending %d turns to model\n", len(transcript))
	return o.gateway.Send(ctx, transcript)
}
