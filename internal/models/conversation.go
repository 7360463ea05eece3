package models

import "strings"

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one role-tagged message. Parts are replayed to the model in order.
type Turn struct {
	Role  Role     `json:"role"`
	Parts []string `json:"parts"`
}

func NewTurn(role Role, parts ...string) Turn {
	copied := make([]string, len(parts))
	copy(copied, parts)
	return Turn{Role: role, Parts: copied}
}

// Text joins the turn's fragments with blank lines.
func (t Turn) Text() string {
	return strings.Join(t.Parts, "\n\n")
}

// Transcript is the append-only dialogue of one interview session.
type Transcript struct {
	turns []Turn
}

func NewTranscript(seed ...Turn) *Transcript {
	t := &Transcript{turns: make([]Turn, 0, len(seed)+8)}
	t.turns = append(t.turns, seed...)
	return t
}

func (t *Transcript) Append(turn Turn) {
	t.turns = append(t.turns, turn)
}

// Snapshot returns the turns recorded so far. The slice is shared; callers
// must not reorder or modify it.
func (t *Transcript) Snapshot() []Turn {
	return t.turns[:len(t.turns):len(t.turns)]
}

func (t *Transcript) Len() int {
	return len(t.turns)
}

// Last returns the most recent turn, if any.
func (t *Transcript) Last() (Turn, bool) {
	if len(t.turns) == 0 {
		return Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}
