package domain

// PendingKind distinguishes the two reasons a conversation can be
// carried over to the next turn.
type PendingKind string

const (
	// PendingNone means nothing is carried over.
	PendingNone PendingKind = ""

	// PendingEntities means the intent is known but required entities are
	// still missing; the next utterance answers a follow-up question.
	PendingEntities PendingKind = "awaiting_entities"

	// PendingConfirmation means a mutating intent is fully resolved and
	// the next utterance is the yes/no answer to the confirmation prompt.
	PendingConfirmation PendingKind = "awaiting_confirmation"
)

// PendingState is the engine's memory between turns. Exactly one exists
// per session; the zero value means the previous turn reached a terminal
// outcome. The two kinds are explicit so the confirmation interception
// is a variant match, not a field-presence guess.
type PendingState struct {
	Kind         PendingKind    `json:"kind"`
	Intent       Intent         `json:"intent,omitempty"`
	Entities     map[string]any `json:"entities,omitempty"`
	Missing      []string       `json:"missing,omitempty"`
	NextQuestion string         `json:"next_question,omitempty"`
}

// AwaitingEntities builds the slot-filling variant.
func AwaitingEntities(r *ExtractionResult) PendingState {
	return PendingState{
		Kind:         PendingEntities,
		Intent:       r.Intent,
		Entities:     r.Entities,
		Missing:      r.MissingEntities,
		NextQuestion: r.NextQuestion,
	}
}

// AwaitingConfirmation builds the confirm-gate variant.
func AwaitingConfirmation(intent Intent, entities map[string]any) PendingState {
	return PendingState{
		Kind:     PendingConfirmation,
		Intent:   intent,
		Entities: entities,
	}
}

// Empty reports whether nothing is pending.
func (p PendingState) Empty() bool {
	return p.Kind == PendingNone
}
