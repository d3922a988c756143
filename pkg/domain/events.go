package domain

import (
	"context"
	"time"
)

// TurnEvent describes one processed utterance.
type TurnEvent struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	Utterance string    `json:"utterance"`
}

// IntentEvent fires after a successful extraction and merge.
type IntentEvent struct {
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	Intent    Intent    `json:"intent"`
	Missing   []string  `json:"missing"`
}

// OutcomeEvent fires when a turn produces its final result.
type OutcomeEvent struct {
	Timestamp time.Time   `json:"timestamp"`
	UserID    string      `json:"user_id"`
	Kind      MessageKind `json:"kind"`
	Outcome   Outcome     `json:"outcome,omitempty"`
}

// LifecycleHooks defines optional callbacks for engine observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnTurn    func(context.Context, *TurnEvent)
	OnIntent  func(context.Context, *IntentEvent)
	OnOutcome func(context.Context, *OutcomeEvent)
}
