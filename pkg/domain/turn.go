package domain

// MessageKind classifies a turn's reply so the presentation layer can
// render it without inspecting the text.
type MessageKind string

const (
	KindNone         MessageKind = "none"
	KindInfo         MessageKind = "info"
	KindWarning      MessageKind = "warning"
	KindError        MessageKind = "error"
	KindSuccess      MessageKind = "success"
	KindConfirmation MessageKind = "confirmation"
)

// TurnResult is the engine's full answer for one utterance. Continue is
// false only when the user asked to leave the conversation.
type TurnResult struct {
	Continue bool        `json:"continue"`
	Kind     MessageKind `json:"kind"`
	Message  string      `json:"message,omitempty"`
}

// Outcome classifies what the action executor did (or declined to do)
// with a resolved intent.
type Outcome string

const (
	OutcomeBalance              Outcome = "balance"
	OutcomeTransactions         Outcome = "transactions"
	OutcomeHelp                 Outcome = "help"
	OutcomeTransferConfirmation Outcome = "transfer_confirmation"
	OutcomeIncomplete           Outcome = "incomplete"
	OutcomeCompleted            Outcome = "completed"
	OutcomeCancelled            Outcome = "cancelled"
	OutcomeRejected             Outcome = "rejected"
	OutcomeUnsupported          Outcome = "unsupported"
)
