package domain

import "fmt"

// ExtractionResult is the structured reading of one user utterance,
// produced and validated by the extraction gateway. It is immutable once
// produced; the engine builds merged copies rather than mutating it.
type ExtractionResult struct {
	Intent          Intent         `json:"intent"`
	Entities        map[string]any `json:"entities"`
	MissingEntities []string       `json:"missing_entities"`
	NextQuestion    string         `json:"next_question"`
}

// Clone returns a deep enough copy for the engine to merge into.
func (r *ExtractionResult) Clone() *ExtractionResult {
	out := &ExtractionResult{
		Intent:          r.Intent,
		Entities:        make(map[string]any, len(r.Entities)),
		MissingEntities: append([]string(nil), r.MissingEntities...),
		NextQuestion:    r.NextQuestion,
	}
	for k, v := range r.Entities {
		out.Entities[k] = v
	}
	return out
}

// ExtractionError signals that the gateway could not produce a usable
// result: the upstream service was unreachable, timed out, or returned
// content that survived neither the strict nor the lenient decode pass.
// It is terminal for the turn and never retried by the engine.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
