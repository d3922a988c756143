// Package magie is a turn-based banking assistant: free-text utterances
// are converted into a structured intent and entity set by a local
// language model, missing information is collected across turns, and
// money-moving operations only execute after an explicit confirmation.
//
// The top-level Assistant wraps the internal dialogue engine with
// sensible defaults (in-memory session store, in-memory ledger, Ollama
// extraction gateway); every collaborator can be swapped via options.
package magie
