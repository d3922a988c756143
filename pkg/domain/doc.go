// Package domain contains the core types of the Magie dialogue engine:
// intents, extraction results, pending conversation state, turn outcomes
// and the ledger transaction model. It has no dependencies on adapters
// and defines the sentinel errors shared across the module.
package domain
