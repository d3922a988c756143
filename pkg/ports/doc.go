// Package ports defines the interfaces the dialogue engine consumes:
// the extraction gateway, the ledger collaborator and the session store.
// Adapters live under pkg/adapters; the contract test in this package
// verifies store implementations against the expected semantics.
package ports
