// Package session coordinates access to per-user conversation state.
// The manager serializes turns for the same user id and creates a fresh
// session on first contact, keeping the stores themselves dumb.
package session
