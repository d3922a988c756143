package domain

import "errors"

// ErrSessionNotFound is returned when a user id cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUserNotFound is returned by the ledger for an unknown user id.
var ErrUserNotFound = errors.New("user not found")

// ErrAccountNotFound is returned by the ledger for an unknown account class.
var ErrAccountNotFound = errors.New("account not found")

// ErrInsufficientFunds is returned when a transfer would drive the balance negative.
var ErrInsufficientFunds = errors.New("insufficient funds")
