package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind describes the operation that produced a ledger entry.
type TransactionKind string

const (
	TransactionTransfer TransactionKind = "transferência"
)

// Transaction is an immutable ledger entry. Amount is always positive;
// the direction is implied by the kind.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	Kind          TransactionKind `json:"kind"`
	Counterparty  string          `json:"counterparty"`
	Amount        decimal.Decimal `json:"amount"`
	SourceAccount string          `json:"source_account"`
	CreatedAt     time.Time       `json:"created_at"`
}
