package ports

import (
	"context"

	"github.com/aretw0/magie/pkg/domain"
	"github.com/shopspring/decimal"
)

// Ledger is the account collaborator. Lookups fail with
// domain.ErrUserNotFound or domain.ErrAccountNotFound; Transfer
// additionally fails with domain.ErrInsufficientFunds. The balance debit
// and the transaction append must be atomic: a caller can never observe
// one without the other.
type Ledger interface {
	GetBalance(ctx context.Context, userID, accountType string) (decimal.Decimal, error)
	Transfer(ctx context.Context, userID, accountType, recipient string, amount decimal.Decimal) error
	GetTransactions(ctx context.Context, userID, accountType string) ([]domain.Transaction, error)
}
