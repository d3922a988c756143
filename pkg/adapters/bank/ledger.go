package bank

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/magie/pkg/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is the reference in-memory ledger. It owns its accounts map
// outright (no process-wide state) and implements ports.Ledger.
//
// A single mutex guards balances and transaction logs together so a
// transfer's debit and its recorded transaction are one atomic unit:
// no caller can observe one without the other.
type Service struct {
	mu           sync.Mutex
	accounts     map[string]map[string]decimal.Decimal
	transactions map[string][]domain.Transaction
	now          func() time.Time
}

// NewService creates a ledger seeded with per-user account balances,
// e.g. {"rodrigo.barreiros": {"corrente": 1500, "poupança": 3000}}.
func NewService(seed map[string]map[string]decimal.Decimal) *Service {
	accounts := make(map[string]map[string]decimal.Decimal, len(seed))
	for user, classes := range seed {
		accounts[user] = make(map[string]decimal.Decimal, len(classes))
		for class, balance := range classes {
			accounts[user][class] = balance
		}
	}
	return &Service{
		accounts:     accounts,
		transactions: make(map[string][]domain.Transaction),
		now:          time.Now,
	}
}

func (s *Service) balance(userID, accountType string) (decimal.Decimal, error) {
	classes, ok := s.accounts[userID]
	if !ok {
		return decimal.Zero, fmt.Errorf("user %q: %w", userID, domain.ErrUserNotFound)
	}
	balance, ok := classes[accountType]
	if !ok {
		return decimal.Zero, fmt.Errorf("account %q: %w", accountType, domain.ErrAccountNotFound)
	}
	return balance, nil
}

// GetBalance returns the balance of one account class.
func (s *Service) GetBalance(ctx context.Context, userID, accountType string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance(userID, accountType)
}

// Transfer debits the source account and appends the transaction record
// under a single lock acquisition.
func (s *Service) Transfer(ctx context.Context, userID, accountType, recipient string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("transfer amount must be positive, got %s", amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	balance, err := s.balance(userID, accountType)
	if err != nil {
		return err
	}
	if balance.LessThan(amount) {
		return domain.ErrInsufficientFunds
	}

	s.accounts[userID][accountType] = balance.Sub(amount)
	s.transactions[userID] = append(s.transactions[userID], domain.Transaction{
		ID:            uuid.New(),
		Kind:          domain.TransactionTransfer,
		Counterparty:  recipient,
		Amount:        amount,
		SourceAccount: accountType,
		CreatedAt:     s.now(),
	})
	return nil
}

// GetTransactions returns the user's transaction log. The account class
// is validated even though the log is kept per user, so unknown accounts
// fail the same way they do for GetBalance and Transfer.
func (s *Service) GetTransactions(ctx context.Context, userID, accountType string) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.balance(userID, accountType); err != nil {
		return nil, err
	}

	return append([]domain.Transaction(nil), s.transactions[userID]...), nil
}
