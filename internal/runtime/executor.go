package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/magie/pkg/domain"
	"github.com/aretw0/magie/pkg/ports"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
)

// affirmatives is the set of answers that confirm a pending transfer.
var affirmatives = map[string]bool{
	"sim": true,
	"s":   true,
	"yes": true,
	"y":   true,
}

const helpText = "Você pode me pedir para consultar saldos, transferir dinheiro ou mostrar transações recentes."

// Executor performs the domain action for a fully resolved intent
// against the ledger collaborator. It never mutates anything for the
// transfer intent directly: Handle only renders the confirmation prompt,
// and the ledger call happens in ConfirmTransfer on an affirmative
// answer.
type Executor struct {
	ledger ports.Ledger
}

// NewExecutor creates an executor bound to a ledger.
func NewExecutor(ledger ports.Ledger) *Executor {
	return &Executor{ledger: ledger}
}

// transferDetails is the typed reading of the merged entity map.
// Values arrive untyped from the model, so decoding is weak: a numeric
// amount becomes its string form and is parsed as a decimal afterwards.
type transferDetails struct {
	Amount      string `mapstructure:"amount"`
	Recipient   string `mapstructure:"recipient"`
	AccountType string `mapstructure:"account_type"`
}

func decodeDetails(entities map[string]any) (transferDetails, error) {
	var details transferDetails
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &details,
	})
	if err != nil {
		return details, err
	}
	if err := decoder.Decode(entities); err != nil {
		return details, fmt.Errorf("invalid entity values: %w", err)
	}
	if details.AccountType == "" {
		details.AccountType = "corrente"
	}
	return details, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, errors.New("amount missing")
	}
	// Accept "100,50" the way a Brazilian user would type it.
	normalized := strings.ReplaceAll(raw, ",", ".")
	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return amount, nil
}

// Handle routes a resolved intent to the matching bank operation and
// returns the outcome classification plus the user-facing message.
func (e *Executor) Handle(ctx context.Context, userID string, intent domain.Intent, entities map[string]any) (domain.Outcome, string) {
	switch intent {
	case domain.IntentGetBalance:
		return e.handleGetBalance(ctx, userID, entities)
	case domain.IntentTransfer:
		return e.handleTransfer(entities)
	case domain.IntentGetTransactions:
		return e.handleGetTransactions(ctx, userID, entities)
	case domain.IntentGetHelp:
		return domain.OutcomeHelp, helpText
	default:
		return domain.OutcomeUnsupported, fmt.Sprintf("A intenção '%s' ainda não é suportada.", intent)
	}
}

func (e *Executor) handleGetBalance(ctx context.Context, userID string, entities map[string]any) (domain.Outcome, string) {
	details, err := decodeDetails(entities)
	if err != nil {
		return domain.OutcomeRejected, err.Error()
	}

	balance, err := e.ledger.GetBalance(ctx, userID, details.AccountType)
	if err != nil {
		return domain.OutcomeRejected, rejectionMessage(err, userID, details.AccountType)
	}
	return domain.OutcomeBalance, fmt.Sprintf("O saldo da sua conta %s é R$ %s.", details.AccountType, balance.StringFixed(2))
}

// handleTransfer validates the resolved entities and renders the
// confirmation prompt. The ledger is not touched here.
func (e *Executor) handleTransfer(entities map[string]any) (domain.Outcome, string) {
	details, err := decodeDetails(entities)
	if err != nil {
		return domain.OutcomeRejected, err.Error()
	}

	amount, err := parseAmount(details.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) || details.Recipient == "" {
		return domain.OutcomeIncomplete, "Faltando valor ou destinatário para a transferência."
	}

	summary := fmt.Sprintf("Transferência de R$ %s para %s da sua conta %s.",
		amount.StringFixed(2), details.Recipient, details.AccountType)
	return domain.OutcomeTransferConfirmation, summary + "\nVocê confirma essa operação? (sim/não)"
}

// ConfirmTransfer checks the confirmation answer and, if affirmative,
// performs the ledger mutation. Anything other than an affirmative
// answer cancels the operation without touching the ledger.
func (e *Executor) ConfirmTransfer(ctx context.Context, userID string, entities map[string]any, answer string) (domain.Outcome, string) {
	if !affirmatives[strings.ToLower(strings.TrimSpace(answer))] {
		return domain.OutcomeCancelled, "Operação cancelada. Me avise se precisar de mais alguma coisa."
	}

	details, err := decodeDetails(entities)
	if err != nil {
		return domain.OutcomeRejected, err.Error()
	}
	amount, err := parseAmount(details.Amount)
	if err != nil {
		return domain.OutcomeRejected, err.Error()
	}

	if err := e.ledger.Transfer(ctx, userID, details.AccountType, details.Recipient, amount); err != nil {
		return domain.OutcomeRejected, rejectionMessage(err, userID, details.AccountType)
	}

	return domain.OutcomeCompleted, fmt.Sprintf("Transferido R$ %s para %s da sua conta %s.",
		amount.StringFixed(2), details.Recipient, details.AccountType)
}

func (e *Executor) handleGetTransactions(ctx context.Context, userID string, entities map[string]any) (domain.Outcome, string) {
	details, err := decodeDetails(entities)
	if err != nil {
		return domain.OutcomeRejected, err.Error()
	}

	transactions, err := e.ledger.GetTransactions(ctx, userID, details.AccountType)
	if err != nil {
		return domain.OutcomeRejected, rejectionMessage(err, userID, details.AccountType)
	}
	if len(transactions) == 0 {
		return domain.OutcomeTransactions, "Você não tem transações recentes."
	}

	lines := make([]string, 0, len(transactions))
	for _, t := range transactions {
		lines = append(lines, fmt.Sprintf("- %s para %s (R$ %s) da conta %s",
			t.Kind, t.Counterparty, t.Amount.StringFixed(2), t.SourceAccount))
	}
	return domain.OutcomeTransactions, "Suas transações recentes:\n" + strings.Join(lines, "\n")
}

func rejectionMessage(err error, userID, accountType string) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "Saldo insuficiente."
	case errors.Is(err, domain.ErrAccountNotFound):
		return fmt.Sprintf("Tipo de conta '%s' não encontrado.", accountType)
	case errors.Is(err, domain.ErrUserNotFound):
		return fmt.Sprintf("Usuário '%s' não encontrado.", userID)
	default:
		return err.Error()
	}
}
