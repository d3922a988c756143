package domain

// Intent is the classified purpose of a user utterance.
type Intent string

const (
	IntentTransfer        Intent = "transfer"
	IntentGetBalance      Intent = "get_balance"
	IntentGetTransactions Intent = "get_transactions"
	IntentGetHelp         Intent = "get_help"
	IntentUnknown         Intent = "unknown"
)

// Entity keys the engine knows about.
const (
	EntityAmount        = "amount"
	EntityRecipient     = "recipient"
	EntityAccountType   = "account_type"
	EntityAccountNumber = "account_number"
)

// requiredEntities maps each intent to the entity keys it cannot be
// executed without. Read-only intents have no hard requirements because
// the account type is defaulted.
var requiredEntities = map[Intent][]string{
	IntentTransfer:        {EntityAmount, EntityRecipient},
	IntentGetBalance:      {},
	IntentGetTransactions: {},
	IntentGetHelp:         {},
}

// ParseIntent maps a raw string to a known Intent, falling back to
// IntentUnknown for anything the model invents.
func ParseIntent(raw string) Intent {
	switch Intent(raw) {
	case IntentTransfer, IntentGetBalance, IntentGetTransactions, IntentGetHelp:
		return Intent(raw)
	default:
		return IntentUnknown
	}
}

// Required returns the entity keys this intent declares as mandatory.
func (i Intent) Required() []string {
	return requiredEntities[i]
}

// Mutating reports whether executing this intent moves money. Mutating
// intents are gated behind an explicit confirmation turn.
func (i Intent) Mutating() bool {
	return i == IntentTransfer
}

// Known reports whether the intent is one the executor can route.
func (i Intent) Known() bool {
	_, ok := requiredEntities[i]
	return ok
}
