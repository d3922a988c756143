package runtime

import (
	"context"
	"testing"

	"github.com/aretw0/magie/pkg/adapters/bank"
	"github.com/aretw0/magie/pkg/adapters/memory"
	"github.com/aretw0/magie/pkg/domain"
	"github.com/aretw0/magie/pkg/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedExtractor pops one canned answer per call and records what it
// was asked, so tests can verify both routing and the absence of calls.
type scriptedExtractor struct {
	results []*domain.ExtractionResult
	errs    []error

	calls       int
	lastHistory []string
}

func (s *scriptedExtractor) Extract(ctx context.Context, userID string, history []string, utterance string) (*domain.ExtractionResult, error) {
	s.calls++
	s.lastHistory = append([]string(nil), history...)

	if len(s.errs) > 0 && s.errs[0] != nil {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if len(s.results) > 0 {
			s.results = s.results[1:]
		}
		return nil, err
	}
	if len(s.errs) > 0 {
		s.errs = s.errs[1:]
	}

	if len(s.results) == 0 {
		return &domain.ExtractionResult{Intent: domain.IntentUnknown, Entities: map[string]any{}}, nil
	}
	out := s.results[0]
	s.results = s.results[1:]
	return out, nil
}

type engineFixture struct {
	engine    *Engine
	extractor *scriptedExtractor
	ledger    *bank.Service
	sessions  *session.Manager
}

func newFixture(t *testing.T, results ...*domain.ExtractionResult) *engineFixture {
	t.Helper()

	extractor := &scriptedExtractor{results: results}
	ledger := newTestLedger()
	sessions := session.NewManager(memory.NewStore())
	engine := NewEngine(sessions, extractor, NewExecutor(ledger), NewDefaultResolver("000123"), "Rodrigo", "Magie")

	return &engineFixture{
		engine:    engine,
		extractor: extractor,
		ledger:    ledger,
		sessions:  sessions,
	}
}

func (f *engineFixture) pending(t *testing.T) domain.PendingState {
	t.Helper()
	sess, err := f.sessions.Store().Load(context.Background(), testUser)
	require.NoError(t, err)
	return sess.Pending
}

func (f *engineFixture) balance(t *testing.T, accountType string) decimal.Decimal {
	t.Helper()
	balance, err := f.ledger.GetBalance(context.Background(), testUser, accountType)
	require.NoError(t, err)
	return balance
}

func TestEngine_TerminationKeyword(t *testing.T) {
	for _, keyword := range []string{"exit", "quit", "sair", "SAIR", "Exit"} {
		f := newFixture(t)

		result, err := f.engine.ProcessTurn(context.Background(), testUser, keyword)
		require.NoError(t, err)

		assert.False(t, result.Continue)
		assert.Contains(t, result.Message, "Até logo")
		assert.Zero(t, f.extractor.calls, "termination must not call the extractor")
	}
}

// Scenario A: a fully specified transfer goes straight to the
// confirmation prompt and arms the confirm gate.
func TestEngine_FullTransferAsksForConfirmation(t *testing.T) {
	f := newFixture(t, &domain.ExtractionResult{
		Intent:   domain.IntentTransfer,
		Entities: map[string]any{"amount": float64(100), "recipient": "Maria"},
	})

	result, err := f.engine.ProcessTurn(context.Background(), testUser, "Quero transferir 100 reais para Maria")
	require.NoError(t, err)

	assert.True(t, result.Continue)
	assert.Equal(t, domain.KindConfirmation, result.Kind)
	assert.Contains(t, result.Message, "Você confirma essa operação?")

	pending := f.pending(t)
	assert.Equal(t, domain.PendingConfirmation, pending.Kind)
	assert.Equal(t, domain.IntentTransfer, pending.Intent)
	assert.Equal(t, "Maria", pending.Entities["recipient"])
	assert.Equal(t, "corrente", pending.Entities["account_type"], "defaults applied before arming the gate")

	assert.True(t, f.balance(t, "corrente").Equal(decimal.NewFromInt(1500)), "no mutation before confirmation")
}

// Scenario B: "sim" after the prompt executes the transfer.
func TestEngine_AffirmativeConfirmationExecutes(t *testing.T) {
	f := newFixture(t, &domain.ExtractionResult{
		Intent:   domain.IntentTransfer,
		Entities: map[string]any{"amount": float64(100), "recipient": "Maria"},
	})
	ctx := context.Background()

	_, err := f.engine.ProcessTurn(ctx, testUser, "Quero transferir 100 reais para Maria")
	require.NoError(t, err)
	callsBefore := f.extractor.calls

	result, err := f.engine.ProcessTurn(ctx, testUser, "sim")
	require.NoError(t, err)

	assert.Equal(t, domain.KindSuccess, result.Kind)
	assert.Contains(t, result.Message, "Transferido R$ 100.00 para Maria")
	assert.Equal(t, callsBefore, f.extractor.calls, "confirmation answer must not be extracted")

	assert.True(t, f.balance(t, "corrente").Equal(decimal.NewFromInt(1400)))
	txs, err := f.ledger.GetTransactions(ctx, testUser, "corrente")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Maria", txs[0].Counterparty)

	assert.True(t, f.pending(t).Empty(), "pending cleared after execution")
}

// Scenario C: "não" after the prompt cancels with no mutation.
func TestEngine_NegativeConfirmationCancels(t *testing.T) {
	f := newFixture(t, &domain.ExtractionResult{
		Intent:   domain.IntentTransfer,
		Entities: map[string]any{"amount": float64(100), "recipient": "Maria"},
	})
	ctx := context.Background()

	_, err := f.engine.ProcessTurn(ctx, testUser, "Quero transferir 100 reais para Maria")
	require.NoError(t, err)

	result, err := f.engine.ProcessTurn(ctx, testUser, "não")
	require.NoError(t, err)

	assert.Equal(t, domain.KindInfo, result.Kind)
	assert.Contains(t, result.Message, "Operação cancelada")

	assert.True(t, f.balance(t, "corrente").Equal(decimal.NewFromInt(1500)))
	txs, err := f.ledger.GetTransactions(ctx, testUser, "corrente")
	require.NoError(t, err)
	assert.Empty(t, txs)

	assert.True(t, f.pending(t).Empty(), "pending cleared after cancellation")
}

// Scenario D: read-only intents execute immediately and leave nothing pending.
func TestEngine_ReadOnlyIntentExecutesImmediately(t *testing.T) {
	f := newFixture(t, &domain.ExtractionResult{
		Intent:   domain.IntentGetBalance,
		Entities: map[string]any{"account_type": "poupança"},
	})

	result, err := f.engine.ProcessTurn(context.Background(), testUser, "Qual é o meu saldo da poupança?")
	require.NoError(t, err)

	assert.Equal(t, domain.KindInfo, result.Kind)
	assert.Equal(t, "O saldo da sua conta poupança é R$ 3000.00.", result.Message)
	assert.True(t, f.pending(t).Empty())
}

// Scenario E: extraction failures are reported once and leave the
// pending state exactly as it was before the call.
func TestEngine_ExtractionFailureKeepsPending(t *testing.T) {
	f := newFixture(t,
		&domain.ExtractionResult{
			Intent:          domain.IntentTransfer,
			Entities:        map[string]any{"recipient": "Maria"},
			MissingEntities: []string{"amount"},
			NextQuestion:    "Qual o valor da transferência?",
		},
	)
	ctx := context.Background()

	_, err := f.engine.ProcessTurn(ctx, testUser, "Quero transferir para Maria")
	require.NoError(t, err)
	pendingBefore := f.pending(t)
	require.Equal(t, domain.PendingEntities, pendingBefore.Kind)

	f.extractor.errs = []error{&domain.ExtractionError{Reason: "model returned an unexpected format"}}

	result, err := f.engine.ProcessTurn(ctx, testUser, "uns 100 reais")
	require.NoError(t, err)

	assert.Equal(t, domain.KindError, result.Kind)
	assert.Contains(t, result.Message, "Não consegui entender.")
	assert.Contains(t, result.Message, "model returned an unexpected format")

	assert.Equal(t, pendingBefore, f.pending(t), "pending untouched by extraction failure")
	assert.Equal(t, 2, f.extractor.calls, "no automatic retry")
}

func TestEngine_UnknownIntentKeepsPending(t *testing.T) {
	f := newFixture(t,
		&domain.ExtractionResult{
			Intent:          domain.IntentTransfer,
			Entities:        map[string]any{"recipient": "Maria"},
			MissingEntities: []string{"amount"},
			NextQuestion:    "Qual o valor da transferência?",
		},
		&domain.ExtractionResult{Intent: domain.IntentUnknown, Entities: map[string]any{}},
	)
	ctx := context.Background()

	_, err := f.engine.ProcessTurn(ctx, testUser, "Quero transferir para Maria")
	require.NoError(t, err)
	pendingBefore := f.pending(t)

	result, err := f.engine.ProcessTurn(ctx, testUser, "hmm")
	require.NoError(t, err)

	assert.Equal(t, domain.KindWarning, result.Kind)
	assert.Equal(t, pendingBefore, f.pending(t))
}

// Merge precedence: the pending intent is authoritative and new entity
// values win on key collision.
func TestEngine_SlotFillingMerge(t *testing.T) {
	f := newFixture(t,
		&domain.ExtractionResult{
			Intent:          domain.IntentTransfer,
			Entities:        map[string]any{"recipient": "Maria"},
			MissingEntities: []string{"amount"},
			NextQuestion:    "Qual o valor da transferência?",
		},
		// Deliberately classified as something else: the answer to a
		// follow-up question inherits the pending intent.
		&domain.ExtractionResult{
			Intent:   domain.IntentGetBalance,
			Entities: map[string]any{"amount": float64(100)},
		},
	)
	ctx := context.Background()

	result, err := f.engine.ProcessTurn(ctx, testUser, "Quero transferir para Maria")
	require.NoError(t, err)
	assert.Equal(t, domain.KindInfo, result.Kind)
	assert.Equal(t, "Qual o valor da transferência?", result.Message)

	result, err = f.engine.ProcessTurn(ctx, testUser, "100 reais")
	require.NoError(t, err)

	assert.Equal(t, domain.KindConfirmation, result.Kind, "merged transfer is now complete")
	pending := f.pending(t)
	assert.Equal(t, domain.IntentTransfer, pending.Intent)
	assert.Equal(t, "Maria", pending.Entities["recipient"])
	assert.Equal(t, float64(100), pending.Entities["amount"])
}

func TestEngine_NewValuesWinOnCollision(t *testing.T) {
	f := newFixture(t,
		&domain.ExtractionResult{
			Intent:          domain.IntentTransfer,
			Entities:        map[string]any{"recipient": "Maria"},
			MissingEntities: []string{"amount"},
			NextQuestion:    "Qual o valor da transferência?",
		},
		// The follow-up answer corrects the recipient too.
		&domain.ExtractionResult{
			Intent:   domain.IntentTransfer,
			Entities: map[string]any{"amount": float64(100), "recipient": "Ana"},
		},
	)
	ctx := context.Background()

	_, err := f.engine.ProcessTurn(ctx, testUser, "Quero transferir para Maria")
	require.NoError(t, err)

	result, err := f.engine.ProcessTurn(ctx, testUser, "manda 100 para a Ana, na verdade")
	require.NoError(t, err)

	assert.Equal(t, domain.KindConfirmation, result.Kind)
	pending := f.pending(t)
	assert.Equal(t, "Ana", pending.Entities["recipient"], "the new turn's value wins")
	assert.Equal(t, float64(100), pending.Entities["amount"])
}

func TestEngine_HistoryGrowsAndFeedsExtractor(t *testing.T) {
	f := newFixture(t,
		&domain.ExtractionResult{
			Intent:          domain.IntentTransfer,
			Entities:        map[string]any{"recipient": "Maria"},
			MissingEntities: []string{"amount"},
			NextQuestion:    "Qual o valor da transferência?",
		},
		&domain.ExtractionResult{
			Intent:   domain.IntentTransfer,
			Entities: map[string]any{"amount": float64(100)},
		},
	)
	ctx := context.Background()

	_, err := f.engine.ProcessTurn(ctx, testUser, "Quero transferir para Maria")
	require.NoError(t, err)

	_, err = f.engine.ProcessTurn(ctx, testUser, "100 reais")
	require.NoError(t, err)

	// The second call must see the first utterance and the assistant's
	// follow-up question in its history.
	assert.Contains(t, f.extractor.lastHistory, "Rodrigo: Quero transferir para Maria")
	assert.Contains(t, f.extractor.lastHistory, "Magie: Qual o valor da transferência?")
}

func TestEngine_AdvisoryMissingListFiltered(t *testing.T) {
	f := newFixture(t, &domain.ExtractionResult{
		Intent:   domain.IntentTransfer,
		Entities: map[string]any{"amount": float64(100), "recipient": "Maria"},
		// The gateway claims these are missing; they are not.
		MissingEntities: []string{"amount", "recipient", "account_type"},
	})

	result, err := f.engine.ProcessTurn(context.Background(), testUser, "transfere 100 para Maria")
	require.NoError(t, err)

	assert.Equal(t, domain.KindConfirmation, result.Kind, "derived missing set is empty, so dispatch happens")
}

func TestEngine_LifecycleHooksFire(t *testing.T) {
	var turns, intents, outcomes int

	extractor := &scriptedExtractor{results: []*domain.ExtractionResult{
		{Intent: domain.IntentGetHelp, Entities: map[string]any{}},
	}}
	sessions := session.NewManager(memory.NewStore())
	engine := NewEngine(sessions, extractor, NewExecutor(newTestLedger()), NewDefaultResolver("000123"),
		"Rodrigo", "Magie",
		WithLifecycleHooks(domain.LifecycleHooks{
			OnTurn:    func(context.Context, *domain.TurnEvent) { turns++ },
			OnIntent:  func(context.Context, *domain.IntentEvent) { intents++ },
			OnOutcome: func(context.Context, *domain.OutcomeEvent) { outcomes++ },
		}),
	)

	_, err := engine.ProcessTurn(context.Background(), testUser, "me ajuda")
	require.NoError(t, err)

	assert.Equal(t, 1, turns)
	assert.Equal(t, 1, intents)
	assert.Equal(t, 1, outcomes)
}
