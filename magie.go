package magie

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/magie/internal/logging"
	"github.com/aretw0/magie/internal/runtime"
	"github.com/aretw0/magie/pkg/adapters/bank"
	"github.com/aretw0/magie/pkg/adapters/memory"
	"github.com/aretw0/magie/pkg/adapters/ollama"
	"github.com/aretw0/magie/pkg/domain"
	"github.com/aretw0/magie/pkg/ports"
	"github.com/aretw0/magie/pkg/session"
	"github.com/shopspring/decimal"
)

// Config holds the construction-time values of a single-user assistant.
type Config struct {
	UserID        string
	UserName      string
	AssistantName string
	AccountNumber string

	// ModelURL is the OpenAI-compatible endpoint of the local model.
	// Empty means the Ollama default. Ignored when a custom extractor is
	// provided via WithExtractor.
	ModelURL string
	Model    string
}

// Assistant is the high-level entry point of the library. It wraps the
// internal dialogue engine and provides the one call a presentation
// layer needs: ProcessTurn.
type Assistant struct {
	cfg      Config
	engine   *runtime.Engine
	sessions *session.Manager

	store     ports.SessionStore
	extractor ports.Extractor
	ledger    ports.Ledger
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
}

// Option defines a functional option for configuring the Assistant.
type Option func(*Assistant)

// WithStore swaps the session store (default: in-memory).
func WithStore(store ports.SessionStore) Option {
	return func(a *Assistant) {
		a.store = store
	}
}

// WithExtractor swaps the extraction gateway (default: Ollama client).
func WithExtractor(extractor ports.Extractor) Option {
	return func(a *Assistant) {
		a.extractor = extractor
	}
}

// WithLedger swaps the ledger collaborator (default: in-memory bank
// seeded with the demo accounts).
func WithLedger(ledger ports.Ledger) Option {
	return func(a *Assistant) {
		a.ledger = ledger
	}
}

// WithLogger configures the application logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Assistant) {
		a.hooks = hooks
	}
}

// New creates an Assistant for the configured user.
func New(cfg Config, opts ...Option) (*Assistant, error) {
	if cfg.UserID == "" {
		return nil, fmt.Errorf("config: user id is required")
	}
	if cfg.UserName == "" {
		cfg.UserName = cfg.UserID
	}
	if cfg.AssistantName == "" {
		cfg.AssistantName = "Magie"
	}

	a := &Assistant{
		cfg:    cfg,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.store == nil {
		a.store = memory.NewStore()
	}
	if a.extractor == nil {
		ollamaOpts := []ollama.Option{ollama.WithLogger(a.logger)}
		if cfg.Model != "" {
			ollamaOpts = append(ollamaOpts, ollama.WithModel(cfg.Model))
		}
		a.extractor = ollama.New(cfg.ModelURL, cfg.AccountNumber, ollamaOpts...)
	}
	if a.ledger == nil {
		a.ledger = bank.NewService(map[string]map[string]decimal.Decimal{
			cfg.UserID: {
				"corrente": decimal.NewFromInt(1500),
				"poupança": decimal.NewFromInt(3000),
			},
		})
	}

	a.sessions = session.NewManager(a.store, session.WithLogger(a.logger))
	a.engine = runtime.NewEngine(
		a.sessions,
		a.extractor,
		runtime.NewExecutor(a.ledger),
		runtime.NewDefaultResolver(cfg.AccountNumber),
		cfg.UserName,
		cfg.AssistantName,
		runtime.WithLogger(a.logger),
		runtime.WithLifecycleHooks(a.hooks),
	)

	return a, nil
}

// ProcessTurn runs one conversation turn for the configured user.
func (a *Assistant) ProcessTurn(ctx context.Context, utterance string) (*domain.TurnResult, error) {
	return a.engine.ProcessTurn(ctx, a.cfg.UserID, utterance)
}

// ProcessTurnFor runs one conversation turn for an arbitrary user id,
// creating its session on first contact.
func (a *Assistant) ProcessTurnFor(ctx context.Context, userID, utterance string) (*domain.TurnResult, error) {
	if userID == "" {
		userID = a.cfg.UserID
	}
	return a.engine.ProcessTurn(ctx, userID, utterance)
}

// Reset destroys the configured user's session, history included.
func (a *Assistant) Reset(ctx context.Context) error {
	return a.sessions.Delete(ctx, a.cfg.UserID)
}

// Sessions exposes the session manager, mainly for surfaces that need
// to list or inspect conversations.
func (a *Assistant) Sessions() *session.Manager {
	return a.sessions
}

// AssistantName returns the configured display name.
func (a *Assistant) AssistantName() string {
	return a.cfg.AssistantName
}

// UserName returns the configured user display name.
func (a *Assistant) UserName() string {
	return a.cfg.UserName
}
