package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/magie/internal/logging"
	"github.com/aretw0/magie/pkg/domain"
	"github.com/aretw0/magie/pkg/ports"
	"github.com/aretw0/magie/pkg/session"
)

// terminators end the conversation without calling the extractor.
var terminators = map[string]bool{
	"exit": true,
	"quit": true,
	"sair": true,
}

// Engine is the multi-turn dialogue state machine. Per utterance it
// merges the previous turn's pending state with the new extraction,
// decides whether enough information exists to act, and enforces the
// confirm-before-mutate gate for money-moving intents. All decisions are
// deterministic and side-effect free up to the ledger call.
type Engine struct {
	sessions  *session.Manager
	extractor ports.Extractor
	executor  *Executor
	resolver  *DefaultResolver

	userName      string
	assistantName string

	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger configures a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine creates the dialogue engine with its collaborators.
func NewEngine(sessions *session.Manager, extractor ports.Extractor, executor *Executor, resolver *DefaultResolver, userName, assistantName string, opts ...Option) *Engine {
	e := &Engine{
		sessions:      sessions,
		extractor:     extractor,
		executor:      executor,
		resolver:      resolver,
		userName:      userName,
		assistantName: assistantName,
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessTurn runs one full turn for a user: it loads the session,
// applies the state machine to the utterance and persists the updated
// session, all while holding the user's lock. The returned error covers
// store failures only; extraction and domain failures are reported
// inside the TurnResult.
func (e *Engine) ProcessTurn(ctx context.Context, userID, utterance string) (*domain.TurnResult, error) {
	var result *domain.TurnResult

	err := e.sessions.WithLock(ctx, userID, func(ctx context.Context) error {
		sess, err := e.sessions.Store().Load(ctx, userID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			sess = domain.NewSession(userID, e.userName)
		} else if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}

		result = e.turn(ctx, sess, utterance)

		if err := e.sessions.Store().Save(ctx, userID, sess); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// turn applies the per-utterance algorithm to a loaded session.
func (e *Engine) turn(ctx context.Context, sess *domain.Session, utterance string) *domain.TurnResult {
	e.emitTurn(ctx, sess.UserID, utterance)

	sess.AppendUser(utterance)

	// Exit check comes before everything else, including confirmation.
	if terminators[strings.ToLower(strings.TrimSpace(utterance))] {
		return e.finish(ctx, sess, "", &domain.TurnResult{
			Continue: false,
			Kind:     domain.KindInfo,
			Message:  fmt.Sprintf("Até logo, %s!", sess.UserName),
		})
	}

	// Confirmation interception: when the previous turn asked "confirma?",
	// this utterance is the answer, not new input. Routing it through the
	// extractor would misread "sim"/"não" as a fresh request.
	if sess.Pending.Kind == domain.PendingConfirmation {
		pending := sess.Pending
		sess.ClearPending()

		outcome, message := e.executor.ConfirmTransfer(ctx, sess.UserID, pending.Entities, utterance)
		sess.AppendAssistant(e.assistantName, message)
		return e.finish(ctx, sess, outcome, &domain.TurnResult{
			Continue: true,
			Kind:     confirmationKind(outcome),
			Message:  message,
		})
	}

	extracted, err := e.extractor.Extract(ctx, sess.UserID, sess.History, utterance)
	if err != nil {
		// Terminal for the turn: surfaced once, never retried, and the
		// pending state is left exactly as it was before the call.
		return e.finish(ctx, sess, "", &domain.TurnResult{
			Continue: true,
			Kind:     domain.KindError,
			Message:  fmt.Sprintf("Não consegui entender. (%s)", extractionReason(err)),
		})
	}

	if extracted.Intent == domain.IntentUnknown {
		return e.finish(ctx, sess, "", &domain.TurnResult{
			Continue: true,
			Kind:     domain.KindWarning,
			Message:  "Desculpe, não entendi o que você precisa. Pode reformular?",
		})
	}

	merged := e.merge(sess, extracted)
	merged.Entities = e.resolver.Apply(merged.Entities)
	merged.MissingEntities = recomputeMissing(merged)

	e.emitIntent(ctx, sess.UserID, merged)
	e.logger.Debug("intent resolved",
		"user_id", sess.UserID,
		"intent", merged.Intent,
		"missing", merged.MissingEntities,
	)

	if len(merged.MissingEntities) > 0 {
		sess.Pending = domain.AwaitingEntities(merged)

		question := merged.NextQuestion
		if question == "" {
			question = fmt.Sprintf("Preciso de mais informações: %s.", strings.Join(merged.MissingEntities, ", "))
		}
		sess.AppendAssistant(e.assistantName, question)

		return e.finish(ctx, sess, domain.OutcomeIncomplete, &domain.TurnResult{
			Continue: true,
			Kind:     domain.KindInfo,
			Message:  question,
		})
	}

	sess.ClearPending()
	return e.dispatch(ctx, sess, merged)
}

// merge folds the previous turn's unresolved state into the new
// extraction. The earlier intent is authoritative (this utterance is an
// answer to a follow-up question), while new entity values win on key
// collision (user correction).
func (e *Engine) merge(sess *domain.Session, extracted *domain.ExtractionResult) *domain.ExtractionResult {
	merged := extracted.Clone()
	if sess.Pending.Kind != domain.PendingEntities {
		return merged
	}

	merged.Intent = sess.Pending.Intent

	entities := make(map[string]any, len(sess.Pending.Entities)+len(merged.Entities))
	for k, v := range sess.Pending.Entities {
		entities[k] = v
	}
	for k, v := range extracted.Entities {
		entities[k] = v
	}
	merged.Entities = entities
	return merged
}

// recomputeMissing derives the authoritative missing set: the gateway's
// list is advisory, so anything already present in the merged entities
// is filtered out, as is anything the intent does not actually require.
func recomputeMissing(r *domain.ExtractionResult) []string {
	required := make(map[string]bool, len(r.Intent.Required()))
	for _, key := range r.Intent.Required() {
		required[key] = true
	}

	missing := make([]string, 0, len(r.MissingEntities))
	for _, key := range r.MissingEntities {
		if !required[key] {
			continue
		}
		if _, present := r.Entities[key]; present {
			continue
		}
		missing = append(missing, key)
	}
	return missing
}

// dispatch routes a fully resolved intent. Mutating intents come back as
// a confirmation request and arm the confirm gate; read-only intents
// execute immediately.
func (e *Engine) dispatch(ctx context.Context, sess *domain.Session, merged *domain.ExtractionResult) *domain.TurnResult {
	outcome, message := e.executor.Handle(ctx, sess.UserID, merged.Intent, merged.Entities)

	if outcome == domain.OutcomeTransferConfirmation {
		sess.Pending = domain.AwaitingConfirmation(merged.Intent, merged.Entities)
		sess.AppendAssistant(e.assistantName, message)
		return e.finish(ctx, sess, outcome, &domain.TurnResult{
			Continue: true,
			Kind:     domain.KindConfirmation,
			Message:  message,
		})
	}

	sess.AppendAssistant(e.assistantName, message)
	return e.finish(ctx, sess, outcome, &domain.TurnResult{
		Continue: true,
		Kind:     outcomeKind(outcome),
		Message:  message,
	})
}

func confirmationKind(outcome domain.Outcome) domain.MessageKind {
	switch outcome {
	case domain.OutcomeCompleted:
		return domain.KindSuccess
	case domain.OutcomeCancelled:
		return domain.KindInfo
	default:
		return domain.KindError
	}
}

func outcomeKind(outcome domain.Outcome) domain.MessageKind {
	switch outcome {
	case domain.OutcomeBalance, domain.OutcomeTransactions, domain.OutcomeHelp:
		return domain.KindInfo
	case domain.OutcomeCompleted:
		return domain.KindSuccess
	case domain.OutcomeIncomplete:
		return domain.KindWarning
	case domain.OutcomeRejected, domain.OutcomeUnsupported:
		return domain.KindError
	default:
		return domain.KindNone
	}
}

func extractionReason(err error) string {
	var extractionErr *domain.ExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr.Reason
	}
	return err.Error()
}

func (e *Engine) emitTurn(ctx context.Context, userID, utterance string) {
	if e.hooks.OnTurn != nil {
		e.hooks.OnTurn(ctx, &domain.TurnEvent{
			Timestamp: time.Now(),
			UserID:    userID,
			Utterance: utterance,
		})
	}
}

func (e *Engine) emitIntent(ctx context.Context, userID string, r *domain.ExtractionResult) {
	if e.hooks.OnIntent != nil {
		e.hooks.OnIntent(ctx, &domain.IntentEvent{
			Timestamp: time.Now(),
			UserID:    userID,
			Intent:    r.Intent,
			Missing:   r.MissingEntities,
		})
	}
}

func (e *Engine) finish(ctx context.Context, sess *domain.Session, outcome domain.Outcome, result *domain.TurnResult) *domain.TurnResult {
	if e.hooks.OnOutcome != nil {
		e.hooks.OnOutcome(ctx, &domain.OutcomeEvent{
			Timestamp: time.Now(),
			UserID:    sess.UserID,
			Kind:      result.Kind,
			Outcome:   outcome,
		})
	}
	return result
}
