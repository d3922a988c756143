package magie_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/magie"
	"github.com/aretw0/magie/pkg/domain"
)

// queueExtractor replays a fixed sequence of extraction results, one per
// call, so the conversation is fully deterministic without a model.
type queueExtractor struct {
	results []*domain.ExtractionResult
	calls   int
}

func (q *queueExtractor) Extract(_ context.Context, _ string, _ []string, _ string) (*domain.ExtractionResult, error) {
	if q.calls >= len(q.results) {
		return &domain.ExtractionResult{Intent: domain.IntentUnknown, Entities: map[string]any{}}, nil
	}
	r := q.results[q.calls]
	q.calls++
	return r, nil
}

func TestAssistant_Integration(t *testing.T) {
	extractor := &queueExtractor{results: []*domain.ExtractionResult{
		{Intent: domain.IntentGetBalance, Entities: map[string]any{}},
		{
			Intent:   domain.IntentTransfer,
			Entities: map[string]any{"amount": "200", "recipient": "Maria"},
		},
		// The confirmation answer is intercepted before extraction, so
		// no third result is needed.
	}}

	assistant, err := magie.New(magie.Config{
		UserID:        "rodrigo.barreiros",
		UserName:      "Rodrigo",
		AccountNumber: "000123",
	}, magie.WithExtractor(extractor))
	require.NoError(t, err)

	ctx := context.Background()

	result, err := assistant.ProcessTurn(ctx, "qual o meu saldo?")
	require.NoError(t, err)
	assert.True(t, result.Continue)
	assert.Contains(t, result.Message, "1500")

	result, err = assistant.ProcessTurn(ctx, "transfere 200 reais para a Maria")
	require.NoError(t, err)
	require.Equal(t, domain.KindConfirmation, result.Kind)
	assert.Contains(t, result.Message, "Maria")

	result, err = assistant.ProcessTurn(ctx, "sim")
	require.NoError(t, err)
	assert.Equal(t, domain.KindSuccess, result.Kind)
	assert.Equal(t, 2, extractor.calls, "confirmation answer must not hit the extractor")

	result, err = assistant.ProcessTurn(ctx, "sair")
	require.NoError(t, err)
	assert.False(t, result.Continue)
}

func TestAssistant_RequiresUserID(t *testing.T) {
	_, err := magie.New(magie.Config{})
	assert.Error(t, err)
}

func TestAssistant_Reset(t *testing.T) {
	extractor := &queueExtractor{results: []*domain.ExtractionResult{
		{
			Intent:       domain.IntentTransfer,
			Entities:     map[string]any{"amount": "50"},
			NextQuestion: "Para quem você quer transferir?",
		},
	}}

	assistant, err := magie.New(magie.Config{
		UserID:        "rodrigo.barreiros",
		AccountNumber: "000123",
	}, magie.WithExtractor(extractor))
	require.NoError(t, err)

	ctx := context.Background()

	result, err := assistant.ProcessTurn(ctx, "quero transferir 50")
	require.NoError(t, err)
	assert.Contains(t, result.Message, "Para quem")

	require.NoError(t, assistant.Reset(ctx))

	ids, err := assistant.Sessions().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
