package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultResolver_FillsAbsentKeys(t *testing.T) {
	resolver := NewDefaultResolver("000123")

	out := resolver.Apply(map[string]any{"amount": 100})

	assert.Equal(t, 100, out["amount"])
	assert.Equal(t, "000123", out["account_number"])
	assert.Equal(t, "corrente", out["account_type"])
}

func TestDefaultResolver_NeverOverwrites(t *testing.T) {
	resolver := NewDefaultResolver("000123")

	out := resolver.Apply(map[string]any{"account_type": "poupança"})

	assert.Equal(t, "poupança", out["account_type"])
}

func TestDefaultResolver_Idempotent(t *testing.T) {
	resolver := NewDefaultResolver("000123")

	cases := []map[string]any{
		{},
		{"amount": 100, "recipient": "Maria"},
		{"account_type": "poupança", "account_number": "999"},
	}

	for _, entities := range cases {
		once := resolver.Apply(entities)
		twice := resolver.Apply(once)
		assert.Equal(t, once, twice)
	}
}

func TestDefaultResolver_DoesNotMutateInput(t *testing.T) {
	resolver := NewDefaultResolver("000123")
	in := map[string]any{"amount": 100}

	_ = resolver.Apply(in)

	assert.Equal(t, map[string]any{"amount": 100}, in)
}
