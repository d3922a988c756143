package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/magie/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a
// SessionStore implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	userID := "contract-test-user-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		session := domain.NewSession(userID, "Rodrigo")
		session.AppendUser("Quero transferir 100 reais para Maria")
		session.Pending = domain.AwaitingEntities(&domain.ExtractionResult{
			Intent:          domain.IntentTransfer,
			Entities:        map[string]any{"recipient": "Maria"},
			MissingEntities: []string{"amount"},
			NextQuestion:    "Qual o valor da transferência?",
		})

		err := store.Save(ctx, userID, session)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, userID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, session.UserID, loaded.UserID)
		assert.Equal(t, session.History, loaded.History)
		assert.Equal(t, domain.PendingEntities, loaded.Pending.Kind)
		assert.Equal(t, domain.IntentTransfer, loaded.Pending.Intent)
		// JSON round-trips may loosen value types, so only check presence.
		assert.Contains(t, loaded.Pending.Entities, "recipient")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+userID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, userID, domain.NewSession(userID, "Rodrigo"))
		require.NoError(t, err)

		err = store.Delete(ctx, userID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, userID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := userID + "-1"
		id2 := userID + "-2"
		_ = store.Save(ctx, id1, domain.NewSession(id1, "Rodrigo"))
		_ = store.Save(ctx, id2, domain.NewSession(id2, "Rodrigo"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
