package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vault_console/internal/models"
)

// Без DSN журнал обязан быть прозрачным no-op: submit не должен
// зависеть от наличия Postgres.
func TestStoreNoopWithoutDB(t *testing.T) {
	s := NewStore(nil)

	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Record(context.Background(), models.OrderRequest{
		Vault:  "0xvault",
		Symbol: "BTC",
		Side:   models.SideBuy,
		Size:   100,
	}, models.ExecutionOutcome{Kind: models.OutcomeAccepted}))

	entries, err := s.Recent(context.Background(), "0xvault", 10)
	require.NoError(t, err)
	assert.Nil(t, entries)
}
