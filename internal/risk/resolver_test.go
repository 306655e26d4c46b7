package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vault_console/internal/models"
)

func f(v float64) *float64 { return &v }

func TestResolveNoBase(t *testing.T) {
	_, err := Resolve(nil, models.RiskTemplate{MinLeverage: f(2)})
	require.ErrorIs(t, err, ErrNoBase)
}

func TestResolveFieldFallback(t *testing.T) {
	base := &models.RiskTemplate{
		AllowedSymbols: "BTC,ETH",
		MinLeverage:    f(1),
		MaxLeverage:    f(5),
		MinNotionalUsd: f(10),
	}
	override := models.RiskTemplate{
		MaxLeverage:    f(3),
		MaxNotionalUsd: f(50000),
	}

	eff, err := Resolve(base, override)
	require.NoError(t, err)

	assert.Equal(t, "BTC,ETH", eff.AllowedSymbols)
	assert.Equal(t, 1.0, *eff.MinLeverage)
	assert.Equal(t, 3.0, *eff.MaxLeverage) // из override
	assert.Equal(t, 10.0, *eff.MinNotionalUsd)
	assert.Equal(t, 50000.0, *eff.MaxNotionalUsd)
}

func TestResolveEmptyOverrideYieldsBase(t *testing.T) {
	base := &models.RiskTemplate{
		AllowedSymbols: "BTC,ETH",
		MinLeverage:    f(1),
		MaxLeverage:    f(5),
	}
	eff, err := Resolve(base, models.RiskTemplate{})
	require.NoError(t, err)
	assert.Equal(t, *base, eff)
}

func TestResolveIdempotent(t *testing.T) {
	base := &models.RiskTemplate{
		AllowedSymbols: "btc, eth",
		MinLeverage:    f(1),
		MaxNotionalUsd: f(100000),
	}
	override := models.RiskTemplate{
		AllowedSymbols: "sol",
		MinLeverage:    f(2),
	}

	once, err := Resolve(base, override)
	require.NoError(t, err)
	twice, err := Resolve(base, once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestNormalizeSymbols(t *testing.T) {
	cases := map[string]string{
		"":               "",
		"btc":            "BTC",
		" btc , eth ,":   "BTC,ETH",
		"BTC,,ETH":       "BTC,ETH",
		"sol,BtC , eth ": "SOL,BTC,ETH",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeSymbols(in), "input %q", in)
	}
}
