package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vault_console/internal/models"
	"vault_console/internal/modules/config"
	"vault_console/pkg/logger"
)

func init() {
	logger.InfoLogger = zap.NewNop()
	logger.FatalLogger = zap.NewNop()
}

type fakeSubmitter struct {
	mu   sync.Mutex
	reqs []models.OrderRequest
}

func (f *fakeSubmitter) Submit(_ context.Context, req models.OrderRequest) (models.ExecutionOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return models.ExecutionOutcome{Kind: models.OutcomeAccepted}, nil
}

type fakeRiskAPI struct {
	set     models.RiskSet
	saved   *models.RiskTemplate
	cleared bool
}

func (f *fakeRiskAPI) GetRisk(_ context.Context, _ string) (models.RiskSet, error) {
	return f.set, nil
}

func (f *fakeRiskAPI) SaveRisk(_ context.Context, _ string, override models.RiskTemplate) (models.RiskSet, error) {
	f.saved = &override
	return f.set, nil
}

func (f *fakeRiskAPI) ClearRisk(_ context.Context, _ string) (models.RiskSet, error) {
	f.cleared = true
	return f.set, nil
}

type fakeAdmin struct {
	calls []string
	err   error
}

func (f *fakeAdmin) Pause(_ context.Context) (string, error) {
	f.calls = append(f.calls, "pause")
	return "0xabc", f.err
}

func (f *fakeAdmin) Unpause(_ context.Context) (string, error) {
	f.calls = append(f.calls, "unpause")
	return "0xabc", f.err
}

func (f *fakeAdmin) SetPerformanceFee(_ context.Context, bps uint64) (string, error) {
	f.calls = append(f.calls, "setfee")
	return "0xfee", f.err
}

func (f *fakeAdmin) SetLockMinDays(_ context.Context, days uint64) (string, error) {
	f.calls = append(f.calls, "setlock")
	return "0xlock", f.err
}

func (f *fakeAdmin) SetWhitelist(_ context.Context, addr string, allowed bool) (string, error) {
	f.calls = append(f.calls, "whitelist")
	return "0xwl", f.err
}

func (f *fakeAdmin) SetAdapter(_ context.Context, adapter string, allowed bool) (string, error) {
	f.calls = append(f.calls, "adapter")
	return "0xad", f.err
}

func (f *fakeAdmin) AdapterAllowed(_ context.Context, adapter string) (bool, error) {
	f.calls = append(f.calls, "adapter?")
	return true, f.err
}

type fakeJournal struct {
	entries []Entry
	err     error
}

func (f *fakeJournal) Recent(_ context.Context, _ string, _ int) ([]Entry, error) {
	return f.entries, f.err
}

func newCommands(sub *fakeSubmitter, riskAPI *fakeRiskAPI, admin *fakeAdmin, journal *fakeJournal) *Commands {
	cfg := &config.Config{DefaultVenue: "hl"}
	cfg.Ledger.VaultAddress = "0xvault"
	return NewCommands(cfg, sub, riskAPI, admin, journal)
}

func TestOpenCommand(t *testing.T) {
	sub := &fakeSubmitter{}
	c := newCommands(sub, &fakeRiskAPI{}, &fakeAdmin{}, &fakeJournal{})

	reply := c.HandleCommand(context.Background(), "open", "buy btc 100 3")
	assert.Empty(t, reply) // исход уедет нотификацией координатора

	require.Len(t, sub.reqs, 1)
	req := sub.reqs[0]
	assert.Equal(t, "0xvault", req.Vault)
	assert.Equal(t, "hl", req.Venue)
	assert.Equal(t, "BTC", req.Symbol)
	assert.Equal(t, models.SideBuy, req.Side)
	assert.Equal(t, 100.0, req.Size)
	assert.Equal(t, 3.0, req.Leverage)
	assert.Equal(t, models.OrderTypeMarket, req.OrderType)
}

func TestOpenCommandValidation(t *testing.T) {
	sub := &fakeSubmitter{}
	c := newCommands(sub, &fakeRiskAPI{}, &fakeAdmin{}, &fakeJournal{})

	tests := []struct {
		name string
		args string
	}{
		{"too few args", "buy btc"},
		{"bad side", "hold BTC 100"},
		{"bad size", "buy BTC ten"},
		{"negative size", "buy BTC -5"},
		{"bad leverage", "buy BTC 100 -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := c.HandleCommand(context.Background(), "open", tt.args)
			assert.NotEmpty(t, reply)
		})
	}
	assert.Empty(t, sub.reqs) // ни одна кривая команда не дошла до координатора
}

func TestCloseCommand(t *testing.T) {
	sub := &fakeSubmitter{}
	c := newCommands(sub, &fakeRiskAPI{}, &fakeAdmin{}, &fakeJournal{})

	c.HandleCommand(context.Background(), "close", "eth 50")

	require.Len(t, sub.reqs, 1)
	req := sub.reqs[0]
	assert.Equal(t, models.SideClose, req.Side)
	assert.Equal(t, "ETH", req.Symbol)
	assert.True(t, req.ReduceOnly)
}

func TestRiskCommand(t *testing.T) {
	riskAPI := &fakeRiskAPI{set: models.RiskSet{
		Base: models.RiskTemplate{
			AllowedSymbols: "BTC,ETH",
			MaxLeverage:    models.F64Ptr(10),
		},
		Effective: models.RiskTemplate{
			AllowedSymbols: "BTC,ETH",
			MaxLeverage:    models.F64Ptr(10),
		},
	}}
	c := newCommands(&fakeSubmitter{}, riskAPI, &fakeAdmin{}, &fakeJournal{})

	reply := c.HandleCommand(context.Background(), "risk", "")
	assert.Contains(t, reply, "symbols=BTC,ETH")
	assert.Contains(t, reply, "override: нет")

	reply = c.HandleCommand(context.Background(), "risk", "clear")
	assert.True(t, riskAPI.cleared)
	assert.Contains(t, reply, "сброшен")
}

func TestRiskSetCommand(t *testing.T) {
	riskAPI := &fakeRiskAPI{}
	c := newCommands(&fakeSubmitter{}, riskAPI, &fakeAdmin{}, &fakeJournal{})

	reply := c.HandleCommand(context.Background(), "riskset", "symbols=BTC,ETH maxlev=10 minusd=10")
	assert.Contains(t, reply, "сохранён")

	require.NotNil(t, riskAPI.saved)
	assert.Equal(t, "BTC,ETH", riskAPI.saved.AllowedSymbols)
	require.NotNil(t, riskAPI.saved.MaxLeverage)
	assert.Equal(t, 10.0, *riskAPI.saved.MaxLeverage)
	assert.Nil(t, riskAPI.saved.MinLeverage)

	reply = c.HandleCommand(context.Background(), "riskset", "maxlev=ten")
	assert.Contains(t, reply, "не разобрано")

	reply = c.HandleCommand(context.Background(), "riskset", "wat=1")
	assert.Contains(t, reply, "Неизвестный параметр")
}

func TestWhitelistAndAdapterCommands(t *testing.T) {
	admin := &fakeAdmin{}
	c := newCommands(&fakeSubmitter{}, &fakeRiskAPI{}, admin, &fakeJournal{})

	reply := c.HandleCommand(context.Background(), "whitelist", "0xinvestor on")
	assert.Contains(t, reply, "0xwl")

	reply = c.HandleCommand(context.Background(), "adapter", "0xadapter off")
	assert.Contains(t, reply, "0xad")

	reply = c.HandleCommand(context.Background(), "adapter", "0xadapter")
	assert.Contains(t, reply, "разрешён")

	reply = c.HandleCommand(context.Background(), "whitelist", "0xinvestor maybe")
	assert.Contains(t, reply, "on или off")

	assert.Equal(t, []string{"whitelist", "adapter", "adapter?"}, admin.calls)
}

func TestAdminCommands(t *testing.T) {
	admin := &fakeAdmin{}
	c := newCommands(&fakeSubmitter{}, &fakeRiskAPI{}, admin, &fakeJournal{})

	reply := c.HandleCommand(context.Background(), "pause", "")
	assert.Contains(t, reply, "0xabc")

	reply = c.HandleCommand(context.Background(), "setfee", "2000")
	assert.Contains(t, reply, "0xfee")

	reply = c.HandleCommand(context.Background(), "setfee", "twenty")
	assert.Contains(t, reply, "целым числом")

	assert.Equal(t, []string{"pause", "setfee"}, admin.calls)
}

func TestAdminCommandNotConfirmed(t *testing.T) {
	admin := &fakeAdmin{err: errors.New("ledger: operation not confirmed")}
	c := newCommands(&fakeSubmitter{}, &fakeRiskAPI{}, admin, &fakeJournal{})

	reply := c.HandleCommand(context.Background(), "unpause", "")
	assert.True(t, strings.HasPrefix(reply, "⚠️"))
}

func TestJournalCommand(t *testing.T) {
	journal := &fakeJournal{entries: []Entry{
		{Symbol: "BTC", Side: "buy", Size: 100, Outcome: "accepted", DryRun: true},
		{Symbol: "ETH", Side: "sell", Size: 25, Outcome: "rejected", Reason: "venue_rejected"},
	}}
	c := newCommands(&fakeSubmitter{}, &fakeRiskAPI{}, &fakeAdmin{}, journal)

	reply := c.HandleCommand(context.Background(), "journal", "")
	assert.Contains(t, reply, "BTC")
	assert.Contains(t, reply, "venue_rejected")

	journal.entries = nil
	reply = c.HandleCommand(context.Background(), "journal", "")
	assert.Contains(t, reply, "пуст")
}

func TestUnknownCommandSilent(t *testing.T) {
	c := newCommands(&fakeSubmitter{}, &fakeRiskAPI{}, &fakeAdmin{}, &fakeJournal{})
	assert.Empty(t, c.HandleCommand(context.Background(), "frobnicate", "x y z"))
}
