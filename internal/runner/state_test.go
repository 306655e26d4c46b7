package runner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vault_console/internal/models"
	"vault_console/pkg/logger"
)

func init() {
	logger.InfoLogger = zap.NewNop()
	logger.FatalLogger = zap.NewNop()
}

func TestStateInitiallyEmpty(t *testing.T) {
	st := NewState()

	status, _ := st.Status()
	assert.Nil(t, status)
	events, _ := st.Events()
	assert.Nil(t, events)
	onchain, _ := st.Onchain()
	assert.Nil(t, onchain)
	assert.Empty(t, st.StatusLine())
}

func TestStateWholesaleReplace(t *testing.T) {
	st := NewState()

	st.SetEvents([]models.EventRecord{
		{Type: "order", Status: models.EventStatusAck, Symbol: "BTC", TS: 100},
		{Type: "order", Status: models.EventStatusAck, Symbol: "ETH", TS: 99},
	})
	st.SetEvents([]models.EventRecord{
		{Type: "order", Status: models.EventStatusRejected, Symbol: "SOL", TS: 101},
	})

	events, _ := st.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "SOL", events[0].Symbol)
}

func TestStateClosedDropsCommits(t *testing.T) {
	st := NewState()
	st.SetStatus(models.OperationalStatus{
		Flags: models.StatusFlags{EnableLiveExec: true},
	})
	st.Close()

	st.SetStatus(models.OperationalStatus{})
	st.SetEvents([]models.EventRecord{{Type: "order", TS: 1}})
	st.SetOnchain(models.VaultOnchain{UnitNav: models.F64Ptr(1)})

	status, _ := st.Status()
	require.NotNil(t, status)
	assert.Equal(t, "live", status.Mode()) // снимок до Close
	events, _ := st.Events()
	assert.Nil(t, events)
	onchain, _ := st.Onchain()
	assert.Nil(t, onchain)
}

func TestStatePollErrorKeepsSnapshot(t *testing.T) {
	st := NewState()
	st.SetStatus(models.OperationalStatus{
		Flags: models.StatusFlags{EnableLiveExec: true},
	})

	st.SetPollError(errors.New("dial tcp: connection refused"))

	status, _ := st.Status()
	require.NotNil(t, status)
	assert.Equal(t, "live", status.Mode())
	assert.Contains(t, st.PollError(), "connection refused")
	assert.Contains(t, st.StatusLine(), "⚠️")

	// успешный опрос чистит ошибку
	st.SetStatus(models.OperationalStatus{})
	assert.Empty(t, st.PollError())
}

func TestStatusLineContent(t *testing.T) {
	st := NewState()
	st.SetStatus(models.OperationalStatus{
		Network: models.NetworkInfo{ChainID: 998, Block: 12345},
		State:   models.RuntimeState{Listener: "running"},
	})
	st.SetOnchain(models.VaultOnchain{UnitNav: models.F64Ptr(1.0251)})

	line := st.StatusLine()
	assert.Contains(t, line, "режим: dry_run")
	assert.Contains(t, line, "listener: running")
	assert.Contains(t, line, "block: 12345")
	assert.Contains(t, line, "nav: 1.0251")
}

// --- воркеры ---

type fakeStatusSource struct {
	mu    sync.Mutex
	calls int
	resp  models.OperationalStatus
	err   error
}

func (f *fakeStatusSource) Status(_ context.Context, _ string) (models.OperationalStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.resp, f.err
}

func (f *fakeStatusSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeEventsSource struct {
	mu       sync.Mutex
	resp     []models.EventRecord
	err      error
	gotLimit int
}

func (f *fakeEventsSource) Events(_ context.Context, _ string, limit int) ([]models.EventRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotLimit = limit
	return f.resp, f.err
}

type fakeOnchainSource struct {
	mu   sync.Mutex
	resp models.VaultOnchain
}

func (f *fakeOnchainSource) Snapshot(_ context.Context) models.VaultOnchain {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resp
}

func (f *fakeOnchainSource) set(v models.VaultOnchain) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resp = v
}

func TestPollStatusImmediateAndPeriodic(t *testing.T) {
	st := NewState()
	src := &fakeStatusSource{resp: models.OperationalStatus{
		Flags: models.StatusFlags{EnableLiveExec: true},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		PollStatus(ctx, src, st, "0xvault", 10*time.Millisecond)
	}()

	require.Eventually(t, func() bool {
		return src.callCount() >= 3
	}, time.Second, 5*time.Millisecond)

	status, _ := st.Status()
	require.NotNil(t, status)
	assert.Equal(t, "live", status.Mode())

	cancel()
	<-done
}

func TestPollEventsFailureKeepsPrevious(t *testing.T) {
	st := NewState()
	src := &fakeEventsSource{resp: []models.EventRecord{
		{Type: "order", Status: models.EventStatusAck, Symbol: "BTC", TS: 42},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		PollEvents(ctx, src, st, "0xvault", 50, 10*time.Millisecond)
	}()

	require.Eventually(t, func() bool {
		evts, _ := st.Events()
		return len(evts) == 1
	}, time.Second, 5*time.Millisecond)

	src.mu.Lock()
	assert.Equal(t, 50, src.gotLimit)
	src.err = errors.New("502 bad gateway")
	src.mu.Unlock()

	time.Sleep(50 * time.Millisecond)

	evts, _ := st.Events()
	require.Len(t, evts, 1) // прошлый список жив
	assert.Equal(t, "BTC", evts[0].Symbol)

	cancel()
	<-done
}

func TestPollOnchainEmptySnapshotIgnored(t *testing.T) {
	st := NewState()
	src := &fakeOnchainSource{resp: models.VaultOnchain{
		UnitNav: models.F64Ptr(2.5),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		PollOnchain(ctx, src, st, 10*time.Millisecond)
	}()

	require.Eventually(t, func() bool {
		snap, _ := st.Onchain()
		return snap != nil
	}, time.Second, 5*time.Millisecond)

	src.set(models.VaultOnchain{}) // узел упал, все поля nil
	time.Sleep(50 * time.Millisecond)

	snap, _ := st.Onchain()
	require.NotNil(t, snap)
	require.NotNil(t, snap.UnitNav)
	assert.Equal(t, 2.5, *snap.UnitNav)

	cancel()
	<-done
}
