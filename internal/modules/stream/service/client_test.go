package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
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

func TestDecodeFrame(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
		typ  string
	}{
		{"bare record", `{"type":"order","status":"ack","symbol":"BTC","ts":100}`, true, "order"},
		{"wrapped record", `{"event":{"type":"order","status":"dry_run","ts":101}}`, true, "order"},
		{"ping frame", `{"op":"ping"}`, false, ""},
		{"garbage", `not json`, false, ""},
		{"empty object", `{}`, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := decodeFrame([]byte(tt.raw))
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.typ, e.Type)
			}
		})
	}
}

func TestClientDisabledWithoutPath(t *testing.T) {
	c, err := NewClient(&config.Config{})
	require.NoError(t, err)
	assert.False(t, c.Enabled())
}

func TestRunReceivesEvents(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/ws/events", r.URL.Path)
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"op":"subscribed"}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"order","status":"rejected","symbol":"ETH","error":"venue rejected","ts":55}`))
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := &config.Config{}
	cfg.Backend.BaseURL = srv.URL
	cfg.Backend.WSPath = "/api/v1/ws/events"

	c, err := NewClient(cfg)
	require.NoError(t, err)
	require.True(t, c.Enabled())
	assert.True(t, strings.HasPrefix(c.url, "ws://"))

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan models.EventRecord, 8)

	var connected atomic.Bool
	go c.Run(ctx, out, func(v bool) { connected.Store(v) })

	select {
	case e := <-out:
		assert.Equal(t, "order", e.Type)
		assert.Equal(t, models.EventStatusRejected, e.Status)
		assert.Equal(t, "ETH", e.Symbol)
	case <-time.After(2 * time.Second):
		t.Fatal("event not received")
	}
	assert.True(t, connected.Load())

	cancel()
}
