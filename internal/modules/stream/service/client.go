package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"vault_console/internal/models"
	"vault_console/internal/modules/config"
	"vault_console/pkg/logger"
)

// Client держит WebSocket к ленте событий бэкенда и переподключается
// при обрывах. Лента дублирует HTTP-опрос, но без пятисекундного лага.
type Client struct {
	url    string
	dialer *websocket.Dialer
}

func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.Backend.WSPath == "" {
		return &Client{dialer: websocket.DefaultDialer}, nil // фича выключена
	}

	u, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("stream parse base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = cfg.Backend.WSPath

	return &Client{
		url:    u.String(),
		dialer: websocket.DefaultDialer,
	}, nil
}

func (c *Client) Enabled() bool { return c.url != "" }

// Run гоняет connect/read-loop до отмены контекста.
// onConnect дёргается на каждом изменении состояния соединения.
func (c *Client) Run(ctx context.Context, out chan<- models.EventRecord, onConnect func(bool)) {
	defer close(out)

	if c.url == "" {
		return
	}
	if onConnect == nil {
		onConnect = func(bool) {}
	}

	for {
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			logger.Error("stream dial %s: %v", c.url, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		logger.Info("stream connected: %s", c.url)
		onConnect(true)

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				logger.Error("stream read: %v", err)
				_ = conn.Close()
				onConnect(false)
				break
			}

			e, ok := decodeFrame(msg)
			if !ok {
				continue
			}

			select {
			case out <- e:
			case <-ctx.Done():
				_ = conn.Close()
				onConnect(false)
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		default:
			time.Sleep(time.Second)
		}
	}
}

// Кадры приходят либо голой записью, либо в обёртке {"event": {...}}.
// Служебные кадры (ping, подтверждение подписки) молча пропускаем.
func decodeFrame(msg []byte) (models.EventRecord, bool) {
	var wrapped struct {
		Event *models.EventRecord `json:"event"`
	}
	if err := json.Unmarshal(msg, &wrapped); err == nil && wrapped.Event != nil {
		return *wrapped.Event, wrapped.Event.Type != ""
	}

	var e models.EventRecord
	if err := json.Unmarshal(msg, &e); err != nil {
		return models.EventRecord{}, false
	}
	return e, e.Type != ""
}
