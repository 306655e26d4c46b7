package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"vault_console/internal/models"
)

// Pretrade — read-only проверка ордера перед любым мутирующим вызовом.
// ok=false + rawReason значит отказ политики; ошибка — транспорт.
func (c *Client) Pretrade(ctx context.Context, req models.OrderRequest) (bool, string, error) {
	q := url.Values{}
	q.Set("symbol", req.Symbol)
	q.Set("venue", req.Venue)
	q.Set("size", strconv.FormatFloat(req.Size, 'f', -1, 64))
	q.Set("side", req.Side)
	if req.ReduceOnly {
		q.Set("reduce_only", "true")
	}
	if req.Leverage > 0 {
		q.Set("leverage", strconv.FormatFloat(req.Leverage, 'f', -1, 64))
	}
	if req.OrderType != "" {
		q.Set("order_type", req.OrderType)
	}

	b, err := c.get(ctx, "/api/v1/pretrade?"+q.Encode())
	if err != nil {
		return false, "", fmt.Errorf("Pretrade: %w", err)
	}

	var payload struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &payload); err != nil {
		return false, "", fmt.Errorf("Pretrade decode: %w; body=%s", err, string(b))
	}
	return payload.OK, payload.Error, nil
}
