package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"vault_console/internal/models"
)

// OpenOrder отправляет ордер на открытие. Тело ответа возвращается сырым —
// его разбирает интерпретатор ack, клиент в исход не вмешивается.
func (c *Client) OpenOrder(ctx context.Context, req models.OrderRequest) ([]byte, error) {
	q := url.Values{}
	q.Set("vault", req.Vault)
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
	q.Set("order_type", req.OrderType)
	if req.OrderType == models.OrderTypeLimit {
		q.Set("limit_price", strconv.FormatFloat(req.LimitPrice, 'f', -1, 64))
	}
	if req.TimeInForce != "" {
		q.Set("time_in_force", req.TimeInForce)
	}
	if req.TakeProfit > 0 {
		q.Set("take_profit", strconv.FormatFloat(req.TakeProfit, 'f', -1, 64))
	}
	if req.StopLoss > 0 {
		q.Set("stop_loss", strconv.FormatFloat(req.StopLoss, 'f', -1, 64))
	}

	b, err := c.post(ctx, "/api/v1/exec/open?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("OpenOrder: %w", err)
	}
	return b, nil
}

// CloseOrder закрывает позицию (side здесь не нужен, бэкенд знает сам).
func (c *Client) CloseOrder(ctx context.Context, req models.OrderRequest) ([]byte, error) {
	q := url.Values{}
	q.Set("vault", req.Vault)
	q.Set("symbol", req.Symbol)
	q.Set("venue", req.Venue)
	q.Set("size", strconv.FormatFloat(req.Size, 'f', -1, 64))

	b, err := c.post(ctx, "/api/v1/exec/close?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("CloseOrder: %w", err)
	}
	return b, nil
}
