package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"vault_console/internal/models"
)

// Events — хвост ленты исполнения для vault, новые записи первыми.
// limit ограничивает выдачу на стороне бэкенда.
func (c *Client) Events(ctx context.Context, vault string, limit int) ([]models.EventRecord, error) {
	q := url.Values{}
	q.Set("vault", vault)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	b, err := c.get(ctx, "/api/v1/events?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("Events: %w", err)
	}

	var payload struct {
		Events []models.EventRecord `json:"events"`
	}
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, fmt.Errorf("Events decode: %w; body=%s", err, string(b))
	}
	return payload.Events, nil
}
