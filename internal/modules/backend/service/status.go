package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"vault_console/internal/models"
)

// Status — агрегированное состояние бэкенда (флаги, сеть, демоны).
// Снимок целиком, частичных обновлений бэкенд не присылает.
func (c *Client) Status(ctx context.Context, vault string) (models.OperationalStatus, error) {
	path := "/api/v1/status"
	if vault != "" {
		q := url.Values{}
		q.Set("vault", vault)
		path += "?" + q.Encode()
	}

	b, err := c.get(ctx, path)
	if err != nil {
		return models.OperationalStatus{}, fmt.Errorf("Status: %w", err)
	}

	var resp models.OperationalStatus
	if err := json.Unmarshal(b, &resp); err != nil {
		return models.OperationalStatus{}, fmt.Errorf("Status decode: %w; body=%s", err, string(b))
	}
	return resp, nil
}
