package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"

	"vault_console/internal/models"
	"vault_console/internal/risk"
)

// GetRisk читает base/override/effective для vault. Effective бэкенд
// пересчитывает сам, мы его никогда не кэшируем отдельно.
func (c *Client) GetRisk(ctx context.Context, vaultID string) (models.RiskSet, error) {
	b, err := c.get(ctx, "/api/v1/vaults/"+vaultID+"/risk")
	if err != nil {
		return models.RiskSet{}, fmt.Errorf("GetRisk: %w", err)
	}

	var set models.RiskSet
	if err := json.Unmarshal(b, &set); err != nil {
		return models.RiskSet{}, fmt.Errorf("GetRisk decode: %w; body=%s", err, string(b))
	}
	return set, nil
}

// SaveRisk записывает override. Символы нормализуются до отправки,
// чтобы бэкенд и UI сравнивали одинаковые строки.
func (c *Client) SaveRisk(ctx context.Context, vaultID string, override models.RiskTemplate) (models.RiskSet, error) {
	override.AllowedSymbols = risk.NormalizeSymbols(override.AllowedSymbols)

	payload, err := sonic.Marshal(override)
	if err != nil {
		return models.RiskSet{}, fmt.Errorf("SaveRisk marshal: %w", err)
	}
	return c.putRisk(ctx, vaultID, payload)
}

// ClearRisk — явный сброс override к платформенному дефолту.
// Отдельная операция, а не "пустой payload по совпадению".
func (c *Client) ClearRisk(ctx context.Context, vaultID string) (models.RiskSet, error) {
	return c.putRisk(ctx, vaultID, []byte("{}"))
}

func (c *Client) putRisk(ctx context.Context, vaultID string, payload []byte) (models.RiskSet, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPut,
		c.baseURL+"/api/v1/vaults/"+vaultID+"/risk",
		bytes.NewReader(payload),
	)
	if err != nil {
		return models.RiskSet{}, fmt.Errorf("putRisk build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.RiskSet{}, fmt.Errorf("putRisk do: %w", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return models.RiskSet{}, fmt.Errorf("putRisk http %d: %s", resp.StatusCode, string(b))
	}

	var set models.RiskSet
	if err := json.Unmarshal(b, &set); err != nil {
		return models.RiskSet{}, fmt.Errorf("putRisk decode: %w; body=%s", err, string(b))
	}
	return set, nil
}
