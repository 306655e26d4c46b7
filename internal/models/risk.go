package models

// RiskTemplate — ограничения риска для одного vault.
// Поля-указатели: nil означает "не задано" (наследуется от base),
// это важно для PUT /risk — отсутствующее поле и поле со значением 0 не одно и то же.
type RiskTemplate struct {
	AllowedSymbols string   `json:"allowedSymbols,omitempty"` // "BTC,ETH" или "ALL"
	MinLeverage    *float64 `json:"minLeverage,omitempty"`
	MaxLeverage    *float64 `json:"maxLeverage,omitempty"`
	MinNotionalUsd *float64 `json:"minNotionalUsd,omitempty"`
	MaxNotionalUsd *float64 `json:"maxNotionalUsd,omitempty"`
}

// IsZero — true, если ни одно поле не заполнено (пустой override).
func (t RiskTemplate) IsZero() bool {
	return t.AllowedSymbols == "" &&
		t.MinLeverage == nil &&
		t.MaxLeverage == nil &&
		t.MinNotionalUsd == nil &&
		t.MaxNotionalUsd == nil
}

// RiskSet — то, что отдаёт бэкенд по GET /api/v1/vaults/{id}/risk.
type RiskSet struct {
	Base      RiskTemplate `json:"base"`
	Override  RiskTemplate `json:"override"`
	Effective RiskTemplate `json:"effective"`
}
