package risk

import (
	"errors"
	"strings"

	"vault_console/internal/models"
)

// ErrNoBase — базовый шаблон не пришёл с бэкенда. Это недоступность
// бэкенда, а не ошибка валидации, и наверх уходит именно так.
var ErrNoBase = errors.New("risk: base template unavailable")

// NormalizeSymbols приводит список к каноническому виду: "btc, eth ," -> "BTC,ETH".
// Сравнивать и сохранять можно только нормализованную строку.
func NormalizeSymbols(s string) string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}

// Resolve накладывает override на base пополево: заданное поле override
// побеждает, отсутствующее наследуется. Чистая функция, effective нигде
// не хранится — только пересчитывается.
func Resolve(base *models.RiskTemplate, override models.RiskTemplate) (models.RiskTemplate, error) {
	if base == nil {
		return models.RiskTemplate{}, ErrNoBase
	}

	eff := models.RiskTemplate{
		AllowedSymbols: NormalizeSymbols(base.AllowedSymbols),
		MinLeverage:    base.MinLeverage,
		MaxLeverage:    base.MaxLeverage,
		MinNotionalUsd: base.MinNotionalUsd,
		MaxNotionalUsd: base.MaxNotionalUsd,
	}

	if s := NormalizeSymbols(override.AllowedSymbols); s != "" {
		eff.AllowedSymbols = s
	}
	if override.MinLeverage != nil {
		eff.MinLeverage = override.MinLeverage
	}
	if override.MaxLeverage != nil {
		eff.MaxLeverage = override.MaxLeverage
	}
	if override.MinNotionalUsd != nil {
		eff.MinNotionalUsd = override.MinNotionalUsd
	}
	if override.MaxNotionalUsd != nil {
		eff.MaxNotionalUsd = override.MaxNotionalUsd
	}
	return eff, nil
}
