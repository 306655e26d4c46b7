package risk

import (
	"strings"

	"vault_console/internal/models"
)

// Тексты категорий для пользователя. Стабильный контракт UI,
// менять вместе с тестами.
const (
	MsgVenueNotAllowed      = "Venue not allowed"
	MsgSymbolNotAllowed     = "Symbol not in allowlist"
	MsgLeverageOutOfBounds  = "Leverage out of bounds"
	MsgNotionalBelowMinimum = "Notional below minimum ($10)"
	MsgNotionalExceedsLimit = "Size exceeds risk limit"
	MsgInvalidSide          = "Invalid side"
	MsgPretradeFailed       = "Pretrade check failed"
)

// Classify приводит сырой текст отказа pretrade к одной из закрытых
// категорий. Подстрочный матчинг без регистра, первый матч побеждает.
// Порядок фиксирован: venue -> symbol -> minimum -> leverage ->
// size/notional -> side. Сырые сообщения могут содержать несколько
// подходящих подстрок ("leverage" внутри сообщения о минимуме),
// поэтому порядок менять нельзя.
func Classify(raw string) (models.RejectReason, string) {
	if strings.TrimSpace(raw) == "" {
		return models.ReasonUnknown, MsgPretradeFailed
	}
	t := strings.ToLower(raw)

	switch {
	case strings.Contains(t, "venue") && !strings.Contains(t, "symbol"):
		return models.ReasonVenueNotAllowed, MsgVenueNotAllowed
	case strings.Contains(t, "symbol") && strings.Contains(t, "not allowed"):
		return models.ReasonSymbolNotAllowed, MsgSymbolNotAllowed
	case strings.Contains(t, "below minimum") || strings.Contains(t, "minimum value"):
		return models.ReasonNotionalBelowMinimum, MsgNotionalBelowMinimum
	case strings.Contains(t, "leverage"):
		return models.ReasonLeverageOutOfBounds, MsgLeverageOutOfBounds
	case strings.Contains(t, "size") || strings.Contains(t, "notional"):
		return models.ReasonNotionalExceedsLimit, MsgNotionalExceedsLimit
	case strings.Contains(t, "side"):
		return models.ReasonInvalidSide, MsgInvalidSide
	default:
		// незнакомый текст отдаём как есть, не роняемся
		return models.ReasonUnknown, raw
	}
}
