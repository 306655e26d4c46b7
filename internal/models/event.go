package models

const (
	EventStatusAck      = "ack"
	EventStatusDryRun   = "dry_run"
	EventStatusRejected = "rejected"
)

// EventRecord — одно событие исполнения из ленты бэкенда.
// Записи неизменяемы, бэкенд отдаёт их отсортированными по ts (новые сверху).
type EventRecord struct {
	Type   string  `json:"type"`
	Status string  `json:"status,omitempty"` // ack | dry_run | rejected
	Symbol string  `json:"symbol,omitempty"`
	Side   string  `json:"side,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Error  string  `json:"error,omitempty"`
	TS     int64   `json:"ts"` // unix seconds
}
