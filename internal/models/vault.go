package models

// VaultOnchain — снимок read-only параметров vault-контракта.
// nil-поле значит "не удалось прочитать": не ноль и не ошибка,
// UI в этом случае падает обратно на данные бэкенда.
type VaultOnchain struct {
	UnitNav     *float64 // ps() / 1e18
	TotalAssets *float64
	TotalSupply *float64
	PerfFeeBps  *int64
	LockDays    *int64 // lockMinSeconds() / 86400, целые дни
	IsPrivate   *bool

	Admin    *string
	Manager  *string
	Guardian *string
}

func F64Ptr(v float64) *float64 { return &v }
func I64Ptr(v int64) *int64     { return &v }
func BoolPtr(v bool) *bool      { return &v }
func StrPtr(v string) *string   { return &v }
