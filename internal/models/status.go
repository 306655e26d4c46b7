package models

// StatusFlags — фича-флаги бэкенда, приходят с GET /api/v1/status.
type StatusFlags struct {
	EnableSDK            bool   `json:"enable_sdk"`
	EnableLiveExec       bool   `json:"enable_live_exec"`
	EnableUserWS         bool   `json:"enable_user_ws"`
	EnableSnapshotDaemon bool   `json:"enable_snapshot_daemon"`
	Address              string `json:"address,omitempty"`

	// Подсказки риска — те же границы, что применит pretrade.
	AllowedSymbols     string   `json:"allowed_symbols,omitempty"`
	ExecMinLeverage    *float64 `json:"exec_min_leverage,omitempty"`
	ExecMaxLeverage    *float64 `json:"exec_max_leverage,omitempty"`
	ExecMinNotionalUsd *float64 `json:"exec_min_notional_usd,omitempty"`
	ExecMaxNotionalUsd *float64 `json:"exec_max_notional_usd,omitempty"`
}

type NetworkInfo struct {
	RPC     string `json:"rpc,omitempty"`
	ChainID int64  `json:"chainId"`
	Block   int64  `json:"block"`
}

type RuntimeState struct {
	Listener string `json:"listener,omitempty"` // running | idle | ...
	Snapshot string `json:"snapshot,omitempty"`
}

// OperationalStatus — агрегированное состояние бэкенда.
// Обновляется целиком на каждом опросе, частичных мержей нет.
type OperationalStatus struct {
	Flags   StatusFlags  `json:"flags"`
	Network NetworkInfo  `json:"network"`
	State   RuntimeState `json:"state"`
}

// Mode — "live" либо "dry_run", производное от флага.
func (s OperationalStatus) Mode() string {
	if s.Flags.EnableLiveExec {
		return "live"
	}
	return "dry_run"
}
