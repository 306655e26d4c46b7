package models

const (
	SideBuy   = "buy"
	SideSell  = "sell"
	SideClose = "close"

	OrderTypeMarket = "market"
	OrderTypeLimit  = "limit"

	TimeInForceGTC = "GTC"
	TimeInForceIOC = "IOC"
	TimeInForceFOK = "FOK"
)

// OrderRequest — параметры ордера, собранные из пользовательского ввода.
// Размеры и цены держим во float64 — точности бэкенда нам достаточно,
// деньги мы здесь не считаем.
type OrderRequest struct {
	Vault  string
	Venue  string
	Symbol string
	Side   string // buy | sell | close
	Size   float64

	Leverage   float64 // 0 — не задано
	ReduceOnly bool

	OrderType  string // market | limit
	LimitPrice float64
	TimeInForce string // GTC | IOC | FOK, пусто — дефолт бэкенда

	StopLoss   float64
	TakeProfit float64
}
