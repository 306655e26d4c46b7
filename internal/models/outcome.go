package models

// OutcomeKind — итог одной попытки отправки ордера.
type OutcomeKind int

const (
	OutcomeAccepted OutcomeKind = iota
	OutcomeRejected
	OutcomeAmbiguous
	OutcomeInvalid // локальная валидация, сетевого вызова не было
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	case OutcomeAmbiguous:
		return "ambiguous"
	case OutcomeInvalid:
		return "invalid"
	}
	return "unknown"
}

// RejectReason — закрытый набор категорий отказов для UI.
// Сырые тексты бэкенда/биржи сюда приводит классификатор.
type RejectReason string

const (
	ReasonVenueNotAllowed      RejectReason = "VenueNotAllowed"
	ReasonSymbolNotAllowed     RejectReason = "SymbolNotAllowed"
	ReasonLeverageOutOfBounds  RejectReason = "LeverageOutOfBounds"
	ReasonNotionalBelowMinimum RejectReason = "NotionalBelowMinimum"
	ReasonNotionalExceedsLimit RejectReason = "NotionalExceedsLimit"
	ReasonInvalidSide          RejectReason = "InvalidSide"
	ReasonPriceBandRejected    RejectReason = "PriceBandRejected"
	ReasonNoPositionToClose    RejectReason = "NoPositionToClose"
	ReasonVenueRejected        RejectReason = "VenueRejected"
	ReasonUnknown              RejectReason = "Unknown"
)

// ExecutionOutcome — нормализованный результат submit.
type ExecutionOutcome struct {
	Kind   OutcomeKind
	Reason RejectReason // для Rejected/Invalid
	// RawReason — исходный текст отказа, как его прислал бэкенд или биржа.
	RawReason string
	// Message — категория, переведённая в текст для пользователя.
	Message string

	TxRef    string // ссылка на подтверждение, если бэкенд её вернул
	DryRun   bool
	Attempts int // сколько попыток сделал бэкенд против биржи (информационно)

	// RawPayload — тело ответа как есть, для Ambiguous и отладки.
	RawPayload string
}
