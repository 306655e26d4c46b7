package exec

import (
	"encoding/json"
	"strings"

	"github.com/bytedance/sonic"

	"vault_console/internal/models"
	"vault_console/internal/risk"
)

// Тексты для пользователя по категориям ack-отказов.
const (
	MsgPriceBandRejected = "Price too far from oracle"
	MsgNoPositionToClose = "No position to close"
	MsgVenueRejected     = "Venue rejected order"
	MsgAmbiguousOutcome  = "Order outcome unclear, check events feed"
)

// execEnvelope — ответ бэкенда на exec/open и exec/close. Ack биржи может
// лежать в payload.ack, на верхнем уровне, или тело целиком может быть строкой.
type execEnvelope struct {
	OK       *bool           `json:"ok"`
	DryRun   bool            `json:"dry_run"`
	Attempts int             `json:"attempts"`
	Error    string          `json:"error"`
	Ack      json.RawMessage `json:"ack"`
	Payload  struct {
		Ack json.RawMessage `json:"ack"`
	} `json:"payload"`
}

// Interpret разбирает тело ответа submit в нормализованный исход.
// Порядок проверок фиксирован: известные фразы отказа -> ok:true -> Ambiguous.
// Ambiguous никогда не схлопывается в успех, наверх он уходит предупреждением.
func Interpret(body []byte) models.ExecutionOutcome {
	out := models.ExecutionOutcome{RawPayload: string(body)}

	var env execEnvelope
	ackText := ""
	if err := sonic.Unmarshal(body, &env); err != nil {
		// не объект: либо JSON-строка, либо сырой текст
		var s string
		if e := sonic.Unmarshal(body, &s); e == nil {
			ackText = s
		} else {
			ackText = strings.TrimSpace(string(body))
		}
	} else {
		ackText = rawToText(env.Payload.Ack)
		if ackText == "" {
			ackText = rawToText(env.Ack)
		}
	}
	out.DryRun = env.DryRun
	out.Attempts = env.Attempts

	scan := ackText
	if scan == "" {
		scan = env.Error
	}
	t := strings.ToLower(scan)

	switch {
	case strings.Contains(t, "minimum value"):
		out.Kind = models.OutcomeRejected
		out.Reason = models.ReasonNotionalBelowMinimum
		out.Message = risk.MsgNotionalBelowMinimum
		out.RawReason = scan
	case strings.Contains(t, "too far from oracle"):
		out.Kind = models.OutcomeRejected
		out.Reason = models.ReasonPriceBandRejected
		out.Message = MsgPriceBandRejected
		out.RawReason = scan
	case strings.Contains(t, "no position"):
		out.Kind = models.OutcomeRejected
		out.Reason = models.ReasonNoPositionToClose
		out.Message = MsgNoPositionToClose
		out.RawReason = scan
	case strings.Contains(t, "error"):
		out.Kind = models.OutcomeRejected
		out.Reason = models.ReasonVenueRejected
		out.Message = MsgVenueRejected
		out.RawReason = scan
	case env.OK != nil && *env.OK:
		out.Kind = models.OutcomeAccepted
	default:
		// вызов прошёл, но исход не классифицируется
		out.Kind = models.OutcomeAmbiguous
		out.Message = MsgAmbiguousOutcome
	}
	return out
}

func rawToText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := sonic.Unmarshal(raw, &s); err == nil {
		return s
	}
	// объект или число — отдаём как есть, сканер пройдётся по JSON-тексту
	return string(raw)
}
