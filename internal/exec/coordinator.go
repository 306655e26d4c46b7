package exec

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/opentracing/opentracing-go"

	"vault_console/internal/models"
	"vault_console/internal/notify"
	"vault_console/internal/risk"
	"vault_console/pkg/logger"
)

// ErrBusy — предыдущий submit с этой же поверхности ещё в полёте.
// In-flight запрос не отменяем, просто не начинаем новый.
var ErrBusy = errors.New("exec: submission already in flight")

// HintBackendUnreachable — подсказка при транспортной ошибке.
const HintBackendUnreachable = "backend unreachable, check configuration"

// Backend — то, что координатору нужно от HTTP-клиента бэкенда.
type Backend interface {
	// Pretrade: read-only проверка. ok=false + rawReason — отказ политики,
	// err — транспорт/бэкенд недоступен.
	Pretrade(ctx context.Context, req models.OrderRequest) (ok bool, rawReason string, err error)
	// OpenOrder/CloseOrder возвращают сырое тело ответа для интерпретатора.
	OpenOrder(ctx context.Context, req models.OrderRequest) ([]byte, error)
	CloseOrder(ctx context.Context, req models.OrderRequest) ([]byte, error)
}

// Journal — локальный аудит попыток. Ошибки журнала не роняют submit.
type Journal interface {
	Record(ctx context.Context, req models.OrderRequest, out models.ExecutionOutcome) error
}

// Coordinator ведёт один submit от валидации до нотификации.
// Порядок жёсткий: локальная проверка -> pretrade -> submit -> interpret.
// Мутирующий вызов никогда не уходит раньше валидирующего.
type Coordinator struct {
	backend Backend
	n       notify.Notifier
	journal Journal // может быть nil

	busy atomic.Bool
}

func NewCoordinator(backend Backend, n notify.Notifier, journal Journal) *Coordinator {
	return &Coordinator{
		backend: backend,
		n:       n,
		journal: journal,
	}
}

// Submit выполняет одну попытку отправки ордера. Ровно одна нотификация
// на попытку. Возвращает ошибку только на транспортных сбоях; отказы
// политики и биржи — это нормальный исход, не ошибка.
func (c *Coordinator) Submit(ctx context.Context, req models.OrderRequest) (models.ExecutionOutcome, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return models.ExecutionOutcome{}, ErrBusy
	}
	defer c.busy.Store(false)

	span, ctx := opentracing.StartSpanFromContext(ctx, "exec.submit")
	defer span.Finish()
	span.SetTag("symbol", req.Symbol)
	span.SetTag("side", req.Side)

	// 1. Локальная проверка формы — без сети.
	if reason := validateLocal(req); reason != "" {
		out := models.ExecutionOutcome{
			Kind:      models.OutcomeInvalid,
			Reason:    models.ReasonUnknown,
			RawReason: reason,
			Message:   reason,
		}
		c.n.Sendf("❗️ %s %s: %s", req.Symbol, req.Side, reason)
		c.record(ctx, req, out)
		return out, nil
	}

	// 2. Pretrade. Отказ — терминальный для попытки, submit не зовём.
	ok, rawReason, err := c.backend.Pretrade(ctx, req)
	if err != nil {
		c.n.Sendf("❗️ %s %s: %s", req.Symbol, req.Side, HintBackendUnreachable)
		return models.ExecutionOutcome{}, fmt.Errorf("Coordinator.Submit pretrade: %w", err)
	}
	if !ok {
		reason, msg := risk.Classify(rawReason)
		out := models.ExecutionOutcome{
			Kind:      models.OutcomeRejected,
			Reason:    reason,
			RawReason: rawReason,
			Message:   msg,
		}
		c.n.Sendf("🚫 %s %s отклонён: %s", req.Symbol, req.Side, msg)
		c.record(ctx, req, out)
		return out, nil
	}

	// 3. Submit.
	var body []byte
	if req.Side == models.SideClose {
		body, err = c.backend.CloseOrder(ctx, req)
	} else {
		body, err = c.backend.OpenOrder(ctx, req)
	}
	if err != nil {
		c.n.Sendf("❗️ %s %s: %s", req.Symbol, req.Side, HintBackendUnreachable)
		return models.ExecutionOutcome{}, fmt.Errorf("Coordinator.Submit exec: %w", err)
	}

	// 4. Интерпретация ack.
	out := Interpret(body)
	c.notifyOutcome(req, out)
	c.record(ctx, req, out)
	return out, nil
}

func (c *Coordinator) notifyOutcome(req models.OrderRequest, out models.ExecutionOutcome) {
	switch out.Kind {
	case models.OutcomeAccepted:
		var b strings.Builder
		fmt.Fprintf(&b, "✅ %s %s %.4f принят", req.Symbol, req.Side, req.Size)
		if out.DryRun {
			b.WriteString(" (dry-run)")
		}
		if out.Attempts > 1 {
			// бэкенд сам ретраил против биржи; мы это только показываем
			fmt.Fprintf(&b, ", попыток: %d", out.Attempts)
		}
		c.n.Send(b.String())
	case models.OutcomeRejected:
		// вызов прошёл, отказала биржа — предупреждение, не жёсткий отказ
		c.n.Sendf("⚠️ %s %s: %s", req.Symbol, req.Side, out.Message)
	case models.OutcomeAmbiguous:
		c.n.Sendf("⚠️ %s %s: %s", req.Symbol, req.Side, out.Message)
	}
}

func (c *Coordinator) record(ctx context.Context, req models.OrderRequest, out models.ExecutionOutcome) {
	if c.journal == nil {
		return
	}
	if err := c.journal.Record(ctx, req, out); err != nil {
		logger.Error("journal record failed: %v", err)
	}
}

func validateLocal(req models.OrderRequest) string {
	if strings.TrimSpace(req.Symbol) == "" {
		return "empty symbol"
	}
	switch req.Side {
	case models.SideBuy, models.SideSell, models.SideClose:
	default:
		return fmt.Sprintf("invalid side %q", req.Side)
	}
	if req.Size <= 0 {
		return "size must be > 0"
	}
	if req.OrderType == models.OrderTypeLimit && req.LimitPrice <= 0 {
		return "limit order requires positive limit price"
	}
	return ""
}
