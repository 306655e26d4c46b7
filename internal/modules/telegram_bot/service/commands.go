package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"vault_console/internal/models"
	"vault_console/internal/modules/config"
	"vault_console/pkg/logger"
)

// Submitter — координатор ордеров; интерфейсом, чтобы роутер
// тестировался без сети.
type Submitter interface {
	Submit(ctx context.Context, req models.OrderRequest) (models.ExecutionOutcome, error)
}

// RiskAPI — операции риск-шаблона на бэкенде.
type RiskAPI interface {
	GetRisk(ctx context.Context, vaultID string) (models.RiskSet, error)
	SaveRisk(ctx context.Context, vaultID string, override models.RiskTemplate) (models.RiskSet, error)
	ClearRisk(ctx context.Context, vaultID string) (models.RiskSet, error)
}

// VaultAdmin — management-вызовы в контракт. Каждый из них сам
// спрашивает подтверждение кнопками.
type VaultAdmin interface {
	Pause(ctx context.Context) (string, error)
	Unpause(ctx context.Context) (string, error)
	SetPerformanceFee(ctx context.Context, bps uint64) (string, error)
	SetLockMinDays(ctx context.Context, days uint64) (string, error)
	SetWhitelist(ctx context.Context, addr string, allowed bool) (string, error)
	SetAdapter(ctx context.Context, adapter string, allowed bool) (string, error)
	AdapterAllowed(ctx context.Context, adapter string) (bool, error)
}

// JournalReader — хвост локального журнала исполнения.
type JournalReader interface {
	Recent(ctx context.Context, vault string, limit int) ([]Entry, error)
}

// Entry дублирует journal.Entry в полях, нужных для выдачи.
type Entry struct {
	Symbol  string
	Side    string
	Size    float64
	Outcome string
	Reason  string
	DryRun  bool
}

// Commands — операторские команды чата. Ордеры идут через тот же
// координатор, что и любой другой вход: никаких обходных путей
// мимо pretrade.
type Commands struct {
	cfg     *config.Config
	sub     Submitter
	riskAPI RiskAPI
	admin   VaultAdmin
	journal JournalReader
}

func NewCommands(cfg *config.Config, sub Submitter, riskAPI RiskAPI, admin VaultAdmin, journal JournalReader) *Commands {
	return &Commands{cfg: cfg, sub: sub, riskAPI: riskAPI, admin: admin, journal: journal}
}

func (c *Commands) HandleCommand(ctx context.Context, cmd, args string) string {
	fields := strings.Fields(args)
	switch cmd {
	case "help":
		return helpText
	case "open":
		return c.handleOpen(ctx, fields)
	case "close":
		return c.handleClose(ctx, fields)
	case "risk":
		return c.handleRisk(ctx, fields)
	case "riskset":
		return c.handleRiskSet(ctx, fields)
	case "whitelist":
		return c.handleToggle(ctx, fields, c.admin.SetWhitelist)
	case "adapter":
		return c.handleAdapter(ctx, fields)
	case "journal":
		return c.handleJournal(ctx)
	case "pause":
		return c.handleAdmin(ctx, func() (string, error) { return c.admin.Pause(ctx) })
	case "unpause":
		return c.handleAdmin(ctx, func() (string, error) { return c.admin.Unpause(ctx) })
	case "setfee":
		return c.handleSetUint(ctx, fields, "бпс", c.admin.SetPerformanceFee)
	case "setlock":
		return c.handleSetUint(ctx, fields, "дней", c.admin.SetLockMinDays)
	default:
		return "" // незнакомые команды молча игнорируем
	}
}

const helpText = `Команды:
/status — состояние бэкенда и vault
/open buy|sell SYMBOL SIZE [LEVERAGE] — открыть позицию
/close SYMBOL SIZE — закрыть позицию
/risk [clear] — риск-шаблон vault
/riskset k=v ... — оверрайд (symbols, minlev, maxlev, minusd, maxusd)
/journal — последние попытки исполнения
/pause /unpause — остановка vault (с подтверждением)
/setfee BPS — performance fee
/setlock DAYS — лок вывода
/whitelist ADDR on|off — допуск инвестора
/adapter ADDR [on|off] — допуск/проверка адаптера`

// /open buy BTC 100 3
func (c *Commands) handleOpen(ctx context.Context, fields []string) string {
	if len(fields) < 3 {
		return "Формат: /open buy|sell SYMBOL SIZE [LEVERAGE]"
	}

	side := strings.ToLower(fields[0])
	if side != models.SideBuy && side != models.SideSell {
		return "Сторона: buy или sell"
	}

	size, err := strconv.ParseFloat(fields[2], 64)
	if err != nil || size <= 0 {
		return "Размер должен быть положительным числом"
	}

	req := models.OrderRequest{
		Vault:     c.cfg.Ledger.VaultAddress,
		Venue:     c.cfg.DefaultVenue,
		Symbol:    strings.ToUpper(fields[1]),
		Side:      side,
		Size:      size,
		OrderType: models.OrderTypeMarket,
	}
	if len(fields) > 3 {
		lev, err := strconv.ParseFloat(fields[3], 64)
		if err != nil || lev <= 0 {
			return "Плечо должно быть положительным числом"
		}
		req.Leverage = lev
	}

	// исход придёт нотификацией от координатора, здесь не дублируем
	if _, err := c.sub.Submit(ctx, req); err != nil {
		logger.Error("telegram open: %v", err)
	}
	return ""
}

// /close BTC 50
func (c *Commands) handleClose(ctx context.Context, fields []string) string {
	if len(fields) < 2 {
		return "Формат: /close SYMBOL SIZE"
	}

	size, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || size <= 0 {
		return "Размер должен быть положительным числом"
	}

	req := models.OrderRequest{
		Vault:      c.cfg.Ledger.VaultAddress,
		Venue:      c.cfg.DefaultVenue,
		Symbol:     strings.ToUpper(fields[0]),
		Side:       models.SideClose,
		Size:       size,
		ReduceOnly: true,
		OrderType:  models.OrderTypeMarket,
	}

	if _, err := c.sub.Submit(ctx, req); err != nil {
		logger.Error("telegram close: %v", err)
	}
	return ""
}

func (c *Commands) handleRisk(ctx context.Context, fields []string) string {
	vault := c.cfg.Ledger.VaultAddress

	if len(fields) > 0 && fields[0] == "clear" {
		set, err := c.riskAPI.ClearRisk(ctx, vault)
		if err != nil {
			return "⚠️ Не удалось сбросить оверрайд: " + err.Error()
		}
		return "🧹 Оверрайд сброшен\n" + formatRiskSet(set)
	}

	set, err := c.riskAPI.GetRisk(ctx, vault)
	if err != nil {
		return "⚠️ Не удалось получить риск-шаблон: " + err.Error()
	}
	return formatRiskSet(set)
}

// /riskset symbols=BTC,ETH maxlev=10 minusd=10
func (c *Commands) handleRiskSet(ctx context.Context, fields []string) string {
	if len(fields) == 0 {
		return "Формат: /riskset symbols=BTC,ETH minlev=1 maxlev=10 minusd=10 maxusd=100000"
	}

	var override models.RiskTemplate
	for _, f := range fields {
		key, val, ok := strings.Cut(f, "=")
		if !ok {
			return "Каждый параметр в виде key=value, непонятно: " + f
		}
		switch strings.ToLower(key) {
		case "symbols":
			override.AllowedSymbols = val
		case "minlev", "maxlev", "minusd", "maxusd":
			num, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return "Число не разобрано: " + f
			}
			switch strings.ToLower(key) {
			case "minlev":
				override.MinLeverage = models.F64Ptr(num)
			case "maxlev":
				override.MaxLeverage = models.F64Ptr(num)
			case "minusd":
				override.MinNotionalUsd = models.F64Ptr(num)
			case "maxusd":
				override.MaxNotionalUsd = models.F64Ptr(num)
			}
		default:
			return "Неизвестный параметр: " + key
		}
	}

	set, err := c.riskAPI.SaveRisk(ctx, c.cfg.Ledger.VaultAddress, override)
	if err != nil {
		return "⚠️ Не удалось сохранить оверрайд: " + err.Error()
	}
	return "💾 Оверрайд сохранён\n" + formatRiskSet(set)
}

// /whitelist 0x... on|off
func (c *Commands) handleToggle(ctx context.Context, fields []string, call func(context.Context, string, bool) (string, error)) string {
	if len(fields) < 2 {
		return "Формат: ADDR on|off"
	}
	allowed, err := parseOnOff(fields[1])
	if err != nil {
		return err.Error()
	}
	txHash, err := call(ctx, fields[0], allowed)
	if err != nil {
		return "⚠️ " + err.Error()
	}
	return "⛓ tx: " + txHash
}

// /adapter 0x... — проверка; /adapter 0x... on|off — переключение
func (c *Commands) handleAdapter(ctx context.Context, fields []string) string {
	if len(fields) == 0 {
		return "Формат: /adapter ADDR [on|off]"
	}
	if len(fields) == 1 {
		ok, err := c.admin.AdapterAllowed(ctx, fields[0])
		if err != nil {
			return "⚠️ " + err.Error()
		}
		if ok {
			return "✅ Адаптер разрешён"
		}
		return "🚫 Адаптер не разрешён"
	}
	return c.handleToggle(ctx, fields, c.admin.SetAdapter)
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("ожидается on или off, пришло %q", s)
	}
}

func (c *Commands) handleJournal(ctx context.Context) string {
	entries, err := c.journal.Recent(ctx, c.cfg.Ledger.VaultAddress, 10)
	if err != nil {
		return "⚠️ Журнал недоступен: " + err.Error()
	}
	if len(entries) == 0 {
		return "📭 Журнал пуст"
	}

	var b strings.Builder
	b.WriteString("📒 Последние попытки:\n")
	for _, e := range entries {
		mark := "•"
		if e.DryRun {
			mark = "◦"
		}
		fmt.Fprintf(&b, "%s %s %s %.4g — %s", mark, e.Side, e.Symbol, e.Size, e.Outcome)
		if e.Reason != "" {
			b.WriteString(" (" + e.Reason + ")")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (c *Commands) handleAdmin(ctx context.Context, call func() (string, error)) string {
	txHash, err := call()
	if err != nil {
		return "⚠️ " + err.Error()
	}
	return "⛓ tx: " + txHash
}

func (c *Commands) handleSetUint(ctx context.Context, fields []string, unit string, call func(context.Context, uint64) (string, error)) string {
	if len(fields) < 1 {
		return "Нужно значение (" + unit + ")"
	}
	v, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return "Значение должно быть целым числом (" + unit + ")"
	}
	txHash, err := call(ctx, v)
	if err != nil {
		return "⚠️ " + err.Error()
	}
	return "⛓ tx: " + txHash
}

func formatRiskSet(set models.RiskSet) string {
	var b strings.Builder
	b.WriteString("🛡 Риск-шаблон\n")
	b.WriteString("base: " + formatTemplate(set.Base) + "\n")
	if set.Override.IsZero() {
		b.WriteString("override: нет\n")
	} else {
		b.WriteString("override: " + formatTemplate(set.Override) + "\n")
	}
	b.WriteString("effective: " + formatTemplate(set.Effective))
	return b.String()
}

func formatTemplate(t models.RiskTemplate) string {
	parts := make([]string, 0, 4)
	if t.AllowedSymbols != "" {
		parts = append(parts, "symbols="+t.AllowedSymbols)
	}
	if t.MinLeverage != nil || t.MaxLeverage != nil {
		parts = append(parts, "lev="+boundStr(t.MinLeverage, t.MaxLeverage))
	}
	if t.MinNotionalUsd != nil || t.MaxNotionalUsd != nil {
		parts = append(parts, "notional="+boundStr(t.MinNotionalUsd, t.MaxNotionalUsd))
	}
	if len(parts) == 0 {
		return "пусто"
	}
	return strings.Join(parts, ", ")
}

func boundStr(min, max *float64) string {
	low, high := "—", "—"
	if min != nil {
		low = strconv.FormatFloat(*min, 'g', -1, 64)
	}
	if max != nil {
		high = strconv.FormatFloat(*max, 'g', -1, 64)
	}
	return low + ".." + high
}
