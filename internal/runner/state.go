package runner

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"vault_console/internal/models"
)

// State — last-known-good снимки бэкенда и контракта.
// Каждый воркер пишет свой срез целиком; неудачный опрос ничего
// не затирает, потребители продолжают видеть прошлое значение.
type State struct {
	mu sync.RWMutex

	status   *models.OperationalStatus
	statusAt time.Time

	events   []models.EventRecord
	eventsAt time.Time

	onchain   *models.VaultOnchain
	onchainAt time.Time

	lastErr string // последняя ошибка опроса, пустая после успеха

	closed    atomic.Bool
	startedAt time.Time
}

func NewState() *State {
	return &State{startedAt: time.Now()}
}

// Close останавливает приём обновлений. Коммиты воркеров,
// догнавшие закрытие, молча отбрасываются.
func (s *State) Close() { s.closed.Store(true) }

func (s *State) Closed() bool { return s.closed.Load() }

func (s *State) SetStatus(v models.OperationalStatus) {
	if s.closed.Load() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = &v
	s.statusAt = time.Now()
	s.lastErr = ""
}

// Status: nil — бэкенд ещё ни разу не отвечал.
func (s *State) Status() (*models.OperationalStatus, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.statusAt
}

func (s *State) SetEvents(v []models.EventRecord) {
	if s.closed.Load() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = v
	s.eventsAt = time.Now()
}

// PrependEvent вставляет живое событие из WS в голову списка.
// Следующий опрос всё равно заменит список целиком, это лишь
// уменьшает лаг между исполнением и лентой.
func (s *State) PrependEvent(e models.EventRecord, max int) {
	if s.closed.Load() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append([]models.EventRecord{e}, s.events...)
	if max > 0 && len(s.events) > max {
		s.events = s.events[:max]
	}
	s.eventsAt = time.Now()
}

func (s *State) Events() ([]models.EventRecord, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events, s.eventsAt
}

func (s *State) SetOnchain(v models.VaultOnchain) {
	if s.closed.Load() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onchain = &v
	s.onchainAt = time.Now()
}

func (s *State) Onchain() (*models.VaultOnchain, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.onchain, s.onchainAt
}

// SetPollError запоминает ошибку, не трогая снимки.
func (s *State) SetPollError(err error) {
	if s.closed.Load() || err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err.Error()
}

func (s *State) PollError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }

// StatusLine — однострочная сводка для /status в телеграме.
func (s *State) StatusLine() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.status == nil {
		return ""
	}

	parts := []string{
		"режим: " + s.status.Mode(),
	}
	if s.status.State.Listener != "" {
		parts = append(parts, "listener: "+s.status.State.Listener)
	}
	if s.status.Network.Block > 0 {
		parts = append(parts, fmt.Sprintf("block: %d", s.status.Network.Block))
	}
	if s.onchain != nil && s.onchain.UnitNav != nil {
		parts = append(parts, fmt.Sprintf("nav: %.4f", *s.onchain.UnitNav))
	}
	parts = append(parts, fmt.Sprintf("events: %d", len(s.events)))
	parts = append(parts, fmt.Sprintf("опрос: %s назад", time.Since(s.statusAt).Round(time.Second)))
	if s.lastErr != "" {
		parts = append(parts, "⚠️ "+s.lastErr)
	}
	return strings.Join(parts, " | ")
}
