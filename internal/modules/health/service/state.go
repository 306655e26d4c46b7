package service

import (
	"sync/atomic"
	"time"
)

// State — кусочек здоровья, который не живёт в снимках опроса:
// WS-соединение и аптайм процесса. Остальное health-срез берёт
// напрямую из last-known-good состояния.
type State struct {
	wsConnected atomic.Bool
	startedAt   time.Time
}

func NewState() *State {
	return &State{startedAt: time.Now()}
}

func (s *State) SetWSConnected(v bool) { s.wsConnected.Store(v) }
func (s *State) WSConnected() bool     { return s.wsConnected.Load() }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
