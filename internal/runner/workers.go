package runner

import (
	"context"
	"time"

	"vault_console/internal/models"
	"vault_console/pkg/logger"
)

// Источники срезаны до минимума, чтобы воркеры тестировались фейками.

type StatusSource interface {
	Status(ctx context.Context, vault string) (models.OperationalStatus, error)
}

type EventsSource interface {
	Events(ctx context.Context, vault string, limit int) ([]models.EventRecord, error)
}

type OnchainSource interface {
	Snapshot(ctx context.Context) models.VaultOnchain
}

// PollStatus опрашивает бэкенд по тикеру; первый опрос сразу при старте.
// Ошибка опроса логируется и запоминается, прошлый снимок не трогаем.
func PollStatus(ctx context.Context, src StatusSource, st *State, vault string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	poll := func() {
		s, err := src.Status(ctx, vault)
		if err != nil {
			logger.Error("runner status poll: %v", err)
			st.SetPollError(err)
			return
		}
		st.SetStatus(s)
	}

	poll() // сразу при старте
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}

// PollEvents держит свежий хвост ленты исполнения.
func PollEvents(ctx context.Context, src EventsSource, st *State, vault string, limit int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	poll := func() {
		evts, err := src.Events(ctx, vault, limit)
		if err != nil {
			logger.Error("runner events poll: %v", err)
			st.SetPollError(err)
			return
		}
		st.SetEvents(evts)
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}

// PollOnchain читает контракт реже остальных — RPC дороже бэкенда.
// Пустой снимок (узел целиком недоступен) прошлое значение не затирает.
func PollOnchain(ctx context.Context, src OnchainSource, st *State, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	poll := func() {
		snap := src.Snapshot(ctx)
		if emptySnapshot(snap) {
			return
		}
		st.SetOnchain(snap)
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		}
	}
}

func emptySnapshot(v models.VaultOnchain) bool {
	return v.UnitNav == nil && v.TotalAssets == nil && v.TotalSupply == nil &&
		v.PerfFeeBps == nil && v.LockDays == nil && v.IsPrivate == nil &&
		v.Admin == nil && v.Manager == nil && v.Guardian == nil
}
