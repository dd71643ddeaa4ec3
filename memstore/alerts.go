// Package memstore provides in-memory implementations of the epidemic store
// contracts. They back local development without Firestore credentials and
// the test suites.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-cropwatch/epidemic"
	"go-cropwatch/types"
)

type AlertStore struct {
	mu   sync.RWMutex
	byID map[string]types.Alert
	// insertion order, so FindActive has a stable notion of "first"
	order []string
}

func NewAlertStore() *AlertStore {
	return &AlertStore{byID: make(map[string]types.Alert)}
}

func (s *AlertStore) FindActive(ctx context.Context, disease, province string) (types.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		a := s.byID[id]
		if a.Status == types.Active && a.Disease == disease && a.Province == province {
			return a, nil
		}
	}
	return types.Alert{}, epidemic.ErrAlertNotFound
}

func (s *AlertStore) Create(ctx context.Context, alert types.Alert) (types.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert.ID = uuid.NewString()
	alert.CreatedAt = time.Now().UTC()
	s.byID[alert.ID] = alert
	s.order = append(s.order, alert.ID)
	return alert, nil
}

func (s *AlertStore) Update(ctx context.Context, alertID string, upd epidemic.AlertUpdate) (types.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[alertID]
	if !ok {
		return types.Alert{}, epidemic.ErrAlertNotFound
	}

	a.CaseCount = upd.CaseCount
	a.RadiusKM = upd.RadiusKM
	a.CenterLat = upd.CenterLat
	a.CenterLon = upd.CenterLon
	a.Severity = upd.Severity
	a.Message = upd.Message
	s.byID[alertID] = a
	return a, nil
}

func (s *AlertStore) ListActive(ctx context.Context, f types.AlertFilter) ([]types.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Alert, 0)
	for _, id := range s.order {
		a := s.byID[id]
		if a.Status != types.Active {
			continue
		}
		if f.Disease != "" && a.Disease != f.Disease {
			continue
		}
		if f.Province != "" && a.Province != f.Province {
			continue
		}
		if f.District != "" && a.District != f.District {
			continue
		}
		out = append(out, a)
	}

	// Newest first, matching the Firestore query ordering.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *AlertStore) Resolve(ctx context.Context, alertID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[alertID]
	if !ok {
		return epidemic.ErrAlertNotFound
	}

	now := time.Now().UTC()
	a.Status = types.Resolved
	a.ResolvedAt = &now
	s.byID[alertID] = a
	return nil
}
