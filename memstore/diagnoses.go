package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-cropwatch/epidemic"
	"go-cropwatch/types"
)

type DiagnosisStore struct {
	mu     sync.RWMutex
	points []types.DiagnosisPoint
}

func NewDiagnosisStore() *DiagnosisStore {
	return &DiagnosisStore{}
}

func (s *DiagnosisStore) SaveDiagnosis(ctx context.Context, p types.DiagnosisPoint) (types.DiagnosisPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.points = append(s.points, p)
	return p, nil
}

func (s *DiagnosisStore) RecentCases(ctx context.Context, disease, province string, since time.Time, minConfidence float64) ([]types.DiagnosisPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.DiagnosisPoint, 0)
	for _, p := range s.points {
		if p.Disease != disease || p.Province != province {
			continue
		}
		if p.CreatedAt.Before(since) {
			continue
		}
		if p.Confidence < minConfidence || !p.HasCoordinates() {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *DiagnosisStore) RecentDiseaseRegions(ctx context.Context, since time.Time) ([]types.DiseaseRegion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[types.DiseaseRegion]bool)
	out := make([]types.DiseaseRegion, 0)
	for _, p := range s.points {
		if p.Disease == "" || p.Province == "" || p.CreatedAt.Before(since) {
			continue
		}
		pair := types.DiseaseRegion{Disease: p.Disease, Province: p.Province}
		if !seen[pair] {
			seen[pair] = true
			out = append(out, pair)
		}
	}
	return out, nil
}

func (s *DiagnosisStore) Heatmap(ctx context.Context, f types.HeatmapFilter) ([]types.HeatmapPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	days := f.Days
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	out := make([]types.HeatmapPoint, 0)
	for _, p := range s.points {
		if p.CreatedAt.Before(since) || !p.HasCoordinates() || p.Confidence < epidemic.MinConfidence {
			continue
		}
		if f.Disease != "" && p.Disease != f.Disease {
			continue
		}
		if f.Province != "" && p.Province != f.Province {
			continue
		}

		severity := p.Severity
		if severity == "" {
			severity = "unknown"
		}
		out = append(out, types.HeatmapPoint{
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			CaseCount: 1,
			Severity:  severity,
			Date:      p.CreatedAt.Format("2006-01-02"),
			Disease:   p.Disease,
		})
	}
	return out, nil
}
