package db

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"go-cropwatch/epidemic"
	"go-cropwatch/types"
)

const diagnosesCollection = "diagnoses"

// DiagnosisStore is the Firestore-backed point source. Firestore allows
// range filters on a single field only, so queries range on createdAt and
// the confidence/coordinate filters are applied in memory. The candidate
// sets are bounded by the lookback window, tens to low hundreds of points.
type DiagnosisStore struct {
	Client *firestore.Client
}

func NewDiagnosisStore(client *firestore.Client) *DiagnosisStore {
	return &DiagnosisStore{Client: client}
}

func (s *DiagnosisStore) SaveDiagnosis(ctx context.Context, p types.DiagnosisPoint) (types.DiagnosisPoint, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := s.Client.Collection(diagnosesCollection).Doc(p.ID).Set(ctx, p)
	if err != nil {
		return types.DiagnosisPoint{}, fmt.Errorf("saving diagnosis: %w", err)
	}
	return p, nil
}

func (s *DiagnosisStore) RecentCases(ctx context.Context, disease, province string, since time.Time, minConfidence float64) ([]types.DiagnosisPoint, error) {
	iter := s.Client.Collection(diagnosesCollection).
		Where("diseaseDetected", "==", disease).
		Where("province", "==", province).
		Where("createdAt", ">=", since).
		Documents(ctx)
	defer iter.Stop()

	var points []types.DiagnosisPoint
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating diagnoses collection: %w", err)
		}

		var p types.DiagnosisPoint
		if err := doc.DataTo(&p); err != nil {
			return nil, fmt.Errorf("error converting document %s to DiagnosisPoint: %w", doc.Ref.ID, err)
		}
		p.ID = doc.Ref.ID

		if p.Confidence < minConfidence || !p.HasCoordinates() {
			continue
		}
		points = append(points, p)
	}
	return points, nil
}

func (s *DiagnosisStore) RecentDiseaseRegions(ctx context.Context, since time.Time) ([]types.DiseaseRegion, error) {
	iter := s.Client.Collection(diagnosesCollection).
		Where("createdAt", ">=", since).
		Documents(ctx)
	defer iter.Stop()

	seen := make(map[types.DiseaseRegion]bool)
	var pairs []types.DiseaseRegion
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating diagnoses collection: %w", err)
		}

		var p types.DiagnosisPoint
		if err := doc.DataTo(&p); err != nil {
			continue
		}
		if p.Disease == "" || p.Province == "" {
			continue
		}

		pair := types.DiseaseRegion{Disease: p.Disease, Province: p.Province}
		if !seen[pair] {
			seen[pair] = true
			pairs = append(pairs, pair)
		}
	}
	return pairs, nil
}

// Heatmap builds the map projection straight from the confidence-filtered
// diagnosis points. No clustering involved.
func (s *DiagnosisStore) Heatmap(ctx context.Context, f types.HeatmapFilter) ([]types.HeatmapPoint, error) {
	days := f.Days
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	q := s.Client.Collection(diagnosesCollection).Where("createdAt", ">=", since)
	if f.Disease != "" {
		q = q.Where("diseaseDetected", "==", f.Disease)
	}
	if f.Province != "" {
		q = q.Where("province", "==", f.Province)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	points := make([]types.HeatmapPoint, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating diagnoses collection: %w", err)
		}

		var p types.DiagnosisPoint
		if err := doc.DataTo(&p); err != nil {
			continue
		}
		if !p.HasCoordinates() || p.Confidence < epidemic.MinConfidence {
			continue
		}

		severity := p.Severity
		if severity == "" {
			severity = "unknown"
		}
		points = append(points, types.HeatmapPoint{
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			CaseCount: 1,
			Severity:  severity,
			Date:      p.CreatedAt.Format("2006-01-02"),
			Disease:   p.Disease,
		})
	}
	return points, nil
}
