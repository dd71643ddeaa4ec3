package epidemic

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"go-cropwatch/geoutils"
	"go-cropwatch/types"
)

// Matcher decides whether a freshly detected cluster continues an existing
// active alert or is a new outbreak.
type Matcher struct {
	Alerts AlertStore
	Cfg    Config
}

// Match looks up the first active alert for the cluster's disease and
// province. If one exists and its center lies within the merge radius of the
// cluster centroid, the alert is overwritten with the cluster's numbers;
// otherwise a new alert is created. Returns the alert touched.
//
// Only the first active alert the store returns is considered, not the
// nearest. With several active alerts for one disease/province this can
// merge into the "wrong" one; known limitation, see AlertStore.FindActive.
func (m *Matcher) Match(ctx context.Context, cluster types.Cluster) (types.Alert, error) {
	existing, err := m.Alerts.FindActive(ctx, cluster.Disease, cluster.Province)
	if err != nil && !errors.Is(err, ErrAlertNotFound) {
		return types.Alert{}, fmt.Errorf("querying active alerts for %s in %s: %w", cluster.Disease, cluster.Province, err)
	}

	if err == nil {
		dist := geoutils.HaversineDistance(
			existing.CenterLat, existing.CenterLon,
			cluster.CenterLat, cluster.CenterLon,
		)
		if dist <= m.Cfg.MergeRadiusKM {
			log.Printf("Updating alert %s: cluster center %.1fkm from existing center", existing.ID, dist)
			return m.Alerts.Update(ctx, existing.ID, AlertUpdate{
				CaseCount: cluster.CaseCount,
				RadiusKM:  cluster.RadiusKM,
				CenterLat: cluster.CenterLat,
				CenterLon: cluster.CenterLon,
				Severity:  cluster.Severity,
				Message:   AlertMessage(cluster.Disease, cluster.Province, cluster.CaseCount, cluster.RadiusKM),
			})
		}
		log.Printf("Active alert %s is %.1fkm away (merge radius %.1fkm), treating cluster as a separate outbreak", existing.ID, dist, m.Cfg.MergeRadiusKM)
	}

	log.Printf("Creating new epidemic alert: %s in %s (%d cases)", cluster.Disease, cluster.Province, cluster.CaseCount)
	return m.Alerts.Create(ctx, types.Alert{
		Disease:   cluster.Disease,
		Province:  cluster.Province,
		District:  cluster.District,
		CaseCount: cluster.CaseCount,
		RadiusKM:  math.Round(cluster.RadiusKM*100) / 100,
		CenterLat: cluster.CenterLat,
		CenterLon: cluster.CenterLon,
		Severity:  cluster.Severity,
		Status:    types.Active,
		Message:   AlertMessage(cluster.Disease, cluster.Province, cluster.CaseCount, cluster.RadiusKM),
	})
}

// AlertMessage builds the human-readable alert text. Deterministic: the same
// inputs always produce the same message, and all four quantities appear in
// it. Radius is shown with one decimal place.
func AlertMessage(disease, province string, caseCount int, radiusKM float64) string {
	return fmt.Sprintf(
		"EPIDEMIC ALERT: %s outbreak detected in %s. %d cases within a %.1fkm radius. Farmers in the area should take preventive measures.",
		disease, province, caseCount, radiusKM,
	)
}
