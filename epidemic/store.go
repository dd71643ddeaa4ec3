package epidemic

import (
	"context"
	"errors"
	"time"

	"go-cropwatch/types"
)

// ErrAlertNotFound is returned by AlertStore lookups and updates when the
// alert does not exist (or no active alert matches).
var ErrAlertNotFound = errors.New("epidemic alert not found")

// AlertUpdate carries the fields an existing alert may be overwritten with
// when a cluster merges into it. CreatedAt is deliberately absent: updates
// never touch it.
type AlertUpdate struct {
	CaseCount int
	RadiusKM  float64
	CenterLat float64
	CenterLon float64
	Severity  types.Severity
	Message   string
}

// AlertStore owns persisted alert records. Create and Update must each be
// atomic with respect to concurrent callers; the engine serializes the whole
// query→decide→persist section per (disease, province) on top of that.
type AlertStore interface {
	// FindActive returns the first active alert for the disease/province
	// pair, or ErrAlertNotFound. "First" is store order, not nearest; the
	// matcher depends only on this method, so a nearest-active variant can
	// be swapped in without changing the engine.
	FindActive(ctx context.Context, disease, province string) (types.Alert, error)
	Create(ctx context.Context, alert types.Alert) (types.Alert, error)
	Update(ctx context.Context, alertID string, upd AlertUpdate) (types.Alert, error)
	ListActive(ctx context.Context, f types.AlertFilter) ([]types.Alert, error)
	// Resolve marks an alert resolved and stamps resolved_at. Nothing in the
	// detection pipeline calls it; it exists for the review workflow.
	Resolve(ctx context.Context, alertID string) error
}

// PointSource supplies the candidate diagnoses the detector runs over.
type PointSource interface {
	// RecentCases returns every diagnosis of the disease in the province
	// created at or after since, with confidence >= minConfidence and
	// coordinates set.
	RecentCases(ctx context.Context, disease, province string, since time.Time, minConfidence float64) ([]types.DiagnosisPoint, error)
	// RecentDiseaseRegions lists the distinct (disease, province) pairs seen
	// since the given time. Used by the periodic sweep.
	RecentDiseaseRegions(ctx context.Context, since time.Time) ([]types.DiseaseRegion, error)
}
