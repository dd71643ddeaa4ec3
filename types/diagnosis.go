package types

import "time"

// DiagnosisPoint is one geotagged diagnosis event as produced by the
// diagnosis-ingestion layer. Coordinates of (0, 0) mean "not set"; points
// without coordinates, disease or province never participate in clustering.
type DiagnosisPoint struct {
	ID       string `firestore:"-" json:"id"`
	FarmerID string `firestore:"farmerId,omitempty" json:"farmer_id,omitempty"`

	Disease  string `firestore:"diseaseDetected" json:"disease_detected"`
	Province string `firestore:"province" json:"province"`
	District string `firestore:"district,omitempty" json:"district,omitempty"`

	Latitude  float64 `firestore:"latitude" json:"latitude"`
	Longitude float64 `firestore:"longitude" json:"longitude"`

	Confidence float64 `firestore:"confidence" json:"confidence"`
	Severity   string  `firestore:"severity,omitempty" json:"severity,omitempty"` // per-diagnosis hint, not the alert tier

	CreatedAt time.Time `firestore:"createdAt" json:"created_at"`
}

// HasCoordinates reports whether the point carries usable GPS data.
// (0, 0) is open ocean and doubles as the unset marker, matching how
// the ingestion layer leaves missing fields zeroed.
func (p DiagnosisPoint) HasCoordinates() bool {
	return p.Latitude != 0 || p.Longitude != 0
}

// HeatmapPoint is the read-only map projection of one qualifying diagnosis.
type HeatmapPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	CaseCount int     `json:"case_count"` // always 1, each diagnosis is one case
	Severity  string  `json:"severity"`
	Date      string  `json:"date"` // YYYY-MM-DD
	Disease   string  `json:"disease"`
}

// HeatmapFilter narrows the heatmap projection. Days bounds the lookback.
type HeatmapFilter struct {
	Disease  string
	Province string
	Days     int
}

// DiseaseRegion identifies one clustering scope: all detection runs are
// bounded to a single disease in a single province.
type DiseaseRegion struct {
	Disease  string
	Province string
}
