package types

import "time"

type Severity string

const (
	Low    Severity = "low"
	Medium Severity = "medium"
	High   Severity = "high"
)

type Status string

const (
	Active   Status = "active"
	Resolved Status = "resolved"
)

// Alert is a persisted epidemic alert. One active alert is expected per
// (disease, province, geographic neighborhood); the matcher enforces that by
// merging nearby clusters into the existing record rather than by a uniqueness
// constraint in the store.
type Alert struct {
	ID       string `firestore:"-" json:"alert_id"` // Firestore document ID
	Disease  string `firestore:"diseaseName" json:"disease_name"`
	Province string `firestore:"province" json:"province"`
	District string `firestore:"district,omitempty" json:"district,omitempty"`

	// Cluster projection
	CaseCount int     `firestore:"caseCount" json:"case_count"`
	RadiusKM  float64 `firestore:"radiusKm" json:"radius_km"`
	CenterLat float64 `firestore:"centerLat" json:"center_lat"`
	CenterLon float64 `firestore:"centerLon" json:"center_lon"`

	Severity Severity `firestore:"severity" json:"severity"`
	Status   Status   `firestore:"status" json:"alert_status"`
	Message  string   `firestore:"alertMessage" json:"alert_message"`

	CreatedAt  time.Time  `firestore:"createdAt" json:"created_at"`
	ResolvedAt *time.Time `firestore:"resolvedAt,omitempty" json:"resolved_at,omitempty"`
}

// AlertFilter narrows ListActive queries. Zero values mean "no filter".
type AlertFilter struct {
	Disease  string
	Province string
	District string
}
