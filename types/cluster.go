package types

// Cluster is one density cluster found in a single detection pass. It lives
// only for the duration of the pass; what persists is its projection into an
// Alert via the matcher.
type Cluster struct {
	Disease  string
	Province string
	District string

	// Indices into the candidate point slice the detector ran over.
	PointIndices []int

	CenterLat float64
	CenterLon float64
	RadiusKM  float64

	CaseCount int
	Severity  Severity
}
