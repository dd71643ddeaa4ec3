package epidemic

import (
	"log"
	"os"
	"strconv"
)

// MinConfidence is the diagnosis confidence floor for a point to take part in
// clustering or the heatmap. Low-confidence diagnoses stay out of both.
const MinConfidence = 0.5

// Config carries every tunable of the detection pipeline. Build one with
// DefaultConfig or LoadConfig and hand it to NewEngine; nothing in the
// pipeline reads process-wide state.
type Config struct {
	// Eps is the DBSCAN neighborhood radius in coordinate degrees, not km.
	// 0.05 degrees is roughly 5 km at the equator and shrinks east-west with
	// cos(latitude). Fine for the single-province extents clustering runs
	// over; a local planar projection would be needed for global use.
	Eps float64

	// MinSamples is the minimum neighbor count (including the point itself)
	// for a point to seed a cluster.
	MinSamples int

	// LookbackDays bounds how far back candidate diagnoses are pulled.
	LookbackDays int

	// MergeRadiusKM is the maximum distance between a new cluster's centroid
	// and an existing active alert's center for them to be treated as the
	// same outbreak.
	MergeRadiusKM float64

	// Case-count thresholds for the severity tiers.
	MediumCaseCount int
	HighCaseCount   int
}

func DefaultConfig() Config {
	return Config{
		Eps:             0.05,
		MinSamples:      5,
		LookbackDays:    7,
		MergeRadiusKM:   10,
		MediumCaseCount: 10,
		HighCaseCount:   15,
	}
}

// LoadConfig returns the defaults with environment overrides applied.
func LoadConfig() Config {
	cfg := DefaultConfig()
	cfg.Eps = envFloat("DBSCAN_EPS", cfg.Eps)
	cfg.MinSamples = envInt("DBSCAN_MIN_SAMPLES", cfg.MinSamples)
	cfg.LookbackDays = envInt("EPIDEMIC_LOOKBACK_DAYS", cfg.LookbackDays)
	cfg.MergeRadiusKM = envFloat("EPIDEMIC_MERGE_RADIUS_KM", cfg.MergeRadiusKM)
	cfg.MediumCaseCount = envInt("EPIDEMIC_MEDIUM_CASES", cfg.MediumCaseCount)
	cfg.HighCaseCount = envInt("EPIDEMIC_HIGH_CASES", cfg.HighCaseCount)
	return cfg
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %v", key, raw, fallback)
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %v", key, raw, fallback)
		return fallback
	}
	return v
}
