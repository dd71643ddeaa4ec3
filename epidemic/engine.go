// Package epidemic detects spatial outbreak clusters in geotagged diagnosis
// events and turns them into durable, de-duplicated alert records.
package epidemic

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go-cropwatch/types"
)

// Engine orchestrates one detection run per accepted diagnosis: pull the
// recent same-disease/same-province cases, cluster them, and create or update
// an alert per cluster. Construct with NewEngine; safe for concurrent use.
type Engine struct {
	cfg    Config
	alerts AlertStore
	points PointSource

	// One mutex per (disease, province) pair serializes the whole
	// query→decide→persist section, so two concurrent submissions cannot
	// both see "no active alert" and create duplicates.
	mu       sync.Mutex
	keyLocks map[string]*sync.Mutex
}

func NewEngine(cfg Config, alerts AlertStore, points PointSource) *Engine {
	return &Engine{
		cfg:      cfg,
		alerts:   alerts,
		points:   points,
		keyLocks: make(map[string]*sync.Mutex),
	}
}

// CheckDiagnosis runs outbreak detection for one newly arrived diagnosis.
// Returns the alerts created or updated by this run.
//
// Diagnoses without a disease label, coordinates or a province are skipped
// silently: many submissions legitimately lack the information, so these are
// no-ops, not errors. Callers should treat the whole call as best-effort and
// never fail the diagnosis submission over it.
func (e *Engine) CheckDiagnosis(ctx context.Context, p types.DiagnosisPoint) ([]types.Alert, error) {
	if p.Disease == "" {
		log.Println("No disease detected, skipping epidemic check")
		return nil, nil
	}
	if !p.HasCoordinates() {
		log.Println("No GPS coordinates, skipping epidemic check")
		return nil, nil
	}
	if p.Province == "" {
		log.Println("No province specified, skipping epidemic check")
		return nil, nil
	}

	return e.runDetection(ctx, p.Disease, p.Province)
}

// SweepRecent re-runs detection for every (disease, province) pair seen in
// the lookback window. Intended for the periodic cron job; each pair is best
// effort, a failing pair does not stop the sweep.
func (e *Engine) SweepRecent(ctx context.Context) ([]types.Alert, error) {
	since := e.lookbackStart()
	pairs, err := e.points.RecentDiseaseRegions(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("listing recent disease regions: %w", err)
	}

	var touched []types.Alert
	for _, pair := range pairs {
		alerts, err := e.runDetection(ctx, pair.Disease, pair.Province)
		if err != nil {
			log.Printf("Sweep failed for %s in %s: %v", pair.Disease, pair.Province, err)
			continue
		}
		touched = append(touched, alerts...)
	}
	return touched, nil
}

func (e *Engine) runDetection(ctx context.Context, disease, province string) ([]types.Alert, error) {
	unlock := e.lockKey(disease, province)
	defer unlock()

	cases, err := e.points.RecentCases(ctx, disease, province, e.lookbackStart(), MinConfidence)
	if err != nil {
		return nil, fmt.Errorf("loading recent cases: %w", err)
	}

	log.Printf("Found %d recent cases of %q in %s (last %d days)", len(cases), disease, province, e.cfg.LookbackDays)

	if len(cases) < e.cfg.MinSamples {
		log.Printf("Not enough cases for clustering (need %d)", e.cfg.MinSamples)
		return nil, nil
	}

	clusters := DetectClusters(cases, e.cfg)
	log.Printf("Detected %d epidemic clusters", len(clusters))

	// Each cluster is matched in isolation against the store state at that
	// moment, so a second cluster in the same run sees the first one's
	// write and merges into it or forks accordingly.
	matcher := &Matcher{Alerts: e.alerts, Cfg: e.cfg}
	var touched []types.Alert
	for _, cluster := range clusters {
		alert, err := matcher.Match(ctx, cluster)
		if errors.Is(err, ErrAlertNotFound) {
			// The matched alert vanished between lookup and update.
			// Abandon this one cluster, the rest of the run proceeds.
			log.Printf("Alert disappeared while matching cluster of %d cases, skipping: %v", cluster.CaseCount, err)
			continue
		}
		if err != nil {
			// Store failure. Alerts already touched this run stay touched;
			// runs are not atomic as a whole.
			return touched, err
		}
		touched = append(touched, alert)
	}

	return touched, nil
}

func (e *Engine) lookbackStart() time.Time {
	return time.Now().UTC().AddDate(0, 0, -e.cfg.LookbackDays)
}

func (e *Engine) lockKey(disease, province string) func() {
	key := disease + "|" + province

	e.mu.Lock()
	l, ok := e.keyLocks[key]
	if !ok {
		l = &sync.Mutex{}
		e.keyLocks[key] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}
