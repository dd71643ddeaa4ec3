package epidemic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"go-cropwatch/types"
)

// fakeAlertStore is an in-memory AlertStore for matcher tests.
type fakeAlertStore struct {
	alerts []types.Alert
	nextID int
}

func (f *fakeAlertStore) FindActive(ctx context.Context, disease, province string) (types.Alert, error) {
	for _, a := range f.alerts {
		if a.Status == types.Active && a.Disease == disease && a.Province == province {
			return a, nil
		}
	}
	return types.Alert{}, ErrAlertNotFound
}

func (f *fakeAlertStore) Create(ctx context.Context, alert types.Alert) (types.Alert, error) {
	f.nextID++
	alert.ID = fmt.Sprintf("alert-%d", f.nextID)
	alert.CreatedAt = time.Now().UTC()
	f.alerts = append(f.alerts, alert)
	return alert, nil
}

func (f *fakeAlertStore) Update(ctx context.Context, alertID string, upd AlertUpdate) (types.Alert, error) {
	for i, a := range f.alerts {
		if a.ID != alertID {
			continue
		}
		a.CaseCount = upd.CaseCount
		a.RadiusKM = upd.RadiusKM
		a.CenterLat = upd.CenterLat
		a.CenterLon = upd.CenterLon
		a.Severity = upd.Severity
		a.Message = upd.Message
		f.alerts[i] = a
		return a, nil
	}
	return types.Alert{}, ErrAlertNotFound
}

func (f *fakeAlertStore) ListActive(ctx context.Context, flt types.AlertFilter) ([]types.Alert, error) {
	var out []types.Alert
	for _, a := range f.alerts {
		if a.Status == types.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAlertStore) Resolve(ctx context.Context, alertID string) error {
	for i, a := range f.alerts {
		if a.ID == alertID {
			now := time.Now().UTC()
			a.Status = types.Resolved
			a.ResolvedAt = &now
			f.alerts[i] = a
			return nil
		}
	}
	return ErrAlertNotFound
}

func testCluster(centerLat, centerLon float64, caseCount int) types.Cluster {
	return types.Cluster{
		Disease:   "leaf blight",
		Province:  "An Giang",
		CenterLat: centerLat,
		CenterLon: centerLon,
		RadiusKM:  2.5,
		CaseCount: caseCount,
		Severity:  types.Low,
	}
}

func TestMatchCreatesWhenNoActiveAlert(t *testing.T) {
	store := &fakeAlertStore{}
	m := &Matcher{Alerts: store, Cfg: DefaultConfig()}

	alert, err := m.Match(context.Background(), testCluster(10.5, 105.1, 6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alert.ID == "" {
		t.Fatal("created alert has no ID")
	}
	if alert.Status != types.Active {
		t.Fatalf("expected active status, got %s", alert.Status)
	}
	if alert.CaseCount != 6 || alert.Severity != types.Low {
		t.Fatalf("alert did not take cluster fields: %+v", alert)
	}
	if len(store.alerts) != 1 {
		t.Fatalf("expected 1 stored alert, got %d", len(store.alerts))
	}
}

func TestMatchUpdatesWithinMergeRadius(t *testing.T) {
	store := &fakeAlertStore{}
	m := &Matcher{Alerts: store, Cfg: DefaultConfig()}

	existing, err := m.Match(context.Background(), testCluster(10.500, 105.100, 6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// ~3 km north of the existing center, well inside the 10 km merge radius
	updated, err := m.Match(context.Background(), testCluster(10.527, 105.100, 7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.ID != existing.ID {
		t.Fatalf("expected update of alert %s, got new alert %s", existing.ID, updated.ID)
	}
	if updated.CaseCount != 7 {
		t.Fatalf("expected case_count 7 after update, got %d", updated.CaseCount)
	}
	if len(store.alerts) != 1 {
		t.Fatalf("expected merge into one alert, got %d alerts", len(store.alerts))
	}
}

func TestMatchCreatesSeparateAlertBeyondMergeRadius(t *testing.T) {
	store := &fakeAlertStore{}
	m := &Matcher{Alerts: store, Cfg: DefaultConfig()}

	first, err := m.Match(context.Background(), testCluster(10.50, 105.10, 6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// ~50 km away: same disease and province, different outbreak
	second, err := m.Match(context.Background(), testCluster(10.95, 105.10, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.ID == first.ID {
		t.Fatal("distant cluster merged into existing alert")
	}
	if len(store.alerts) != 2 {
		t.Fatalf("expected 2 independent alerts, got %d", len(store.alerts))
	}
}

func TestMatchIdempotentOnIdenticalCluster(t *testing.T) {
	store := &fakeAlertStore{}
	m := &Matcher{Alerts: store, Cfg: DefaultConfig()}
	cluster := testCluster(10.5, 105.1, 6)

	first, err := m.Match(context.Background(), cluster)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := m.Match(context.Background(), cluster)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.ID != first.ID {
		t.Fatal("identical cluster produced a second alert")
	}
	if second.CaseCount != first.CaseCount {
		t.Fatalf("case_count drifted: %d -> %d", first.CaseCount, second.CaseCount)
	}
	if second.CenterLat != first.CenterLat || second.CenterLon != first.CenterLon {
		t.Fatal("center drifted on identical re-match")
	}
	if math.Abs(second.RadiusKM-first.RadiusKM) > 0.01 {
		t.Fatalf("radius drifted: %v -> %v", first.RadiusKM, second.RadiusKM)
	}
}

func TestMatchPropagatesNotFoundOnVanishedAlert(t *testing.T) {
	// An active alert the update path cannot find anymore, as if it was
	// deleted between lookup and write.
	store := &fakeAlertStore{}
	phantom := types.Alert{
		ID:        "phantom",
		Disease:   "leaf blight",
		Province:  "An Giang",
		Status:    types.Active,
		CenterLat: 10.5,
		CenterLon: 105.1,
	}
	store.alerts = append(store.alerts, phantom)
	m := &Matcher{Alerts: &vanishingStore{fakeAlertStore: store, phantomID: "phantom"}, Cfg: DefaultConfig()}

	_, err := m.Match(context.Background(), testCluster(10.5, 105.1, 6))
	if !errors.Is(err, ErrAlertNotFound) {
		t.Fatalf("expected ErrAlertNotFound, got %v", err)
	}
}

// vanishingStore serves the phantom alert from FindActive but rejects the
// follow-up update, simulating a concurrent delete.
type vanishingStore struct {
	*fakeAlertStore
	phantomID string
}

func (v *vanishingStore) Update(ctx context.Context, alertID string, upd AlertUpdate) (types.Alert, error) {
	if alertID == v.phantomID {
		return types.Alert{}, ErrAlertNotFound
	}
	return v.fakeAlertStore.Update(ctx, alertID, upd)
}

func TestAlertMessageCarriesAllQuantities(t *testing.T) {
	msg := AlertMessage("leaf blight", "An Giang", 7, 2.53)

	for _, want := range []string{"leaf blight", "An Giang", "7", "2.5km"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}

	if msg != AlertMessage("leaf blight", "An Giang", 7, 2.53) {
		t.Fatal("message generation is not deterministic")
	}
}
