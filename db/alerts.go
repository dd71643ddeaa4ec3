package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go-cropwatch/epidemic"
	"go-cropwatch/types"
)

const alertsCollection = "epidemic_alerts"

// AlertStore is the Firestore-backed implementation of epidemic.AlertStore.
type AlertStore struct {
	Client *firestore.Client
}

func NewAlertStore(client *firestore.Client) *AlertStore {
	return &AlertStore{Client: client}
}

func (s *AlertStore) FindActive(ctx context.Context, disease, province string) (types.Alert, error) {
	docs, err := s.Client.Collection(alertsCollection).
		Where("diseaseName", "==", disease).
		Where("province", "==", province).
		Where("status", "==", string(types.Active)).
		Limit(1).
		Documents(ctx).
		GetAll()
	if err != nil {
		return types.Alert{}, fmt.Errorf("querying active alerts: %w", err)
	}
	if len(docs) == 0 {
		return types.Alert{}, epidemic.ErrAlertNotFound
	}

	var alert types.Alert
	if err := docs[0].DataTo(&alert); err != nil {
		return types.Alert{}, fmt.Errorf("error converting document %s to Alert: %w", docs[0].Ref.ID, err)
	}
	alert.ID = docs[0].Ref.ID
	return alert, nil
}

func (s *AlertStore) Create(ctx context.Context, alert types.Alert) (types.Alert, error) {
	alert.ID = uuid.NewString()
	alert.CreatedAt = time.Now().UTC()
	alert.ResolvedAt = nil

	_, err := s.Client.Collection(alertsCollection).Doc(alert.ID).Set(ctx, alert)
	if err != nil {
		return types.Alert{}, fmt.Errorf("creating alert: %w", err)
	}

	log.Printf("Epidemic alert created: ID %s", alert.ID)
	return alert, nil
}

// Update overwrites the cluster-projection fields of an existing alert inside
// a transaction, so a concurrent delete surfaces as ErrAlertNotFound instead
// of resurrecting the document. createdAt is never touched.
func (s *AlertStore) Update(ctx context.Context, alertID string, upd epidemic.AlertUpdate) (types.Alert, error) {
	docRef := s.Client.Collection(alertsCollection).Doc(alertID)

	var updated types.Alert
	err := s.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return epidemic.ErrAlertNotFound
			}
			return fmt.Errorf("error getting alert doc %s: %w", alertID, err)
		}
		if err := doc.DataTo(&updated); err != nil {
			return fmt.Errorf("error converting document %s to Alert: %w", alertID, err)
		}

		updated.ID = alertID
		updated.CaseCount = upd.CaseCount
		updated.RadiusKM = upd.RadiusKM
		updated.CenterLat = upd.CenterLat
		updated.CenterLon = upd.CenterLon
		updated.Severity = upd.Severity
		updated.Message = upd.Message

		return tx.Update(docRef, []firestore.Update{
			{Path: "caseCount", Value: upd.CaseCount},
			{Path: "radiusKm", Value: upd.RadiusKM},
			{Path: "centerLat", Value: upd.CenterLat},
			{Path: "centerLon", Value: upd.CenterLon},
			{Path: "severity", Value: string(upd.Severity)},
			{Path: "alertMessage", Value: upd.Message},
		})
	})
	if err != nil {
		return types.Alert{}, err
	}

	return updated, nil
}

func (s *AlertStore) ListActive(ctx context.Context, f types.AlertFilter) ([]types.Alert, error) {
	q := s.Client.Collection(alertsCollection).
		Where("status", "==", string(types.Active))

	if f.Disease != "" {
		q = q.Where("diseaseName", "==", f.Disease)
	}
	if f.Province != "" {
		q = q.Where("province", "==", f.Province)
	}
	if f.District != "" {
		q = q.Where("district", "==", f.District)
	}

	iter := q.OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var alerts []types.Alert
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating alerts collection: %w", err)
		}

		var alert types.Alert
		if err := doc.DataTo(&alert); err != nil {
			log.Printf("Warning: Error converting document %s to Alert: %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		alert.ID = doc.Ref.ID
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

// Resolve marks an alert resolved and stamps resolvedAt. Reserved for the
// expert review workflow; the detection pipeline never calls it.
func (s *AlertStore) Resolve(ctx context.Context, alertID string) error {
	docRef := s.Client.Collection(alertsCollection).Doc(alertID)

	return s.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return epidemic.ErrAlertNotFound
			}
			return fmt.Errorf("error getting alert doc %s: %w", alertID, err)
		}

		return tx.Update(docRef, []firestore.Update{
			{Path: "status", Value: string(types.Resolved)},
			{Path: "resolvedAt", Value: time.Now().UTC()},
		})
	})
}
