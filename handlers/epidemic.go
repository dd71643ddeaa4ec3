package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-cropwatch/epidemic"
	"go-cropwatch/types"
)

// DiagnosisStore is what the HTTP layer needs from diagnosis persistence.
// Both the Firestore and the in-memory stores satisfy it.
type DiagnosisStore interface {
	SaveDiagnosis(ctx context.Context, p types.DiagnosisPoint) (types.DiagnosisPoint, error)
	Heatmap(ctx context.Context, f types.HeatmapFilter) ([]types.HeatmapPoint, error)
}

// GetEpidemicAlerts returns active alerts, optionally filtered by province,
// district and disease query parameters.
func GetEpidemicAlerts(c *gin.Context, alerts epidemic.AlertStore) {
	filter := types.AlertFilter{
		Disease:  c.Query("disease"),
		Province: c.Query("province"),
		District: c.Query("district"),
	}

	active, err := alerts.ListActive(c.Request.Context(), filter)
	if err != nil {
		log.Printf("ERROR fetching active alerts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve epidemic alerts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  len(active),
		"alerts": active,
	})
}

// GetEpidemicMap returns heatmap data points for recent qualifying
// diagnoses. Query params: disease, province, days (default 30).
func GetEpidemicMap(c *gin.Context, diagnoses DiagnosisStore) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 365 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 365"})
			return
		}
		days = v
	}

	points, err := diagnoses.Heatmap(c.Request.Context(), types.HeatmapFilter{
		Disease:  c.Query("disease"),
		Province: c.Query("province"),
		Days:     days,
	})
	if err != nil {
		log.Printf("ERROR building heatmap: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve heatmap data",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_cases": len(points),
		"data_points": points,
	})
}

// ReportDiagnosis accepts one diagnosis point, persists it, and runs
// epidemic detection. Detection is best-effort: a failure there is logged
// and never fails the submission that triggered it.
func ReportDiagnosis(c *gin.Context, diagnoses DiagnosisStore, engine *epidemic.Engine) {
	var point types.DiagnosisPoint
	if err := c.ShouldBindJSON(&point); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid diagnosis payload"})
		return
	}

	saved, err := diagnoses.SaveDiagnosis(c.Request.Context(), point)
	if err != nil {
		log.Printf("ERROR saving diagnosis: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save diagnosis"})
		return
	}

	touched, err := engine.CheckDiagnosis(c.Request.Context(), saved)
	if err != nil {
		log.Printf("Epidemic check failed for diagnosis %s: %v", saved.ID, err)
		touched = nil
	}
	if touched == nil {
		touched = []types.Alert{}
	}

	c.JSON(http.StatusOK, gin.H{
		"diagnosis": saved,
		"alerts":    touched,
	})
}

// ResolveAlert closes out an active alert. Driven by the expert review
// workflow, not by the detection pipeline.
func ResolveAlert(c *gin.Context, alerts epidemic.AlertStore) {
	alertID := c.Param("id")

	err := alerts.Resolve(c.Request.Context(), alertID)
	if errors.Is(err, epidemic.ErrAlertNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
		return
	}
	if err != nil {
		log.Printf("ERROR resolving alert %s: %v", alertID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve alert"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alert_id": alertID, "alert_status": types.Resolved})
}
