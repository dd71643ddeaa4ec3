package routes

import (
	"github.com/gin-gonic/gin"

	"go-cropwatch/epidemic"
	"go-cropwatch/handlers"
)

func SetupRouter(alerts epidemic.AlertStore, diagnoses handlers.DiagnosisStore, engine *epidemic.Engine) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Hello, welcome to CropWatch!",
		})
	})

	// api routes
	api := r.Group("/api/cropwatch")
	{
		api.POST("/diagnoses", func(c *gin.Context) {
			handlers.ReportDiagnosis(c, diagnoses, engine)
		})
		api.GET("/epidemic/alerts", func(c *gin.Context) {
			handlers.GetEpidemicAlerts(c, alerts)
		})
		api.GET("/epidemic/map", func(c *gin.Context) {
			handlers.GetEpidemicMap(c, diagnoses)
		})
		api.POST("/epidemic/alerts/:id/resolve", func(c *gin.Context) {
			handlers.ResolveAlert(c, alerts)
		})
	}

	return r
}
