package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"go-cropwatch/cronjobs"
	"go-cropwatch/db"
	"go-cropwatch/epidemic"
	"go-cropwatch/handlers"
	"go-cropwatch/memstore"
	"go-cropwatch/routes"
)

func main() {
	// Load .env file (optional; env vars may come from the environment)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := epidemic.LoadConfig()
	log.Printf("Epidemic config: eps=%v minSamples=%d lookbackDays=%d mergeRadiusKm=%v",
		cfg.Eps, cfg.MinSamples, cfg.LookbackDays, cfg.MergeRadiusKM)

	var (
		alerts    epidemic.AlertStore
		diagnoses handlers.DiagnosisStore
		points    epidemic.PointSource
	)

	if os.Getenv("FIREBASE_CREDENTIALS") != "" {
		firestoreClient, err := db.InitFirestore()
		if err != nil {
			log.Fatalf("Failed to initialize Firestore: %v", err)
		}
		defer db.CloseFirestore() // Firestore client is closed on exit

		alerts = db.NewAlertStore(firestoreClient)
		diagStore := db.NewDiagnosisStore(firestoreClient)
		diagnoses = diagStore
		points = diagStore
	} else {
		// No credentials: run on in-memory stores. State is lost on restart.
		log.Println("FIREBASE_CREDENTIALS not set, using in-memory stores")
		alerts = memstore.NewAlertStore()
		diagStore := memstore.NewDiagnosisStore()
		diagnoses = diagStore
		points = diagStore
	}

	engine := epidemic.NewEngine(cfg, alerts, points)

	// Initialize cron jobs
	cronjobs.InitCronJobs(engine)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter(alerts, diagnoses, engine)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
