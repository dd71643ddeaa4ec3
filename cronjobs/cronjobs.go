package cronjobs

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"go-cropwatch/epidemic"
)

// InitCronJobs starts the periodic epidemic sweep. The per-submission check
// in the engine does the heavy lifting; the sweep catches clusters that only
// become visible once stale points age out of the lookback window.
func InitCronJobs(engine *epidemic.Engine) {
	log.Println("Starting Cron Jobs -------------------------------------------------------")
	c := cron.New()

	// Epidemic sweep: run hourly on the hour
	_, err := c.AddFunc("0 * * * *", func() {
		log.Println("CronJob: Epidemic Sweep Running")
		touched, err := engine.SweepRecent(context.Background())
		if err != nil {
			log.Printf("Epidemic sweep failed: %v", err)
			return
		}
		log.Printf("Epidemic sweep done, %d alerts touched", len(touched))
	})
	if err != nil {
		log.Println("Error scheduling Epidemic Sweep:", err)
	}

	c.Start()
}
