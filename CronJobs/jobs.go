package CronJobs

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"DigiHaccp/Scrapper"
)

// AlertChecker polls the FSAI food alerts page on a schedule
type AlertChecker struct {
	cronScheduler  *cron.Cron
	runImmediately bool
	jobID          cron.EntryID
}

// NewAlertChecker creates a new alert checker
func NewAlertChecker(runImmediately bool) *AlertChecker {
	return &AlertChecker{
		cronScheduler:  cron.New(cron.WithSeconds()),
		runImmediately: runImmediately,
	}
}

// Start schedules the daily scrape
func (a *AlertChecker) Start() error {
	var err error
	a.jobID, err = a.cronScheduler.AddFunc("0 0 6 * * *", func() {
		log.Println("Running scheduled food alert scrape")
		if err := Scrapper.FetchFoodAlerts(); err != nil {
			log.Println("Food alert scrape failed:", err)
		}
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	a.cronScheduler.Start()
	fmt.Println("Food alert scheduler started - will run daily at 6:00 AM")

	if a.runImmediately {
		if err := Scrapper.FetchFoodAlerts(); err != nil {
			log.Println("Initial food alert scrape failed:", err)
		}
	}
	return nil
}

// Stop terminates the scheduler
func (a *AlertChecker) Stop() {
	if a.cronScheduler != nil {
		a.cronScheduler.Stop()
	}
}
