package main

import (
	"log"

	"github.com/joho/godotenv"

	"DigiHaccp/CronJobs"
	"DigiHaccp/FiberConfig"
	"DigiHaccp/Models"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	Models.Connect()

	alertChecker := CronJobs.NewAlertChecker(true)
	if err := alertChecker.Start(); err != nil {
		log.Println("Failed to start food alert checker:", err)
	}

	FiberConfig.FiberConfig()
}
