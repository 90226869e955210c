package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/folioworks/backoffice/internal/backoffice/app"
)

func main() {
	// A missing .env file is fine, the environment wins anyway.
	_ = godotenv.Load()

	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
