package main

import (
	"feedbackbox_backend/internal/app"

	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine: production injects real environment variables.
	_ = godotenv.Load()

	app.Run()
}
