package autoload

import (
	"log"

	"telemetry-bridge/internal/pkg/dotenv"
)

func init() {
	if err := dotenv.Load(); err != nil {
		log.Printf("dotenv autoload: %v", err)
	}
}
