package database_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/wonny/growthscore/pkg/config"
	"github.com/wonny/growthscore/pkg/database"
)

// Example demonstrates how to use the database package
func Example() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Storage is optional: ErrDisabled means DATABASE_URL is unset
	db, err := database.New(ctx, cfg)
	if errors.Is(err, database.ErrDisabled) {
		fmt.Println("Snapshot storage disabled")
		return
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		log.Fatalf("Health check failed: %v", err)
	}

	fmt.Printf("Database is healthy: %v\n", status.Healthy)
	fmt.Printf("Response time: %v\n", status.ResponseTime)
	fmt.Printf("Max connections: %d\n", status.MaxConns)
}
