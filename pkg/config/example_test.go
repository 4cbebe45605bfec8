package config_test

import (
	"fmt"

	"github.com/wonny/growthscore/pkg/config"
)

// Example demonstrates how to use the config package
func Example() {
	// Load configuration (.env is read first when present)
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return
	}

	// Access configuration values
	fmt.Printf("Environment: %s\n", cfg.Env)
	fmt.Printf("SEC rate limit: %d req/s\n", cfg.SEC.RateLimit)
	fmt.Printf("FMP key set: %v\n", cfg.FMP.APIKey != "")
	fmt.Printf("Snapshots enabled: %v\n", cfg.Database.Enabled())
}
