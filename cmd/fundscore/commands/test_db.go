package commands

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/growthscore/internal/store"
	"github.com/wonny/growthscore/pkg/database"
)

// testDBCmd represents the test-db command
var testDBCmd = &cobra.Command{
	Use:   "test-db",
	Short: "PostgreSQL 연결 테스트",
	Long: `Tests the snapshot database and shows pool statistics.

이 명령어는:
- config에서 DATABASE_URL 로드
- 데이터베이스 연결 생성 및 Health Check
- snapshot 스키마 적용

Example:
  go run ./cmd/fundscore test-db
  go run ./cmd/fundscore test-db --env production`,
	RunE: runTestDB,
}

func init() {
	rootCmd.AddCommand(testDBCmd)
}

func runTestDB(cmd *cobra.Command, args []string) error {
	fmt.Println("=== fundscore Database Connection Test ===")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("❌ Failed to load config: %w", err)
	}
	fmt.Printf("✅ Config loaded (ENV: %s)\n", cfg.Env)
	fmt.Printf("   Database URL: %s\n\n", maskPassword(cfg.Database.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fmt.Println("Connecting to database...")
	db, err := database.New(ctx, cfg)
	if errors.Is(err, database.ErrDisabled) {
		return fmt.Errorf("❌ DATABASE_URL is not set")
	}
	if err != nil {
		return fmt.Errorf("❌ Failed to connect to database: %w", err)
	}
	defer db.Close()
	fmt.Println("✅ Database connection established")

	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("❌ Health check failed: %w", err)
	}

	fmt.Println("✅ Health Check Results:")
	fmt.Printf("   Healthy: %v\n", status.Healthy)
	fmt.Printf("   Response Time: %v\n", status.ResponseTime)
	fmt.Printf("   Timestamp: %v\n\n", status.Timestamp.Format(time.RFC3339))

	fmt.Println("📊 Connection Pool Statistics:")
	fmt.Printf("   Max Connections: %d\n", status.MaxConns)
	fmt.Printf("   Total Connections: %d\n", status.TotalConns)
	fmt.Printf("   Acquired Connections: %d\n", status.AcquiredConns)
	fmt.Printf("   Idle Connections: %d\n", status.IdleConns)

	fmt.Println("Applying snapshot schema...")
	if err := store.NewRepository(db.Pool).EnsureSchema(ctx); err != nil {
		return fmt.Errorf("❌ %w", err)
	}

	fmt.Println("\n✅ All tests passed!")
	return nil
}

// maskPassword masks the password in the database URL for display
func maskPassword(raw string) string {
	if raw == "" {
		return "(not set)"
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); !ok {
		return raw
	}
	return u.Scheme + "://" + u.User.Username() + ":***@" + u.Host + u.Path
}
