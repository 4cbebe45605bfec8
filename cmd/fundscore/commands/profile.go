package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wonny/growthscore/internal/profile"
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the effective scoring profile",
	Long: `Validates a scoring profile and prints it with its hash.

Example:
  go run ./cmd/fundscore profile
  go run ./cmd/fundscore profile --profile ./my-profile.yaml`,
	Args: cobra.NoArgs,
	RunE: runProfile,
}

var profileFlag string

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().StringVar(&profileFlag, "profile", "", "scoring profile YAML (default: SCORING_PROFILE or built-in)")
}

func runProfile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := profileFlag
	if path == "" {
		path = cfg.ProfilePath
	}
	p, err := profile.Load(path)
	if err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	hash, err := profile.Hash(p)
	if err != nil {
		return err
	}

	if path == "" {
		path = "(built-in)"
	}
	PrintHeader("Scoring Profile",
		[2]string{"ID", p.Meta.ProfileID},
		[2]string{"Version", p.Meta.Version},
		[2]string{"Path", path},
		[2]string{"Hash", hash},
	)

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(p)
}
