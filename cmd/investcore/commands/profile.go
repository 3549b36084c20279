package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/caixaverso/investcore/internal/catalog"
	"github.com/caixaverso/investcore/internal/contracts"
	"github.com/caixaverso/investcore/internal/markov"
	"github.com/caixaverso/investcore/internal/riskprofile"
	"github.com/caixaverso/investcore/pkg/config"
	"github.com/caixaverso/investcore/pkg/database"
	"github.com/caixaverso/investcore/pkg/logger"
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile <clientID>",
	Short: "Compute and print a client's risk profile",
	Long: `Recomputes the risk profile for one client from its full
investment history and prints the result with the trend prediction.

Example:
  go run ./cmd/investcore profile 42`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	clientID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || clientID <= 0 {
		return fmt.Errorf("invalid client id %q", args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	engine := riskprofile.NewEngine(db.Pool, catalog.NewRepository(db.Pool), nil, log)

	profile, err := engine.ComputeProfile(ctx, clientID)
	if err != nil {
		return fmt.Errorf("compute profile: %w", err)
	}

	dist, next, err := markov.Predict(profile.Tier)
	if err != nil {
		return fmt.Errorf("predict trend: %w", err)
	}

	fmt.Printf("Client %d\n", profile.ClientID)
	fmt.Printf("  Profile: %s (score %d)\n", profile.Tier, profile.Score)
	fmt.Printf("  Updated: %s\n", profile.UpdatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  %s\n", profile.Explanation)
	fmt.Printf("  Trend: most likely next %s\n", next)
	for _, tier := range contracts.Tiers() {
		fmt.Printf("    %-12s %.2f\n", tier, dist[tier])
	}

	return nil
}
