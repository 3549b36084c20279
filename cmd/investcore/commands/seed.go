package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caixaverso/investcore/internal/catalog"
	"github.com/caixaverso/investcore/pkg/config"
	"github.com/caixaverso/investcore/pkg/database"
	"github.com/caixaverso/investcore/pkg/logger"
)

// bootstrapDDL creates the schema when missing. Idempotent; safe to run
// against an existing database.
const bootstrapDDL = `
CREATE TABLE IF NOT EXISTS products (
	id              BIGINT PRIMARY KEY,
	name            TEXT NOT NULL,
	type            TEXT NOT NULL,
	annual_yield    DOUBLE PRECISION NOT NULL,
	risk_level      TEXT NOT NULL,
	min_term_months INT NOT NULL,
	liquidity_days  INT NOT NULL
);

CREATE TABLE IF NOT EXISTS clients (
	id         BIGINT PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS simulations (
	id          BIGSERIAL PRIMARY KEY,
	client_id   BIGINT NOT NULL REFERENCES clients(id),
	product_id  BIGINT NOT NULL REFERENCES products(id),
	amount      DOUBLE PRECISION NOT NULL,
	final_value DOUBLE PRECISION NOT NULL,
	term_months INT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	effectuated BOOLEAN NOT NULL DEFAULT false
);
CREATE INDEX IF NOT EXISTS idx_simulations_client ON simulations (client_id);

CREATE TABLE IF NOT EXISTS investment_history (
	id             BIGSERIAL PRIMARY KEY,
	client_id      BIGINT NOT NULL REFERENCES clients(id),
	product_id     BIGINT NOT NULL REFERENCES products(id),
	product_type   TEXT NOT NULL,
	annual_yield   DOUBLE PRECISION NOT NULL,
	amount         DOUBLE PRECISION NOT NULL,
	effectuated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_investment_history_client ON investment_history (client_id);

CREATE TABLE IF NOT EXISTS client_risk_profiles (
	client_id  BIGINT PRIMARY KEY REFERENCES clients(id),
	profile    TEXT NOT NULL,
	score      INT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the schema and seed the product catalog",
	Long: `Creates the database schema if missing and upserts the
nine-product investment catalog.

Example:
  go run ./cmd/investcore seed`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
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

	if _, err := db.Pool.Exec(ctx, bootstrapDDL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	log.Info("Schema ready")

	if err := catalog.Seed(ctx, db.Pool); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	log.WithField("products", len(catalog.SeedProducts)).Info("Product catalog seeded")
	fmt.Printf("Seeded %d products\n", len(catalog.SeedProducts))

	return nil
}
