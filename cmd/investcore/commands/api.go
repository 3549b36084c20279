package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/caixaverso/investcore/internal/api"
	"github.com/caixaverso/investcore/internal/api/handlers"
	"github.com/caixaverso/investcore/internal/catalog"
	"github.com/caixaverso/investcore/internal/clients"
	"github.com/caixaverso/investcore/internal/investment"
	"github.com/caixaverso/investcore/internal/recommend"
	"github.com/caixaverso/investcore/internal/riskprofile"
	"github.com/caixaverso/investcore/internal/scheduler"
	"github.com/caixaverso/investcore/internal/scheduler/jobs"
	"github.com/caixaverso/investcore/internal/simulation"
	"github.com/caixaverso/investcore/pkg/config"
	"github.com/caixaverso/investcore/pkg/database"
	"github.com/caixaverso/investcore/pkg/logger"
	"github.com/caixaverso/investcore/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                           - Health check
  POST /api/simulations                  - Run an investment simulation
  GET  /api/simulations                  - Simulation history
  GET  /api/simulations/summary          - Per product/day summary
  POST /api/investments/effectivize      - Effectivize simulations
  GET  /api/investments/{clientID}       - Investment history
  GET  /api/risk-profile/{clientID}      - Risk profile with trend
  GET  /api/recommendations/{profile}    - Recommended products
  GET  /api/products                     - Product catalog
  GET  /api/clients                      - Registered clients

Example:
  go run ./cmd/investcore api
  go run ./cmd/investcore api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connected to database")

	// 4. Connect to Redis (optional; degrades to no cache)
	redisClient, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without cache")
		redisClient = redis.Disabled()
	}
	defer redisClient.Close()

	cache := redis.NewCache(redisClient, "investcore")

	// 5. Create repositories
	catalogRepo := catalog.NewRepository(db.Pool)
	clientRegistry := clients.NewRegistry(db.Pool)
	simulationRepo := simulation.NewRepository(db.Pool)
	investmentRepo := investment.NewRepository(db.Pool)

	// 6. Create domain services
	profileEngine := riskprofile.NewEngine(db.Pool, catalogRepo, cache, log)
	simulationEngine := simulation.NewEngine(simulationRepo, catalogRepo, clientRegistry, log)
	orchestrator := investment.NewOrchestrator(db.Pool, profileEngine, log)
	recommender := recommend.NewService(catalogRepo, cache, log)

	// 7. Create handlers and router
	router := api.NewRouter(api.Handlers{
		Simulation: handlers.NewSimulationHandler(simulationEngine, simulationRepo, log),
		Investment: handlers.NewInvestmentHandler(orchestrator, investmentRepo, log),
		Profile:    handlers.NewProfileHandler(profileEngine, recommender, log),
		Product:    handlers.NewProductHandler(catalogRepo, log),
		Client:     handlers.NewClientHandler(clientRegistry, log),
	}, cfg, log)

	// 8. Start cache warming scheduler
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled && redisClient.Enabled() {
		sched = scheduler.New(log)
		warmJob := jobs.NewCacheWarmJob(recommender, cfg.Scheduler.CacheWarmSchedule)
		if err := sched.AddJob(warmJob); err != nil {
			return fmt.Errorf("register cache warm job: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// 9. Start server with graceful shutdown
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
