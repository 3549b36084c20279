package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/caixaverso/investcore/internal/contracts"
	"github.com/caixaverso/investcore/internal/simulation"
	"github.com/caixaverso/investcore/pkg/logger"
)

// SimulationHandler handles investment simulation endpoints
type SimulationHandler struct {
	engine *simulation.Engine
	repo   *simulation.Repository
	logger *logger.Logger
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(engine *simulation.Engine, repo *simulation.Repository, log *logger.Logger) *SimulationHandler {
	return &SimulationHandler{
		engine: engine,
		repo:   repo,
		logger: log,
	}
}

// Simulate runs an investment simulation
// POST /api/simulations
func (h *SimulationHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req simulation.SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.engine.Simulate(r.Context(), req)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to run simulation")
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// History returns all simulations, newest first
// GET /api/simulations
func (h *SimulationHandler) History(w http.ResponseWriter, r *http.Request) {
	sims, err := h.repo.ListHistory(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list simulations")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve simulations")
		return
	}

	if sims == nil {
		sims = []contracts.Simulation{}
	}
	respondJSON(w, http.StatusOK, sims)
}

// Summary returns simulation aggregates per product and day
// GET /api/simulations/summary
func (h *SimulationHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.repo.SummaryByProductDay(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to summarize simulations")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve simulation summary")
		return
	}

	if summaries == nil {
		summaries = []simulation.ProductDaySummary{}
	}
	respondJSON(w, http.StatusOK, summaries)
}
