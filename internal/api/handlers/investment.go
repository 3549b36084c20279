package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/caixaverso/investcore/internal/contracts"
	"github.com/caixaverso/investcore/internal/investment"
	"github.com/caixaverso/investcore/pkg/logger"
)

// InvestmentHandler handles effectivization and history endpoints
type InvestmentHandler struct {
	orchestrator *investment.Orchestrator
	repo         *investment.Repository
	logger       *logger.Logger
}

// NewInvestmentHandler creates a new investment handler
func NewInvestmentHandler(orchestrator *investment.Orchestrator, repo *investment.Repository, log *logger.Logger) *InvestmentHandler {
	return &InvestmentHandler{
		orchestrator: orchestrator,
		repo:         repo,
		logger:       log,
	}
}

// EffectivizeRequest is the body of an effectivization batch.
type EffectivizeRequest struct {
	ClientID      int64   `json:"client_id"`
	SimulationIDs []int64 `json:"simulation_ids"`
}

// Effectivize turns simulations into permanent investments
// POST /api/investments/effectivize
func (h *InvestmentHandler) Effectivize(w http.ResponseWriter, r *http.Request) {
	var req EffectivizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.orchestrator.Effectivize(r.Context(), req.ClientID, req.SimulationIDs)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to effectivize simulations")
		return
	}

	if !result.Success {
		respondJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// History returns a client's investment history
// GET /api/investments/{clientID}
func (h *InvestmentHandler) History(w http.ResponseWriter, r *http.Request) {
	clientID, err := strconv.ParseInt(mux.Vars(r)["clientID"], 10, 64)
	if err != nil || clientID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid clientId")
		return
	}

	entries, err := h.repo.ListByClient(r.Context(), clientID)
	if err != nil {
		h.logger.WithError(err).WithField("client_id", clientID).Error("Failed to list investments")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve investment history")
		return
	}

	if entries == nil {
		entries = []contracts.InvestmentEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}
