package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/caixaverso/investcore/internal/contracts"
	"github.com/caixaverso/investcore/internal/recommend"
	"github.com/caixaverso/investcore/internal/riskprofile"
	"github.com/caixaverso/investcore/pkg/logger"
)

// ProfileHandler handles risk profile and recommendation endpoints
type ProfileHandler struct {
	engine      *riskprofile.Engine
	recommender *recommend.Service
	logger      *logger.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(engine *riskprofile.Engine, recommender *recommend.Service, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		engine:      engine,
		recommender: recommender,
		logger:      log,
	}
}

// Get computes and returns the trend-enriched profile for a client
// GET /api/risk-profile/{clientID}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	clientID, err := strconv.ParseInt(mux.Vars(r)["clientID"], 10, 64)
	if err != nil || clientID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid clientId")
		return
	}

	view, err := h.engine.GetProfile(r.Context(), clientID)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to compute risk profile")
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// Recommendations returns the products suitable for a risk profile
// GET /api/recommendations/{profile}
func (h *ProfileHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	profile := mux.Vars(r)["profile"]

	products, err := h.recommender.ProductsForProfile(r.Context(), profile)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to load recommendations")
		return
	}

	if products == nil {
		products = []contracts.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}
