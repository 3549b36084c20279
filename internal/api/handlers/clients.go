package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/caixaverso/investcore/internal/contracts"
	"github.com/caixaverso/investcore/pkg/logger"
)

// ClientHandler handles client registry endpoints
type ClientHandler struct {
	registry contracts.ClientRegistry
	logger   *logger.Logger
}

// NewClientHandler creates a new client handler
func NewClientHandler(registry contracts.ClientRegistry, log *logger.Logger) *ClientHandler {
	return &ClientHandler{
		registry: registry,
		logger:   log,
	}
}

// List returns all registered clients
// GET /api/clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.registry.List(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list clients")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve clients")
		return
	}

	if clients == nil {
		clients = []contracts.Client{}
	}
	respondJSON(w, http.StatusOK, clients)
}

// Get returns one client
// GET /api/clients/{id}
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid client id")
		return
	}

	client, err := h.registry.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to retrieve client")
		return
	}

	respondJSON(w, http.StatusOK, client)
}
