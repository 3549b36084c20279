package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/caixaverso/investcore/internal/contracts"
	"github.com/caixaverso/investcore/pkg/logger"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondDomainError maps the error taxonomy onto HTTP statuses:
// malformed input 400, business rejections 422, missing entities 404,
// anything else a logged 500.
func respondDomainError(w http.ResponseWriter, log *logger.Logger, err error, fallback string) {
	switch {
	case contracts.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, contracts.ErrNoCompatibleProduct),
		errors.Is(err, contracts.ErrUnknownProfile):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case contracts.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	default:
		log.WithError(err).Error(fallback)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
