package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/caixaverso/investcore/internal/contracts"
	"github.com/caixaverso/investcore/pkg/logger"
)

// ProductHandler handles product catalog endpoints
type ProductHandler struct {
	catalog contracts.ProductCatalog
	logger  *logger.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalog contracts.ProductCatalog, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  log,
	}
}

// List returns the full product catalog
// GET /api/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.GetAll(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list products")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	if products == nil {
		products = []contracts.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

// Get returns one product
// GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, h.logger, err, "Failed to retrieve product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}
