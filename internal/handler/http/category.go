package http

import (
	"log/slog"
	"net/http"

	"github.com/m-akash/e-commerce-inventory-api/internal/domain"
	"github.com/m-akash/e-commerce-inventory-api/internal/service"
	"github.com/m-akash/e-commerce-inventory-api/pkg/httputil"
)

// CategoryHandler exposes the category endpoints.
type CategoryHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(svc *service.ProductService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{service: svc, logger: logger}
}

type listCategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

// List handles GET /api/categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, listCategoriesResponse{Categories: categories})
}
