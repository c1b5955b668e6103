package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/m-akash/e-commerce-inventory-api/internal/domain"
	"github.com/m-akash/e-commerce-inventory-api/internal/repository"
	"github.com/m-akash/e-commerce-inventory-api/internal/service"
	apperrors "github.com/m-akash/e-commerce-inventory-api/pkg/errors"
	"github.com/m-akash/e-commerce-inventory-api/pkg/httputil"
	"github.com/m-akash/e-commerce-inventory-api/pkg/middleware"
	"github.com/m-akash/e-commerce-inventory-api/pkg/validator"
)

// maxMultipartMemory bounds how much of a multipart body is held in memory.
const maxMultipartMemory = 8 << 20

// ProductHandler exposes the product endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{service: svc, logger: logger}
}

type createProductRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Price       int64  `json:"price" validate:"gte=0"`
	Stock       int    `json:"stock" validate:"gte=0"`
	CategoryID  string `json:"categoryId" validate:"required"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
}

type updateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Price       *int64  `json:"price" validate:"omitempty,gte=0"`
	Stock       *int    `json:"stock" validate:"omitempty,gte=0"`
	CategoryID  *string `json:"categoryId" validate:"omitempty,min=1"`
}

type createProductResponse struct {
	Product  *domain.Product `json:"product"`
	ImageURL string          `json:"imageUrl,omitempty"`
	Message  string          `json:"message"`
}

type listProductsResponse struct {
	Products   []domain.Product `json:"products"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
	Message    string           `json:"message,omitempty"`
}

type searchProductsResponse struct {
	Products []domain.Product `json:"products"`
	Message  string           `json:"message,omitempty"`
}

type imageResponse struct {
	Message  string          `json:"message"`
	ImageURL string          `json:"imageUrl"`
	Product  *domain.Product `json:"product"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Create handles POST /api/products. It accepts either a JSON body or a
// multipart form with an optional "image" file.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.UserIDFromContext(r.Context())

	var (
		req   createProductRequest
		image *service.ImageUpload
	)

	if isMultipart(r) {
		file, parsed, err := h.parseMultipartCreate(w, r)
		if err != nil {
			httputil.WriteError(w, r, err)
			return
		}
		if file != nil {
			defer file.Close()
		}
		req = parsed.request
		image = parsed.image
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, r, apperrors.BadRequest("invalid JSON body"))
			return
		}
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
	}

	result, err := h.service.CreateProduct(r.Context(), input, image, ownerID)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, createProductResponse{
		Product:  result.Product,
		ImageURL: result.ImageURL,
		Message:  result.Message,
	})
}

// List handles GET /api/products with filter and pagination query params.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	result, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, listProductsResponse{
		Products:   result.Products,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
		Message:    result.Message,
	})
}

// Search handles GET /api/products/search?query=.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("query")

	products, message, err := h.service.SearchProducts(r.Context(), term)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, searchProductsResponse{
		Products: products,
		Message:  message,
	})
}

// Get handles GET /api/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}

// Update handles PATCH /api/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := middleware.UserIDFromContext(r.Context())

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.BadRequest("invalid JSON body"))
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
	}

	product, err := h.service.UpdateProduct(r.Context(), id, input, userID)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.service.DeleteProduct(r.Context(), id, userID); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}

// UploadImage handles POST /api/products/{id}/upload-image.
func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := middleware.UserIDFromContext(r.Context())

	file, header, err := parseImageFile(w, r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	defer file.Close()

	image := &service.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        file,
	}

	product, err := h.service.UploadImage(r.Context(), id, userID, image)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, imageResponse{
		Message:  service.MsgImageUploaded,
		ImageURL: product.ImageURL,
		Product:  product,
	})
}

// DeleteImage handles DELETE /api/products/{id}/image.
func (h *ProductHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := middleware.UserIDFromContext(r.Context())

	if _, err := h.service.DeleteImage(r.Context(), id, userID); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, messageResponse{Message: service.MsgImageDeleted})
}

type parsedCreateForm struct {
	request createProductRequest
	image   *service.ImageUpload
}

// parseMultipartCreate extracts product fields and the optional image file
// from a multipart create request. The returned file must be closed by the
// caller when non-nil.
func (h *ProductHandler) parseMultipartCreate(w http.ResponseWriter, r *http.Request) (multipart.File, parsedCreateForm, error) {
	var parsed parsedCreateForm

	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxImageSize+maxMultipartMemory)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, parsed, apperrors.BadRequest("invalid multipart form")
	}

	parsed.request = createProductRequest{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		CategoryID:  r.FormValue("categoryId"),
		ImageURL:    r.FormValue("imageUrl"),
	}

	if v := r.FormValue("price"); v != "" {
		price, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, parsed, apperrors.BadRequest("price must be an integer")
		}
		parsed.request.Price = price
	}

	if v := r.FormValue("stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return nil, parsed, apperrors.BadRequest("stock must be an integer")
		}
		parsed.request.Stock = stock
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, parsed, nil
		}
		return nil, parsed, apperrors.BadRequest("invalid image file")
	}

	parsed.image = &service.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        file,
	}

	return file, parsed, nil
}

// parseImageFile extracts the required "image" file from a multipart request.
func parseImageFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, domain.MaxImageSize+maxMultipartMemory)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, nil, apperrors.BadRequest("invalid multipart form")
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, apperrors.BadRequest("image file is required")
		}
		return nil, nil, apperrors.BadRequest("invalid image file")
	}

	return file, header, nil
}

// parseProductFilter builds a ProductFilter from list query parameters.
// Non-numeric values are rejected; out-of-range pagination is clamped later.
func parseProductFilter(r *http.Request) (repository.ProductFilter, error) {
	q := r.URL.Query()

	filter := repository.ProductFilter{
		Search:     q.Get("search"),
		CategoryID: q.Get("categoryId"),
	}

	var err error

	if filter.Page, err = parseIntParam(q.Get("page"), "page"); err != nil {
		return filter, err
	}
	if filter.Limit, err = parseIntParam(q.Get("limit"), "limit"); err != nil {
		return filter, err
	}
	if filter.MinPrice, err = parseInt64Param(q.Get("minPrice"), "minPrice"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = parseInt64Param(q.Get("maxPrice"), "maxPrice"); err != nil {
		return filter, err
	}

	return filter, nil
}

func parseIntParam(value, name string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, apperrors.BadRequest(fmt.Sprintf("%s must be an integer", name))
	}
	return n, nil
}

func parseInt64Param(value, name string) (*int64, error) {
	if value == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, apperrors.BadRequest(fmt.Sprintf("%s must be an integer", name))
	}
	return &n, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
