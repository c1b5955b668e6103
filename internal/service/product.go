package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m-akash/e-commerce-inventory-api/internal/cache"
	"github.com/m-akash/e-commerce-inventory-api/internal/domain"
	"github.com/m-akash/e-commerce-inventory-api/internal/event"
	"github.com/m-akash/e-commerce-inventory-api/internal/repository"
	"github.com/m-akash/e-commerce-inventory-api/internal/storage"
	apperrors "github.com/m-akash/e-commerce-inventory-api/pkg/errors"
)

// User-facing operation messages.
const (
	MsgProductCreated            = "Product created successfully"
	MsgProductCreatedWithImage   = "Product created and image uploaded successfully"
	MsgProductCreatedImageFailed = "Product created, but image upload failed"
	MsgNoProductsFound           = "no products found"
	MsgNoSearchMatches           = "no products match the search query"
	MsgImageUploaded             = "Image uploaded successfully"
	MsgImageDeleted              = "Image deleted successfully"
)

// ProductService implements the business logic for inventory operations.
type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	store      storage.Storage
	cache      *cache.ProductCache
	events     event.Publisher
	logger     *slog.Logger
}

// NewProductService creates a new product service. The cache and events
// dependencies are optional; pass nil to disable them.
func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	store storage.Storage,
	productCache *cache.ProductCache,
	events event.Publisher,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		store:      store,
		cache:      productCache,
		events:     events,
		logger:     logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       int64
	Stock       int
	CategoryID  string
	ImageURL    string
}

// UpdateProductInput holds the parameters for a partial product update.
// Nil fields are left unchanged.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *int64
	Stock       *int
	CategoryID  *string
}

// ImageUpload holds an image file submitted by a client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// CreateProductResult is the outcome of a create, including whether the
// optional image attach succeeded.
type CreateProductResult struct {
	Product  *domain.Product
	ImageURL string
	Message  string
}

// ListProductsResult is one page of products plus pagination metadata.
type ListProductsResult struct {
	Products   []domain.Product
	Total      int
	Page       int
	Limit      int
	TotalPages int
	Message    string
}

// CreateProduct creates a product and, when an image file is supplied,
// attaches it in a second phase. A failed image attach never rolls back the
// created product; the result message reports the partial outcome.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput, image *ImageUpload, ownerID string) (*CreateProductResult, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}
	if ownerID == "" {
		return nil, apperrors.Unauthorized("missing product owner")
	}

	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, s.categoryNotFound(ctx, input.CategoryID)
		}
		return nil, fmt.Errorf("check category: %w", err)
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		CategoryID:  input.CategoryID,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// The caller-supplied URL is stored with the row; a successful file
	// upload replaces it, a failed one leaves it intact.
	if input.ImageURL != "" {
		product.ImageURL = input.ImageURL
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	result := &CreateProductResult{
		Product:  product,
		ImageURL: product.ImageURL,
		Message:  MsgProductCreated,
	}

	if image != nil {
		if err := s.attachImage(ctx, product, image); err != nil {
			s.logger.WarnContext(ctx, "image attach failed after create",
				slog.String("product_id", product.ID),
				slog.String("error", err.Error()),
			)
			result.Message = MsgProductCreatedImageFailed
		} else {
			result.ImageURL = product.ImageURL
			result.Message = MsgProductCreatedWithImage
		}
	}

	s.publish(ctx, "product.created", product.ID, func() error {
		return s.events.ProductCreated(ctx, product)
	})

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("owner_id", ownerID),
	)

	return result, nil
}

// GetProduct retrieves a product by its ID, reading through the cache.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if s.cache != nil {
		if p, err := s.cache.Get(ctx, id); err == nil && p != nil {
			return p, nil
		}
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, product)
	}

	return product, nil
}

// ListProducts returns a filtered, paginated page of products.
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) (*ListProductsResult, error) {
	filter = filter.Normalized()

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	result := &ListProductsResult{
		Products:   products,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}

	if total == 0 {
		result.Message = MsgNoProductsFound
	}

	return result, nil
}

// SearchProducts returns all products matching the term, with a message
// when nothing matches.
func (s *ProductService) SearchProducts(ctx context.Context, term string) ([]domain.Product, string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, "", apperrors.BadRequest("search query is required")
	}

	products, err := s.products.Search(ctx, term)
	if err != nil {
		return nil, "", fmt.Errorf("search products: %w", err)
	}

	message := ""
	if len(products) == 0 {
		message = MsgNoSearchMatches
	}

	return products, message, nil
}

// UpdateProduct applies a partial update to a product owned by userID.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input *UpdateProductInput, userID string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if err := authorizeOwner(product, userID, "update"); err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.BadRequest("product name must not be empty")
		}
		product.Name = *input.Name
	}

	if input.Description != nil {
		product.Description = *input.Description
	}

	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperrors.BadRequest("price must not be negative")
		}
		product.Price = *input.Price
	}

	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, apperrors.BadRequest("stock must not be negative")
		}
		product.Stock = *input.Stock
	}

	if input.CategoryID != nil && *input.CategoryID != product.CategoryID {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NotFound("category", *input.CategoryID)
			}
			return nil, fmt.Errorf("check category: %w", err)
		}
		product.CategoryID = *input.CategoryID
		product.Category = nil
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidate(ctx, product.ID)
	s.publish(ctx, "product.updated", product.ID, func() error {
		return s.events.ProductUpdated(ctx, product)
	})

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
	)

	return product, nil
}

// DeleteProduct removes a product owned by userID. Blobs under the product's
// image namespace are swept best-effort; a stale blob never fails the delete.
func (s *ProductService) DeleteProduct(ctx context.Context, id, userID string) error {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get product for delete: %w", err)
	}

	if err := authorizeOwner(product, userID, "delete"); err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.sweepBlobs(ctx, product.ID, product.OwnerID, ""); err != nil {
		s.logger.WarnContext(ctx, "failed to sweep image blobs after delete",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.invalidate(ctx, id)
	s.publish(ctx, "product.deleted", id, func() error {
		return s.events.ProductDeleted(ctx, id)
	})

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}

// UploadImage attaches an image to an existing product owned by userID,
// replacing any previous image.
func (s *ProductService) UploadImage(ctx context.Context, id, userID string, image *ImageUpload) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for image upload: %w", err)
	}

	if err := authorizeOwner(product, userID, "upload an image for"); err != nil {
		return nil, err
	}

	if err := s.attachImage(ctx, product, image); err != nil {
		return nil, err
	}

	// Sweep replaced and orphaned blobs, keeping the one just attached.
	if err := s.sweepBlobs(ctx, product.ID, product.OwnerID, keyFromURL(product.ImageURL)); err != nil {
		s.logger.WarnContext(ctx, "failed to sweep replaced image blobs",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.invalidate(ctx, product.ID)
	s.publish(ctx, "product.image_updated", product.ID, func() error {
		return s.events.ProductImageUpdated(ctx, product)
	})

	return product, nil
}

// DeleteImage removes the image from a product owned by userID.
func (s *ProductService) DeleteImage(ctx context.Context, id, userID string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for image delete: %w", err)
	}

	if err := authorizeOwner(product, userID, "delete the image of"); err != nil {
		return nil, err
	}

	if !product.HasImage() {
		return nil, apperrors.BadRequest("product has no image to delete")
	}

	// Remove the blobs first so a storage failure surfaces before the row
	// loses its URL; a swallowed failure here would strand the blob forever.
	if err := s.sweepBlobs(ctx, product.ID, product.OwnerID, ""); err != nil {
		return nil, err
	}

	product.ImageURL = ""

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("clear product image: %w", err)
	}

	s.invalidate(ctx, product.ID)
	s.publish(ctx, "product.image_updated", product.ID, func() error {
		return s.events.ProductImageUpdated(ctx, product)
	})

	return product, nil
}

// ListCategories returns all categories ordered by name.
func (s *ProductService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// attachImage validates, uploads, and records an image for the product.
// If persisting the new URL fails, the uploaded blob is removed again.
func (s *ProductService) attachImage(ctx context.Context, product *domain.Product, image *ImageUpload) error {
	if !domain.IsAllowedImageType(image.ContentType) {
		return apperrors.BadRequest(fmt.Sprintf("unsupported image type %q", image.ContentType))
	}
	if image.Size <= 0 {
		return apperrors.BadRequest("image file is empty")
	}
	if image.Size > domain.MaxImageSize {
		return apperrors.BadRequest(fmt.Sprintf("image exceeds maximum size of %d bytes", domain.MaxImageSize))
	}

	key := storage.NewProductImageKey(product.ID, product.OwnerID)

	result, err := s.store.Upload(ctx, &storage.UploadInput{
		Key:         key,
		ContentType: image.ContentType,
		Size:        image.Size,
		Data:        image.Data,
	})
	if err != nil {
		return fmt.Errorf("upload image: %w", err)
	}

	prevURL := product.ImageURL
	product.ImageURL = result.URL

	if err := s.products.Update(ctx, product); err != nil {
		product.ImageURL = prevURL
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to clean up orphaned image blob",
				slog.String("key", key),
				slog.String("error", delErr.Error()),
			)
		}
		return fmt.Errorf("record image url: %w", err)
	}

	return nil
}

// categoryNotFound builds a not-found error that enumerates the categories
// a client could have used instead.
func (s *ProductService) categoryNotFound(ctx context.Context, categoryID string) error {
	categories, err := s.categories.List(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to list categories for error message",
			slog.String("error", err.Error()),
		)
		return apperrors.NotFound("category", categoryID)
	}

	if len(categories) == 0 {
		return apperrors.NotFoundMsg(fmt.Sprintf("category %s not found: no categories exist yet", categoryID))
	}

	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })

	entries := make([]string, len(categories))
	for i, c := range categories {
		entries[i] = fmt.Sprintf("%s: %s", c.ID, c.Name)
	}

	return apperrors.NotFoundMsg(fmt.Sprintf(
		"category %s not found. Available categories: %s",
		categoryID, strings.Join(entries, ", "),
	))
}

// sweepBlobs deletes every blob in the product's image namespace except
// keep. Passing an empty keep clears the whole namespace, including blobs
// orphaned by earlier failed replacements.
func (s *ProductService) sweepBlobs(ctx context.Context, productID, ownerID, keep string) error {
	prefix := fmt.Sprintf("%s/%s/%s/", storage.ProductKeyPrefix, productID, ownerID)

	keys, err := s.store.List(ctx, prefix)
	if err != nil {
		return fmt.Errorf("list image blobs: %w", err)
	}

	for _, key := range keys {
		if key == keep {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete image blob %s: %w", key, err)
		}
	}

	return nil
}

// invalidate drops the cached product, best-effort.
func (s *ProductService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, id)
	}
}

// publish sends a domain event, logging instead of failing the operation.
func (s *ProductService) publish(ctx context.Context, eventType, productID string, fn func() error) {
	if s.events == nil {
		return
	}
	if err := fn(); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish event",
			slog.String("event_type", eventType),
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}

func authorizeOwner(p *domain.Product, userID, action string) error {
	if !p.IsOwnedBy(userID) {
		return apperrors.Forbidden(fmt.Sprintf("only the owner may %s this product", action))
	}
	return nil
}

func validateCreateInput(input *CreateProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.BadRequest("product name is required")
	}
	if input.Price < 0 {
		return apperrors.BadRequest("price must not be negative")
	}
	if input.Stock < 0 {
		return apperrors.BadRequest("stock must not be negative")
	}
	if input.CategoryID == "" {
		return apperrors.BadRequest("category id is required")
	}
	return nil
}

// keyFromURL extracts the storage key from a public image URL. URLs not
// produced by this service (for example caller-supplied image URLs) yield
// an empty key and are skipped.
func keyFromURL(url string) string {
	idx := strings.Index(url, storage.ProductKeyPrefix+"/")
	if idx < 0 {
		return ""
	}
	return url[idx:]
}
