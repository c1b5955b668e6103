package domain

import "time"

// Image upload constraints.
const MaxImageSize = 5 << 20 // 5 MiB

// AllowedImageTypes lists the content types accepted for product images.
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// IsAllowedImageType reports whether the content type is an accepted image type.
func IsAllowedImageType(contentType string) bool {
	return AllowedImageTypes[contentType]
}

// CategoryRef is the category summary embedded in a product.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OwnerRef is the owner summary embedded in a product.
type OwnerRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Product is an inventory item. Price is stored in minor currency units
// (cents), so it is always a non-negative integer.
type Product struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       int64        `json:"price"`
	Stock       int          `json:"stock"`
	CategoryID  string       `json:"categoryId"`
	OwnerID     string       `json:"ownerId"`
	ImageURL    string       `json:"imageUrl,omitempty"`
	Category    *CategoryRef `json:"category,omitempty"`
	Owner       *OwnerRef    `json:"owner,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// IsOwnedBy reports whether the product belongs to the given user.
func (p *Product) IsOwnedBy(userID string) bool {
	return p.OwnerID == userID
}

// HasImage reports whether the product has an attached image.
func (p *Product) HasImage() bool {
	return p.ImageURL != ""
}
