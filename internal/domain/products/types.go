package products

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID `json:"id"`
	StoreID     uuid.UUID `json:"store_id"`
	CategoryID  uuid.UUID `json:"category_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	IsFeatured  bool      `json:"is_featured"`
	IsArchived  bool      `json:"is_archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Image struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	URL       string    `json:"url"`
	PublicID  string    `json:"public_id"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Option is the size or color a variation points at.
type Option struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Value string    `json:"value"`
}

// Variation is one size/color combination of a product with its own stock.
// ProductID is nil once the variation has been disconnected from its product.
type Variation struct {
	ID        uuid.UUID  `json:"id"`
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	SizeID    uuid.UUID  `json:"size_id"`
	ColorID   uuid.UUID  `json:"color_id"`
	Quantity  int        `json:"quantity"`
	Size      *Option    `json:"size,omitempty"`
	Color     *Option    `json:"color,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ProductDetail struct {
	Product
	Category   CategoryRef  `json:"category"`
	Images     []*Image     `json:"images"`
	Variations []*Variation `json:"variations"`
}

// ProductCard is the lightweight row used by list endpoints.
type ProductCard struct {
	Product
	CategoryName string  `json:"category_name"`
	ImageURL     *string `json:"image_url,omitempty"`
	Stock        int     `json:"stock"`
}

type ImageInput struct {
	URL      string `json:"url" validate:"required,url"`
	PublicID string `json:"public_id" validate:"required,max=255"`
}

// VariationInput has a nil ID for variations that do not exist yet.
type VariationInput struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	SizeID   uuid.UUID  `json:"size_id" validate:"required"`
	ColorID  uuid.UUID  `json:"color_id" validate:"required"`
	Quantity int        `json:"quantity" validate:"gte=0"`
}

type ProductInput struct {
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	PriceCents  int64            `json:"price_cents" validate:"gte=0"`
	CategoryID  uuid.UUID        `json:"category_id" validate:"required"`
	IsFeatured  bool             `json:"is_featured"`
	IsArchived  bool             `json:"is_archived"`
	Images      []ImageInput     `json:"images" validate:"required,min=1,dive"`
	Variations  []VariationInput `json:"variations" validate:"dive"`
}

type ListFilter struct {
	CategoryID      *uuid.UUID
	ColorID         *uuid.UUID
	SizeID          *uuid.UUID
	IsFeatured      *bool
	IncludeArchived bool
	Limit           int
	Offset          int
}

// UpdateResult carries what the caller needs after the transaction commits.
type UpdateResult struct {
	Product *ProductDetail
	Plan    *VariationPlan
	// PurgePublicIDs are media assets no longer referenced by the product.
	PurgePublicIDs []string
}
