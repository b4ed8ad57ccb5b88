package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/pagination"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/types"
)

// CategoryInput creates or updates one node of the two-level category tree.
type CategoryInput struct {
	Name     string     `json:"name" validate:"required"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	Image    *string    `json:"image,omitempty"`
	IsActive *bool      `json:"is_active,omitempty"`
}

type BrandInput struct {
	Name        string  `json:"name" validate:"required"`
	Logo        *string `json:"logo,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type CarInput struct {
	Make  string `json:"make" validate:"required"`
	Model string `json:"model" validate:"required"`
	Year  int    `json:"year" validate:"required,gt=0"`
}

// ProductInput carries the full product payload for create and update.
type ProductInput struct {
	ManufacturerID uuid.UUID        `json:"manufacturer_id" validate:"required"`
	Name           string           `json:"name" validate:"required"`
	Description    string           `json:"description"`
	SKU            string           `json:"sku" validate:"required"`
	CategoryID     uuid.UUID        `json:"category_id" validate:"required"`
	SubcategoryID  uuid.UUID        `json:"subcategory_id" validate:"required"`
	BrandID        *uuid.UUID       `json:"brand_id,omitempty"`
	Price          decimal.Decimal  `json:"price"`
	Discount       decimal.Decimal  `json:"discount"`
	GSTRate        decimal.Decimal  `json:"gst_rate"`
	StockQuantity  int              `json:"stock_quantity"`
	MinOrderQty    int              `json:"min_order_qty"`
	MaxOrderQty    *int             `json:"max_order_qty,omitempty"`
	WeightKG       *decimal.Decimal `json:"weight_kg,omitempty"`
	Material       *string          `json:"material,omitempty"`
	TechnicalSpecs *types.JSONMap   `json:"technical_specs,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`
	IsFeatured     *bool            `json:"is_featured,omitempty"`
	CarIDs         []uuid.UUID      `json:"car_ids,omitempty"`
}

// DocumentKind selects which PDF slot on a product an upload fills.
type DocumentKind string

const (
	DocumentDatasheet    DocumentKind = "datasheet"
	DocumentInstallGuide DocumentKind = "install_guide"
)

// IsValid reports whether the kind names a known document slot.
func (k DocumentKind) IsValid() bool {
	return k == DocumentDatasheet || k == DocumentInstallGuide
}

// ImageInput attaches one already-stored image to a product.
type ImageInput struct {
	URL       string `json:"url" validate:"required"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

type VariantInput struct {
	Name          string           `json:"name" validate:"required"`
	SKU           string           `json:"sku" validate:"required"`
	PriceOverride *decimal.Decimal `json:"price_override,omitempty"`
	StockQuantity int              `json:"stock_quantity"`
}

// ProductFilters narrows product listings.
type ProductFilters struct {
	CategoryID     *uuid.UUID
	BrandID        *uuid.UUID
	ManufacturerID *uuid.UUID
	Approved       *bool
	Search         string
}

// ProductList pairs one page of products with paging metadata.
type ProductList struct {
	Products []models.Product `json:"products"`
	Page     pagination.Page  `json:"page"`
}
