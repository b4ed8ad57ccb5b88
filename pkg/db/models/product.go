package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/types"
)

// Product is a spare part listed by one manufacturer. Subcategory must be
// a child of Category; the service layer enforces the pairing.
type Product struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ManufacturerID uuid.UUID `gorm:"column:manufacturer_id;type:uuid;not null;index"`
	Manufacturer   *Manufacturer
	Name           string          `gorm:"column:name;not null"`
	Description    string          `gorm:"column:description"`
	SKU            string          `gorm:"column:sku;not null;uniqueIndex"`
	CategoryID     uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	Category       *Category       `gorm:"foreignKey:CategoryID"`
	SubcategoryID  uuid.UUID       `gorm:"column:subcategory_id;type:uuid;not null"`
	Subcategory    *Category       `gorm:"foreignKey:SubcategoryID"`
	BrandID        *uuid.UUID      `gorm:"column:brand_id;type:uuid"`
	Brand          *Brand          `gorm:"foreignKey:BrandID"`
	Price          decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Discount       decimal.Decimal `gorm:"column:discount;type:numeric(5,2);not null;default:0"`
	GSTRate        decimal.Decimal `gorm:"column:gst_rate;type:numeric(5,2);not null;default:0"`
	StockQuantity  int             `gorm:"column:stock_quantity;not null;default:0"`
	MinOrderQty    int             `gorm:"column:min_order_qty;not null;default:1"`
	MaxOrderQty    *int            `gorm:"column:max_order_qty"`
	WeightKG       *decimal.Decimal `gorm:"column:weight_kg;type:numeric(8,3)"`
	Material       *string         `gorm:"column:material"`
	TechnicalSpecs *types.JSONMap  `gorm:"column:technical_specs;type:jsonb;serializer:json"`
	DatasheetURL   *string         `gorm:"column:datasheet_url"`
	InstallGuideURL *string        `gorm:"column:install_guide_url"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true"`
	IsApproved     bool            `gorm:"column:is_approved;not null;default:false"`
	IsFeatured     bool            `gorm:"column:is_featured;not null;default:false"`

	Images           []ProductImage            `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Variants         []ProductVariant          `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CarCompatibility []ProductCarCompatibility `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	URL       string    `gorm:"column:url;not null"`
	IsPrimary bool      `gorm:"column:is_primary;not null;default:false"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

type ProductVariant struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID     uuid.UUID        `gorm:"column:product_id;type:uuid;not null;index"`
	Name          string           `gorm:"column:name;not null"`
	SKU           string           `gorm:"column:sku;not null;uniqueIndex"`
	PriceOverride *decimal.Decimal `gorm:"column:price_override;type:numeric(10,2)"`
	StockQuantity int              `gorm:"column:stock_quantity;not null;default:0"`
	IsActive      bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

type ProductCarCompatibility struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_product_car"`
	CarID     uuid.UUID `gorm:"column:car_id;type:uuid;not null;uniqueIndex:idx_product_car"`
	Car       *Car      `gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE"`
	Notes     *string   `gorm:"column:notes"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
