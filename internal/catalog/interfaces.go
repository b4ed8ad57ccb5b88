package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/pagination"
)

// Repository defines persistence operations for catalog tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error)
	ListSubcategories(ctx context.Context, parentID uuid.UUID, activeOnly bool) ([]models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateBrand(ctx context.Context, brand *models.Brand) (*models.Brand, error)
	FindBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error)
	ListBrands(ctx context.Context, activeOnly bool) ([]models.Brand, error)
	UpdateBrand(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteBrand(ctx context.Context, id uuid.UUID) error

	CreateCar(ctx context.Context, car *models.Car) (*models.Car, error)
	FindCar(ctx context.Context, id uuid.UUID) (*models.Car, error)
	ListCars(ctx context.Context) ([]models.Car, error)
	DeleteCar(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	CreateProductImage(ctx context.Context, image *models.ProductImage) (*models.ProductImage, error)
	CountProductImages(ctx context.Context, productID uuid.UUID) (int64, error)
	FindProductImage(ctx context.Context, id uuid.UUID) (*models.ProductImage, error)
	ClearPrimaryImages(ctx context.Context, productID uuid.UUID) error
	UpdateProductImage(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteProductImage(ctx context.Context, id uuid.UUID) error

	CreateVariant(ctx context.Context, variant *models.ProductVariant) (*models.ProductVariant, error)
	DeleteVariant(ctx context.Context, id uuid.UUID) error

	ReplaceCarCompatibility(ctx context.Context, productID uuid.UUID, carIDs []uuid.UUID) error
}
