package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/farmansunasara/sparehub-b2b-platform/pkg/db"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
	pkgerrors "github.com/farmansunasara/sparehub-b2b-platform/pkg/errors"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines catalog operations.
type Service interface {
	CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error)
	ListSubcategories(ctx context.Context, categoryID uuid.UUID, activeOnly bool) ([]models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateBrand(ctx context.Context, input BrandInput) (*models.Brand, error)
	ListBrands(ctx context.Context, activeOnly bool) ([]models.Brand, error)
	UpdateBrand(ctx context.Context, id uuid.UUID, input BrandInput) (*models.Brand, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error

	CreateCar(ctx context.Context, input CarInput) (*models.Car, error)
	ListCars(ctx context.Context) ([]models.Car, error)
	DeleteCar(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ApproveProduct(ctx context.Context, id uuid.UUID, approved bool) (*models.Product, error)
	AttachProductDocument(ctx context.Context, id uuid.UUID, kind DocumentKind, url string) (*models.Product, error)

	AddProductImage(ctx context.Context, productID uuid.UUID, input ImageInput) (*models.ProductImage, error)
	SetPrimaryImage(ctx context.Context, imageID uuid.UUID) (*models.ProductImage, error)
	RemoveProductImage(ctx context.Context, imageID uuid.UUID) error
	AddVariant(ctx context.Context, productID uuid.UUID, input VariantInput) (*models.ProductVariant, error)
	RemoveVariant(ctx context.Context, variantID uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases the name and collapses every non-alphanumeric run
// into a single hyphen.
func slugify(name string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// CreateCategory adds a tree node. The tree is two levels deep at most:
// a parent must itself be a top-level category.
func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}
	if input.ParentID != nil {
		parent, err := s.repo.FindCategory(ctx, *input.ParentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parent category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parent category")
		}
		if parent.ParentID != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "subcategories cannot have children")
		}
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	category, err := s.repo.CreateCategory(ctx, &models.Category{
		Name:     input.Name,
		Slug:     slugify(input.Name),
		ParentID: input.ParentID,
		Image:    input.Image,
		IsActive: active,
	})
	if err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return category, nil
}

func (s *service) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	rows, err := s.repo.ListCategories(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return rows, nil
}

func (s *service) ListSubcategories(ctx context.Context, categoryID uuid.UUID, activeOnly bool) ([]models.Category, error) {
	parent, err := s.findCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if parent.ParentID != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is not a top-level category")
	}
	rows, err := s.repo.ListSubcategories(ctx, categoryID, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subcategories")
	}
	return rows, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error) {
	if _, err := s.findCategory(ctx, id); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if input.Name != "" {
		updates["name"] = input.Name
		updates["slug"] = slugify(input.Name)
	}
	if input.Image != nil {
		updates["image"] = *input.Image
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if err := s.repo.UpdateCategory(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return s.findCategory(ctx, id)
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findCategory(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *service) findCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

func (s *service) CreateBrand(ctx context.Context, input BrandInput) (*models.Brand, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand name required")
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	description := ""
	if input.Description != nil {
		description = *input.Description
	}
	brand, err := s.repo.CreateBrand(ctx, &models.Brand{
		Name:        input.Name,
		Logo:        input.Logo,
		Description: description,
		IsActive:    active,
	})
	if err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "brand already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create brand")
	}
	return brand, nil
}

func (s *service) ListBrands(ctx context.Context, activeOnly bool) ([]models.Brand, error) {
	rows, err := s.repo.ListBrands(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brands")
	}
	return rows, nil
}

func (s *service) UpdateBrand(ctx context.Context, id uuid.UUID, input BrandInput) (*models.Brand, error) {
	if _, err := s.repo.FindBrand(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load brand")
	}
	updates := map[string]any{}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.Logo != nil {
		updates["logo"] = *input.Logo
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if err := s.repo.UpdateBrand(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update brand")
	}
	return s.repo.FindBrand(ctx, id)
}

func (s *service) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteBrand(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete brand")
	}
	return nil
}

func (s *service) CreateCar(ctx context.Context, input CarInput) (*models.Car, error) {
	if input.Make == "" || input.Model == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "car make and model required")
	}
	if input.Year <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "car year required")
	}
	car, err := s.repo.CreateCar(ctx, &models.Car{
		Make:  input.Make,
		Model: input.Model,
		Year:  input.Year,
	})
	if err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "car already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create car")
	}
	return car, nil
}

func (s *service) ListCars(ctx context.Context) ([]models.Car, error) {
	rows, err := s.repo.ListCars(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cars")
	}
	return rows, nil
}

func (s *service) DeleteCar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCar(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete car")
	}
	return nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := s.validateProductInput(ctx, input); err != nil {
		return nil, err
	}

	var created *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		minQty := input.MinOrderQty
		if minQty <= 0 {
			minQty = 1
		}
		active := true
		if input.IsActive != nil {
			active = *input.IsActive
		}
		featured := false
		if input.IsFeatured != nil {
			featured = *input.IsFeatured
		}

		product, err := repo.CreateProduct(ctx, &models.Product{
			ManufacturerID: input.ManufacturerID,
			Name:           input.Name,
			Description:    input.Description,
			SKU:            input.SKU,
			CategoryID:     input.CategoryID,
			SubcategoryID:  input.SubcategoryID,
			BrandID:        input.BrandID,
			Price:          input.Price,
			Discount:       input.Discount,
			GSTRate:        input.GSTRate,
			StockQuantity:  input.StockQuantity,
			MinOrderQty:    minQty,
			MaxOrderQty:    input.MaxOrderQty,
			WeightKG:       input.WeightKG,
			Material:       input.Material,
			TechnicalSpecs: input.TechnicalSpecs,
			IsActive:       active,
			IsFeatured:     featured,
		})
		if err != nil {
			if dbpkg.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
		}

		if len(input.CarIDs) > 0 {
			if err := repo.ReplaceCarCompatibility(ctx, product.ID, input.CarIDs); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set car compatibility")
			}
		}

		created = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, created.ID)
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params, filters ProductFilters) (*ProductList, error) {
	list, err := s.repo.ListProducts(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return list, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error) {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return nil, err
	}
	if err := s.validateProductInput(ctx, input); err != nil {
		return nil, err
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		updates := map[string]any{
			"manufacturer_id": input.ManufacturerID,
			"name":            input.Name,
			"description":     input.Description,
			"sku":             input.SKU,
			"category_id":     input.CategoryID,
			"subcategory_id":  input.SubcategoryID,
			"price":           input.Price,
			"discount":        input.Discount,
			"gst_rate":        input.GSTRate,
			"stock_quantity":  input.StockQuantity,
		}
		if input.BrandID != nil {
			updates["brand_id"] = *input.BrandID
		}
		if input.MinOrderQty > 0 {
			updates["min_order_qty"] = input.MinOrderQty
		}
		if input.MaxOrderQty != nil {
			updates["max_order_qty"] = *input.MaxOrderQty
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}
		if input.IsFeatured != nil {
			updates["is_featured"] = *input.IsFeatured
		}
		if input.TechnicalSpecs != nil {
			updates["technical_specs"] = *input.TechnicalSpecs
		}

		if err := repo.UpdateProduct(ctx, id, updates); err != nil {
			if dbpkg.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
		}

		if input.CarIDs != nil {
			if err := repo.ReplaceCarCompatibility(ctx, id, input.CarIDs); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set car compatibility")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, id)
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) ApproveProduct(ctx context.Context, id uuid.UUID, approved bool) (*models.Product, error) {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProduct(ctx, id, map[string]any{"is_approved": approved}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve product")
	}
	return s.GetProduct(ctx, id)
}

// AttachProductDocument stores the URL of an uploaded PDF in the slot the
// kind selects.
func (s *service) AttachProductDocument(ctx context.Context, id uuid.UUID, kind DocumentKind, url string) (*models.Product, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown document kind").
			WithDetails(map[string]any{"kind": string(kind)})
	}
	if url == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document url required")
	}
	if _, err := s.GetProduct(ctx, id); err != nil {
		return nil, err
	}

	column := "datasheet_url"
	if kind == DocumentInstallGuide {
		column = "install_guide_url"
	}
	if err := s.repo.UpdateProduct(ctx, id, map[string]any{column: url}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach product document")
	}
	return s.GetProduct(ctx, id)
}

// AddProductImage links an uploaded image. The first image becomes primary
// automatically, matching the storefront display rules.
func (s *service) AddProductImage(ctx context.Context, productID uuid.UUID, input ImageInput) (*models.ProductImage, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	count, err := s.repo.CountProductImages(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count product images")
	}
	image := &models.ProductImage{
		ProductID: productID,
		URL:       input.URL,
		IsPrimary: input.IsPrimary || count == 0,
		SortOrder: input.SortOrder,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		// Only one image per product may carry the primary flag.
		if image.IsPrimary && count > 0 {
			if err := repo.ClearPrimaryImages(ctx, productID); err != nil {
				return err
			}
		}
		_, err := repo.CreateProductImage(ctx, image)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product image")
	}
	return image, nil
}

// SetPrimaryImage makes the image the only primary one for its product.
func (s *service) SetPrimaryImage(ctx context.Context, imageID uuid.UUID) (*models.ProductImage, error) {
	image, err := s.repo.FindProductImage(ctx, imageID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product image not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product image")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.ClearPrimaryImages(ctx, image.ProductID); err != nil {
			return err
		}
		return repo.UpdateProductImage(ctx, imageID, map[string]any{"is_primary": true})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set primary image")
	}

	image.IsPrimary = true
	return image, nil
}

func (s *service) RemoveProductImage(ctx context.Context, imageID uuid.UUID) error {
	if err := s.repo.DeleteProductImage(ctx, imageID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product image")
	}
	return nil
}

func (s *service) AddVariant(ctx context.Context, productID uuid.UUID, input VariantInput) (*models.ProductVariant, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	variant, err := s.repo.CreateVariant(ctx, &models.ProductVariant{
		ProductID:     productID,
		Name:          input.Name,
		SKU:           input.SKU,
		PriceOverride: input.PriceOverride,
		StockQuantity: input.StockQuantity,
		IsActive:      true,
	})
	if err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "variant sku already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create variant")
	}
	return variant, nil
}

func (s *service) RemoveVariant(ctx context.Context, variantID uuid.UUID) error {
	if err := s.repo.DeleteVariant(ctx, variantID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete variant")
	}
	return nil
}

// validateProductInput enforces the category pairing rule: the subcategory
// must be a child of the selected top-level category.
func (s *service) validateProductInput(ctx context.Context, input ProductInput) error {
	if input.Name == "" || input.SKU == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name and sku required")
	}
	if input.ManufacturerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "manufacturer required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	sub, err := s.repo.FindCategory(ctx, input.SubcategoryID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "subcategory not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subcategory")
	}
	if sub.ParentID == nil || *sub.ParentID != input.CategoryID {
		return pkgerrors.New(pkgerrors.CodeValidation, "subcategory does not belong to the selected category")
	}
	return nil
}
