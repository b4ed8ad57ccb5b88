package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
	pkgerrors "github.com/farmansunasara/sparehub-b2b-platform/pkg/errors"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL,
  parent_id TEXT,
  image TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS brands (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  logo TEXT,
  description TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS cars (
  id TEXT PRIMARY KEY,
  make TEXT NOT NULL,
  model TEXT NOT NULL,
  year INTEGER NOT NULL,
  created_at DATETIME,
  UNIQUE (make, model, year)
);`,
		`CREATE TABLE IF NOT EXISTS manufacturers (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  company_name TEXT NOT NULL,
  contact_name TEXT NOT NULL,
  phone TEXT NOT NULL,
  gst TEXT,
  address TEXT NOT NULL,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  country TEXT NOT NULL,
  website TEXT,
  product_categories TEXT,
  logo TEXT,
  license TEXT,
  terms_accepted INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  manufacturer_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  sku TEXT NOT NULL UNIQUE,
  category_id TEXT NOT NULL,
  subcategory_id TEXT NOT NULL,
  brand_id TEXT,
  price NUMERIC NOT NULL,
  discount NUMERIC NOT NULL DEFAULT 0,
  gst_rate NUMERIC NOT NULL DEFAULT 0,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  min_order_qty INTEGER NOT NULL DEFAULT 1,
  max_order_qty INTEGER,
  weight_kg NUMERIC,
  material TEXT,
  technical_specs TEXT,
  datasheet_url TEXT,
  install_guide_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_approved INTEGER NOT NULL DEFAULT 0,
  is_featured INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_images (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  url TEXT NOT NULL,
  is_primary INTEGER NOT NULL DEFAULT 0,
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_variants (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  sku TEXT NOT NULL UNIQUE,
  price_override NUMERIC,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_car_compatibilities (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  car_id TEXT NOT NULL,
  notes TEXT,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type gormTx struct {
	db *gorm.DB
}

func (g gormTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

func newCatalogService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), gormTx{db: db})
	require.NoError(t, err)
	return svc
}

func seedCategoryPair(t *testing.T, svc Service) (parent, child *models.Category) {
	t.Helper()
	ctx := context.Background()

	parent, err := svc.CreateCategory(ctx, CategoryInput{Name: "Engine"})
	require.NoError(t, err)
	child, err = svc.CreateCategory(ctx, CategoryInput{Name: "Filters", ParentID: &parent.ID})
	require.NoError(t, err)
	return parent, child
}

func seedManufacturer(t *testing.T, db *gorm.DB) *models.Manufacturer {
	t.Helper()
	profile := &models.Manufacturer{
		ID: uuid.New(), UserID: uuid.New(),
		CompanyName: "Acme Parts", ContactName: "A", Phone: "1",
		Address: "a", City: "Pune", State: "MH", Country: "IN",
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func productInput(manufacturerID, categoryID, subcategoryID uuid.UUID) ProductInput {
	return ProductInput{
		ManufacturerID: manufacturerID,
		Name:           "Oil Filter",
		SKU:            "OF-100",
		CategoryID:     categoryID,
		SubcategoryID:  subcategoryID,
		Price:          decimal.NewFromInt(250),
		StockQuantity:  10,
	}
}

func TestCategoryTreeIsTwoLevels(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	_, child := seedCategoryPair(t, svc)

	_, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "Paper", ParentID: &child.ID})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestListCategoriesReturnsTopLevelWithChildren(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	seedCategoryPair(t, svc)

	rows, err := svc.ListCategories(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Engine", rows[0].Name)
	require.Len(t, rows[0].Children, 1)
	assert.Equal(t, "Filters", rows[0].Children[0].Name)
}

func TestCategorySlugDerivedFromName(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CategoryInput{Name: "Engine & Cooling Parts"})
	require.NoError(t, err)
	assert.Equal(t, "engine-cooling-parts", category.Slug)

	category, err = svc.UpdateCategory(ctx, category.ID, CategoryInput{Name: "Braking"})
	require.NoError(t, err)
	assert.Equal(t, "braking", category.Slug)
}

func TestCreateBrandStoresDescription(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	description := "OEM electrical components"
	brand, err := svc.CreateBrand(ctx, BrandInput{Name: "Bosch", Description: &description})
	require.NoError(t, err)
	assert.Equal(t, description, brand.Description)
}

func TestCreateCarRequiresMakeModelYear(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	_, err := svc.CreateCar(ctx, CarInput{Make: "Maruti", Model: "Swift"})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	car, err := svc.CreateCar(ctx, CarInput{Make: "Maruti", Model: "Swift", Year: 2020})
	require.NoError(t, err)
	assert.Equal(t, 2020, car.Year)

	rows, err := svc.ListCars(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Maruti", rows[0].Make)
}

func TestCreateProductEnforcesCategoryPairing(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	parent, child := seedCategoryPair(t, svc)
	other, err := svc.CreateCategory(ctx, CategoryInput{Name: "Suspension"})
	require.NoError(t, err)
	manufacturer := seedManufacturer(t, db)

	// child belongs to parent, not to other
	input := productInput(manufacturer.ID, other.ID, child.ID)
	_, err = svc.CreateProduct(ctx, input)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	// matching pair succeeds
	input = productInput(manufacturer.ID, parent.ID, child.ID)
	product, err := svc.CreateProduct(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "Oil Filter", product.Name)
	assert.False(t, product.IsApproved)
}

func TestListProductsSearchIsCaseInsensitive(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	parent, child := seedCategoryPair(t, svc)
	manufacturer := seedManufacturer(t, db)
	_, err := svc.CreateProduct(ctx, productInput(manufacturer.ID, parent.ID, child.ID))
	require.NoError(t, err)

	list, err := svc.ListProducts(ctx, pagination.Params{Page: 1, Limit: 10}, ProductFilters{Search: "OIL Fil"})
	require.NoError(t, err)
	require.Len(t, list.Products, 1)

	list, err = svc.ListProducts(ctx, pagination.Params{Page: 1, Limit: 10}, ProductFilters{Search: "clutch"})
	require.NoError(t, err)
	assert.Empty(t, list.Products)
}

func TestCreateProductWithCarCompatibility(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	parent, child := seedCategoryPair(t, svc)
	manufacturer := seedManufacturer(t, db)
	car, err := svc.CreateCar(ctx, CarInput{Make: "Maruti", Model: "Swift", Year: 2020})
	require.NoError(t, err)

	input := productInput(manufacturer.ID, parent.ID, child.ID)
	input.CarIDs = []uuid.UUID{car.ID}
	product, err := svc.CreateProduct(ctx, input)
	require.NoError(t, err)

	require.Len(t, product.CarCompatibility, 1)
	require.NotNil(t, product.CarCompatibility[0].Car)
	assert.Equal(t, "Swift", product.CarCompatibility[0].Car.Model)
}

func TestFirstProductImageBecomesPrimary(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	parent, child := seedCategoryPair(t, svc)
	manufacturer := seedManufacturer(t, db)
	product, err := svc.CreateProduct(ctx, productInput(manufacturer.ID, parent.ID, child.ID))
	require.NoError(t, err)

	first, err := svc.AddProductImage(ctx, product.ID, ImageInput{URL: "/media/a.png"})
	require.NoError(t, err)
	assert.True(t, first.IsPrimary)

	second, err := svc.AddProductImage(ctx, product.ID, ImageInput{URL: "/media/b.png"})
	require.NoError(t, err)
	assert.False(t, second.IsPrimary)
}

func TestSetPrimaryImageClearsOthers(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	parent, child := seedCategoryPair(t, svc)
	manufacturer := seedManufacturer(t, db)
	product, err := svc.CreateProduct(ctx, productInput(manufacturer.ID, parent.ID, child.ID))
	require.NoError(t, err)

	first, err := svc.AddProductImage(ctx, product.ID, ImageInput{URL: "/media/a.png"})
	require.NoError(t, err)
	second, err := svc.AddProductImage(ctx, product.ID, ImageInput{URL: "/media/b.png"})
	require.NoError(t, err)

	promoted, err := svc.SetPrimaryImage(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsPrimary)

	var count int64
	require.NoError(t, db.Model(&models.ProductImage{}).
		Where("product_id = ? AND is_primary = ?", product.ID, true).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var demoted models.ProductImage
	require.NoError(t, db.Where("id = ?", first.ID).First(&demoted).Error)
	assert.False(t, demoted.IsPrimary)
}

func TestAttachProductDocument(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	parent, child := seedCategoryPair(t, svc)
	manufacturer := seedManufacturer(t, db)
	product, err := svc.CreateProduct(ctx, productInput(manufacturer.ID, parent.ID, child.ID))
	require.NoError(t, err)

	updated, err := svc.AttachProductDocument(ctx, product.ID, DocumentDatasheet, "/media/products/docs/sheet.pdf")
	require.NoError(t, err)
	require.NotNil(t, updated.DatasheetURL)
	assert.Equal(t, "/media/products/docs/sheet.pdf", *updated.DatasheetURL)
	assert.Nil(t, updated.InstallGuideURL)

	updated, err = svc.AttachProductDocument(ctx, product.ID, DocumentInstallGuide, "/media/products/docs/guide.pdf")
	require.NoError(t, err)
	require.NotNil(t, updated.InstallGuideURL)
	assert.Equal(t, "/media/products/docs/guide.pdf", *updated.InstallGuideURL)

	_, err = svc.AttachProductDocument(ctx, product.ID, DocumentKind("brochure"), "/media/x.pdf")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestListSubcategoriesScopedToParent(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	parent, child := seedCategoryPair(t, svc)
	other, err := svc.CreateCategory(ctx, CategoryInput{Name: "Suspension"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, CategoryInput{Name: "Springs", ParentID: &other.ID})
	require.NoError(t, err)

	rows, err := svc.ListSubcategories(ctx, parent.ID, false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, child.ID, rows[0].ID)

	// a subcategory has no subcategories of its own
	_, err = svc.ListSubcategories(ctx, child.ID, false)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestApproveProduct(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	parent, child := seedCategoryPair(t, svc)
	manufacturer := seedManufacturer(t, db)
	product, err := svc.CreateProduct(ctx, productInput(manufacturer.ID, parent.ID, child.ID))
	require.NoError(t, err)

	approved, err := svc.ApproveProduct(ctx, product.ID, true)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
}

func TestListProductsFiltersByManufacturer(t *testing.T) {
	db := setupCatalogTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	parent, child := seedCategoryPair(t, svc)
	m1 := seedManufacturer(t, db)
	m2 := seedManufacturer(t, db)

	in1 := productInput(m1.ID, parent.ID, child.ID)
	_, err := svc.CreateProduct(ctx, in1)
	require.NoError(t, err)

	in2 := productInput(m2.ID, parent.ID, child.ID)
	in2.SKU = "OF-200"
	_, err = svc.CreateProduct(ctx, in2)
	require.NoError(t, err)

	list, err := svc.ListProducts(ctx, pagination.Params{}, ProductFilters{ManufacturerID: &m1.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Page.TotalCount)
}
