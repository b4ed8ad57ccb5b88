package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/pagination"
)

// Repository defines persistence operations for account tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	CreateManufacturer(ctx context.Context, profile *models.Manufacturer) (*models.Manufacturer, error)
	CreateShop(ctx context.Context, profile *models.Shop) (*models.Shop, error)
	FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context, params pagination.Params, filters ListFilters) (*UserList, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, updates map[string]any) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	DeleteManufacturerByUser(ctx context.Context, userID uuid.UUID) error
	DeleteShopByUser(ctx context.Context, userID uuid.UUID) error
}
