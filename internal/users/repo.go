package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a users repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Omit("Manufacturer", "Shop").Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *repository) CreateManufacturer(ctx context.Context, profile *models.Manufacturer) (*models.Manufacturer, error) {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *repository) CreateShop(ctx context.Context, profile *models.Shop) (*models.Shop, error) {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *repository) FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Manufacturer").
		Preload("Shop").
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Manufacturer").
		Preload("Shop").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) ListUsers(ctx context.Context, params pagination.Params, filters ListFilters) (*UserList, error) {
	normalized := pagination.Normalize(params)

	query := r.db.WithContext(ctx).Model(&models.User{})
	if filters.Role != nil {
		query = query.Where("users.role = ?", *filters.Role)
	}
	if filters.Active != nil {
		query = query.Where("users.is_active = ?", *filters.Active)
	}
	if filters.Search != "" {
		// LOWER+LIKE instead of ILIKE keeps the query portable to sqlite
		pattern := fmt.Sprintf("%%%s%%", strings.ToLower(filters.Search))
		query = query.
			Joins("LEFT JOIN manufacturers ON manufacturers.user_id = users.id").
			Joins("LEFT JOIN shops ON shops.user_id = users.id").
			Where("LOWER(users.username) LIKE ? OR LOWER(users.email) LIKE ? OR LOWER(manufacturers.company_name) LIKE ? OR LOWER(shops.shop_name) LIKE ?",
				pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.User
	err := query.
		Preload("Manufacturer").
		Preload("Shop").
		Order("users.created_at DESC").
		Offset(normalized.Offset()).
		Limit(normalized.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return &UserList{
		Users: rows,
		Page:  pagination.BuildPage(normalized, total),
	}, nil
}

func (r *repository) UpdateUser(ctx context.Context, userID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(updates).Error
}

func (r *repository) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", userID).
		Delete(&models.User{}).Error
}

func (r *repository) DeleteManufacturerByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Manufacturer{}).Error
}

func (r *repository) DeleteShopByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Shop{}).Error
}
