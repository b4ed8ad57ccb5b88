package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a two-level tree: top-level rows have a nil ParentID and
// subcategories point at exactly one top-level parent. Slugs are derived
// from the name and unique among siblings.
type Category struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string     `gorm:"column:name;not null;uniqueIndex:idx_categories_name_parent"`
	Slug      string     `gorm:"column:slug;not null;uniqueIndex:idx_categories_slug_parent"`
	ParentID  *uuid.UUID `gorm:"column:parent_id;type:uuid;uniqueIndex:idx_categories_name_parent;uniqueIndex:idx_categories_slug_parent"`
	Parent    *Category  `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Children  []Category `gorm:"foreignKey:ParentID"`
	Image     *string    `gorm:"column:image"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

type Brand struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null;uniqueIndex"`
	Logo        *string   `gorm:"column:logo"`
	Description string    `gorm:"column:description;not null;default:''"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Car identifies one vehicle model-year a part can be compatible with.
// The make/model/year triple is the natural key.
type Car struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Make      string    `gorm:"column:make;not null;uniqueIndex:idx_cars_make_model_year"`
	Model     string    `gorm:"column:model;not null;uniqueIndex:idx_cars_make_model_year"`
	Year      int       `gorm:"column:year;not null;uniqueIndex:idx_cars_make_model_year"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
