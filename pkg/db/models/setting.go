package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/types"
)

// Setting stores one keyed JSON document per (user, key). Writes are
// upserts; there is no delete surface.
type Setting struct {
	ID        uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID     `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_settings_user_key"`
	Key       string        `gorm:"column:key;not null;uniqueIndex:idx_settings_user_key"`
	Value     types.JSONMap `gorm:"column:value;type:jsonb;serializer:json"`
	UpdatedBy *uuid.UUID    `gorm:"column:updated_by;type:uuid"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
