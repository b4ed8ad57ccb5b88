package settings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
)

// Repository defines persistence operations for per-user settings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Upsert(ctx context.Context, setting *models.Setting) (*models.Setting, error)
	Find(ctx context.Context, userID uuid.UUID, key string) (*models.Setting, error)
	FindMany(ctx context.Context, userID uuid.UUID, keys []string) ([]models.Setting, error)
}

// Mailer sends the settings-test message; swapped out in tests.
type Mailer interface {
	SendTest(ctx context.Context, cfg EmailSettings, to string) error
}
