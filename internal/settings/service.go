package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
	pkgerrors "github.com/farmansunasara/sparehub-b2b-platform/pkg/errors"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/types"
)

// Service defines the per-user settings operations.
type Service interface {
	Upsert(ctx context.Context, userID uuid.UUID, input UpsertInput) (*models.Setting, error)
	Get(ctx context.Context, userID uuid.UUID, key string) (types.JSONMap, error)
	Merged(ctx context.Context, userID uuid.UUID) (types.JSONMap, error)
	TestEmail(ctx context.Context, cfg EmailSettings, recipient string) error
}

type service struct {
	repo   Repository
	mailer Mailer
}

// NewService builds a settings service with the required dependencies.
func NewService(repo Repository, mailer Mailer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if mailer == nil {
		return nil, fmt.Errorf("mailer required")
	}
	return &service{repo: repo, mailer: mailer}, nil
}

func (s *service) Upsert(ctx context.Context, userID uuid.UUID, input UpsertInput) (*models.Setting, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	key := strings.TrimSpace(input.Key)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "setting key required")
	}
	if input.Value == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "setting value required")
	}

	setting, err := s.repo.Upsert(ctx, &models.Setting{
		UserID:    userID,
		Key:       key,
		Value:     input.Value,
		UpdatedBy: &userID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert setting")
	}
	return setting, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID, key string) (types.JSONMap, error) {
	setting, err := s.repo.Find(ctx, userID, key)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return types.JSONMap{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load setting")
	}
	return setting.Value, nil
}

// Merged flattens the known documents into one map, later keys winning.
func (s *service) Merged(ctx context.Context, userID uuid.UUID) (types.JSONMap, error) {
	rows, err := s.repo.FindMany(ctx, userID, MergedKeys)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}

	byKey := make(map[string]types.JSONMap, len(rows))
	for _, row := range rows {
		byKey[row.Key] = row.Value
	}

	merged := types.JSONMap{}
	for _, key := range MergedKeys {
		for field, value := range byKey[key] {
			merged[field] = value
		}
	}
	return merged, nil
}

// TestEmail sends one message through the supplied SMTP settings without
// persisting them.
func (s *service) TestEmail(ctx context.Context, cfg EmailSettings, recipient string) error {
	if cfg.SMTPHost == "" || cfg.SMTPPort == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "smtp host and port required")
	}
	if recipient == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient required")
	}
	if err := s.mailer.SendTest(ctx, cfg, recipient); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send test email")
	}
	return nil
}

// DecodeEmailSettings converts the stored document into the typed shape.
func DecodeEmailSettings(value types.JSONMap) (EmailSettings, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return EmailSettings{}, err
	}
	var cfg EmailSettings
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return EmailSettings{}, err
	}
	return cfg, nil
}
