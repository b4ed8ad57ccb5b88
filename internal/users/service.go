package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/config"
	dbpkg "github.com/farmansunasara/sparehub-b2b-platform/pkg/db"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/enums"
	pkgerrors "github.com/farmansunasara/sparehub-b2b-platform/pkg/errors"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/pagination"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/security"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines account operations.
type Service interface {
	Create(ctx context.Context, input CreateUserInput) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	Get(ctx context.Context, userID uuid.UUID) (*models.User, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*UserList, error)
	Update(ctx context.Context, input UpdateUserInput) (*models.User, error)
	ToggleActive(ctx context.Context, userID uuid.UUID) (*models.User, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     Repository
	tx       txRunner
	password config.PasswordConfig
}

// NewService builds a users service with the required dependencies.
func NewService(repo Repository, tx txRunner, password config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, password: password}, nil
}

func (s *service) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", input.Role))
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "hash password")
	}

	var created *models.User
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user, err := repo.CreateUser(ctx, &models.User{
			Username:     username,
			Email:        strings.TrimSpace(input.Email),
			PasswordHash: hash,
			Role:         input.Role,
			IsActive:     true,
			IsStaff:      input.IsStaff,
		})
		if err != nil {
			if dbpkg.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "username or email already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}

		if err := createProfileForRole(ctx, repo, user, input.Manufacturer, input.Shop); err != nil {
			return err
		}

		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, created.ID)
}

func (s *service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is deactivated")
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateUser(ctx, user.ID, map[string]any{"last_login_at": now}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record login")
	}
	user.LastLoginAt = &now
	return user, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	user, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*UserList, error) {
	list, err := s.repo.ListUsers(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return list, nil
}

// Update edits account fields. Changing the role drops the profile tied to
// the old role and creates a blank one for the new role.
func (s *service) Update(ctx context.Context, input UpdateUserInput) (*models.User, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.Role != nil && !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", *input.Role))
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user, err := repo.FindUser(ctx, input.UserID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}

		updates := map[string]any{}
		if input.Username != nil {
			updates["username"] = strings.TrimSpace(*input.Username)
		}
		if input.Email != nil {
			updates["email"] = strings.TrimSpace(*input.Email)
		}
		if input.IsStaff != nil {
			updates["is_staff"] = *input.IsStaff
		}

		if input.Role != nil && *input.Role != user.Role {
			if err := swapProfile(ctx, repo, user, *input.Role); err != nil {
				return err
			}
			updates["role"] = *input.Role
		}

		if err := repo.UpdateUser(ctx, user.ID, updates); err != nil {
			if dbpkg.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "username or email already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, input.UserID)
}

func (s *service) ToggleActive(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateUser(ctx, user.ID, map[string]any{"is_active": !user.IsActive}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle user status")
	}
	return s.Get(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	return nil
}

func createProfileForRole(ctx context.Context, repo Repository, user *models.User, mInput *ManufacturerInput, sInput *ShopInput) error {
	switch user.Role {
	case enums.UserRoleManufacturer:
		profile := &models.Manufacturer{UserID: user.ID}
		if mInput != nil {
			profile.CompanyName = mInput.CompanyName
			profile.ContactName = mInput.ContactName
			profile.Phone = mInput.Phone
			profile.GST = mInput.GST
			profile.Address = mInput.Address
			profile.City = mInput.City
			profile.State = mInput.State
			profile.Country = mInput.Country
			profile.Website = mInput.Website
		}
		if _, err := repo.CreateManufacturer(ctx, profile); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create manufacturer profile")
		}
	case enums.UserRoleShop:
		profile := &models.Shop{UserID: user.ID}
		if sInput != nil {
			profile.ShopName = sInput.ShopName
			profile.ContactName = sInput.ContactName
			profile.Phone = sInput.Phone
			profile.GST = sInput.GST
			profile.Address = sInput.Address
			profile.City = sInput.City
			profile.State = sInput.State
			profile.Country = sInput.Country
			profile.BusinessType = sInput.BusinessType
		}
		if _, err := repo.CreateShop(ctx, profile); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shop profile")
		}
	}
	return nil
}

func swapProfile(ctx context.Context, repo Repository, user *models.User, newRole enums.UserRole) error {
	switch user.Role {
	case enums.UserRoleManufacturer:
		if err := repo.DeleteManufacturerByUser(ctx, user.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "drop manufacturer profile")
		}
	case enums.UserRoleShop:
		if err := repo.DeleteShopByUser(ctx, user.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "drop shop profile")
		}
	}

	swapped := *user
	swapped.Role = newRole
	return createProfileForRole(ctx, repo, &swapped, nil, nil)
}
