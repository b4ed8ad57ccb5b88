package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/config"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/enums"
	pkgerrors "github.com/farmansunasara/sparehub-b2b-platform/pkg/errors"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/pagination"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/security"
)

type stubUsersRepo struct {
	users         map[uuid.UUID]*models.User
	manufacturers map[uuid.UUID]*models.Manufacturer
	shops         map[uuid.UUID]*models.Shop
	updates       map[string]any
}

func newStubUsersRepo() *stubUsersRepo {
	return &stubUsersRepo{
		users:         map[uuid.UUID]*models.User{},
		manufacturers: map[uuid.UUID]*models.Manufacturer{},
		shops:         map[uuid.UUID]*models.Shop{},
	}
}

func (s *stubUsersRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubUsersRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *stubUsersRepo) CreateManufacturer(ctx context.Context, profile *models.Manufacturer) (*models.Manufacturer, error) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	s.manufacturers[profile.UserID] = profile
	return profile, nil
}

func (s *stubUsersRepo) CreateShop(ctx context.Context, profile *models.Shop) (*models.Shop, error) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	s.shops[profile.UserID] = profile
	return profile, nil
}

func (s *stubUsersRepo) FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	user.Manufacturer = s.manufacturers[userID]
	user.Shop = s.shops[userID]
	return user, nil
}

func (s *stubUsersRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUsersRepo) ListUsers(ctx context.Context, params pagination.Params, filters ListFilters) (*UserList, error) {
	rows := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		rows = append(rows, *user)
	}
	return &UserList{Users: rows, Page: pagination.BuildPage(params, int64(len(rows)))}, nil
}

func (s *stubUsersRepo) UpdateUser(ctx context.Context, userID uuid.UUID, updates map[string]any) error {
	user, ok := s.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.updates = updates
	if role, ok := updates["role"].(enums.UserRole); ok {
		user.Role = role
	}
	if active, ok := updates["is_active"].(bool); ok {
		user.IsActive = active
	}
	return nil
}

func (s *stubUsersRepo) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	delete(s.users, userID)
	return nil
}

func (s *stubUsersRepo) DeleteManufacturerByUser(ctx context.Context, userID uuid.UUID) error {
	delete(s.manufacturers, userID)
	return nil
}

func (s *stubUsersRepo) DeleteShopByUser(ctx context.Context, userID uuid.UUID) error {
	delete(s.shops, userID)
	return nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func newUsersService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, stubTx{}, testPasswordConfig())
	require.NoError(t, err)
	return svc
}

func TestCreateManufacturerUserGetsProfile(t *testing.T) {
	repo := newStubUsersRepo()
	svc := newUsersService(t, repo)

	user, err := svc.Create(context.Background(), CreateUserInput{
		Username:     "acme",
		Email:        "acme@example.com",
		Password:     "correct horse",
		Role:         enums.UserRoleManufacturer,
		Manufacturer: &ManufacturerInput{CompanyName: "Acme Parts", City: "Pune"},
	})
	require.NoError(t, err)

	assert.Equal(t, enums.UserRoleManufacturer, user.Role)
	require.NotNil(t, user.Manufacturer)
	assert.Equal(t, "Acme Parts", user.Manufacturer.CompanyName)
	assert.Nil(t, user.Shop)

	profile := ProfileFor(user)
	require.NotNil(t, profile)
	assert.Equal(t, "Acme Parts", profile.DisplayName())
}

func TestCreateAdminUserHasNoProfile(t *testing.T) {
	repo := newStubUsersRepo()
	svc := newUsersService(t, repo)

	user, err := svc.Create(context.Background(), CreateUserInput{
		Username: "root",
		Email:    "root@example.com",
		Password: "correct horse",
		Role:     enums.UserRoleAdmin,
	})
	require.NoError(t, err)
	assert.Nil(t, ProfileFor(user))
}

func TestCreateUserRejectsBadRole(t *testing.T) {
	svc := newUsersService(t, newStubUsersRepo())

	_, err := svc.Create(context.Background(), CreateUserInput{
		Username: "x", Email: "x@example.com", Password: "pw-pw-pw",
		Role: enums.UserRole("superuser"),
	})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestAuthenticateSuccessRecordsLogin(t *testing.T) {
	repo := newStubUsersRepo()
	svc := newUsersService(t, repo)

	created, err := svc.Create(context.Background(), CreateUserInput{
		Username: "shopkeeper", Email: "s@example.com", Password: "correct horse",
		Role: enums.UserRoleShop,
	})
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "shopkeeper", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotNil(t, user.LastLoginAt)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := newStubUsersRepo()
	svc := newUsersService(t, repo)

	_, err := svc.Create(context.Background(), CreateUserInput{
		Username: "shopkeeper", Email: "s@example.com", Password: "correct horse",
		Role: enums.UserRoleShop,
	})
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "shopkeeper", "wrong")
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	repo := newStubUsersRepo()
	svc := newUsersService(t, repo)

	hash, err := security.HashPassword("correct horse", testPasswordConfig())
	require.NoError(t, err)
	id := uuid.New()
	repo.users[id] = &models.User{
		ID: id, Username: "ghost", Email: "g@example.com",
		PasswordHash: hash, Role: enums.UserRoleShop, IsActive: false,
	}

	_, err = svc.Authenticate(context.Background(), "ghost", "correct horse")
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestUpdateRoleSwapsProfile(t *testing.T) {
	repo := newStubUsersRepo()
	svc := newUsersService(t, repo)

	user, err := svc.Create(context.Background(), CreateUserInput{
		Username: "acme", Email: "acme@example.com", Password: "correct horse",
		Role:         enums.UserRoleManufacturer,
		Manufacturer: &ManufacturerInput{CompanyName: "Acme Parts"},
	})
	require.NoError(t, err)
	require.NotNil(t, repo.manufacturers[user.ID])

	newRole := enums.UserRoleShop
	updated, err := svc.Update(context.Background(), UpdateUserInput{
		UserID: user.ID,
		Role:   &newRole,
	})
	require.NoError(t, err)

	assert.Equal(t, enums.UserRoleShop, updated.Role)
	assert.Nil(t, repo.manufacturers[user.ID])
	require.NotNil(t, repo.shops[user.ID])
}

func TestToggleActiveFlips(t *testing.T) {
	repo := newStubUsersRepo()
	svc := newUsersService(t, repo)

	user, err := svc.Create(context.Background(), CreateUserInput{
		Username: "acme", Email: "acme@example.com", Password: "correct horse",
		Role: enums.UserRoleAdmin,
	})
	require.NoError(t, err)
	require.True(t, user.IsActive)

	toggled, err := svc.ToggleActive(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	toggled, err = svc.ToggleActive(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)
}

func TestDeleteMissingUser(t *testing.T) {
	svc := newUsersService(t, newStubUsersRepo())

	err := svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
