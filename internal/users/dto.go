package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/db/models"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/enums"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/pagination"
)

// AccountProfile is the read surface shared by the role-specific profile
// records attached to an account.
type AccountProfile interface {
	DisplayName() string
	PublicFields() map[string]any
}

// ManufacturerProfile adapts the manufacturer row to AccountProfile.
type ManufacturerProfile struct {
	*models.Manufacturer
}

func (p ManufacturerProfile) DisplayName() string { return p.CompanyName }

func (p ManufacturerProfile) PublicFields() map[string]any {
	return map[string]any{
		"company_name": p.CompanyName,
		"contact_name": p.ContactName,
		"phone":        p.Phone,
		"city":         p.City,
		"state":        p.State,
		"country":      p.Country,
		"website":      p.Website,
	}
}

// ShopProfile adapts the shop row to AccountProfile.
type ShopProfile struct {
	*models.Shop
}

func (p ShopProfile) DisplayName() string { return p.ShopName }

func (p ShopProfile) PublicFields() map[string]any {
	return map[string]any{
		"shop_name":     p.ShopName,
		"contact_name":  p.ContactName,
		"phone":         p.Phone,
		"city":          p.City,
		"state":         p.State,
		"country":       p.Country,
		"business_type": p.BusinessType,
	}
}

// ProfileFor returns the profile matching the user's role, or nil when the
// role carries no profile (admins) or the row is missing.
func ProfileFor(user *models.User) AccountProfile {
	switch user.Role {
	case enums.UserRoleManufacturer:
		if user.Manufacturer != nil {
			return ManufacturerProfile{user.Manufacturer}
		}
	case enums.UserRoleShop:
		if user.Shop != nil {
			return ShopProfile{user.Shop}
		}
	}
	return nil
}

// ManufacturerInput carries the optional profile payload for manufacturer accounts.
type ManufacturerInput struct {
	CompanyName string  `json:"company_name"`
	ContactName string  `json:"contact_name"`
	Phone       string  `json:"phone"`
	GST         string  `json:"gst"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Country     string  `json:"country"`
	Website     *string `json:"website,omitempty"`
}

// ShopInput carries the optional profile payload for shop accounts.
type ShopInput struct {
	ShopName     string  `json:"shop_name"`
	ContactName  string  `json:"contact_name"`
	Phone        string  `json:"phone"`
	GST          string  `json:"gst"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Country      string  `json:"country"`
	BusinessType *string `json:"business_type,omitempty"`
}

// CreateUserInput captures an admin-driven account creation.
type CreateUserInput struct {
	Username     string             `json:"username" validate:"required,min=3"`
	Email        string             `json:"email" validate:"required,email"`
	Password     string             `json:"password" validate:"required,min=8"`
	Role         enums.UserRole     `json:"role" validate:"required"`
	IsStaff      bool               `json:"is_staff"`
	Manufacturer *ManufacturerInput `json:"manufacturer,omitempty"`
	Shop         *ShopInput         `json:"shop,omitempty"`
}

// UpdateUserInput is the partial account edit payload. A role change swaps
// the profile record to match the new role.
type UpdateUserInput struct {
	UserID uuid.UUID

	Username *string         `json:"username,omitempty"`
	Email    *string         `json:"email,omitempty" validate:"omitempty,email"`
	Role     *enums.UserRole `json:"role,omitempty"`
	IsStaff  *bool           `json:"is_staff,omitempty"`
}

// ListFilters narrows user listings.
type ListFilters struct {
	Role   *enums.UserRole
	Active *bool
	Search string
}

// UserList pairs one page of users with paging metadata.
type UserList struct {
	Users []models.User   `json:"users"`
	Page  pagination.Page `json:"page"`
}

// UserDTO is the wire representation of an account. The password hash never
// leaves the service layer.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Username    string         `json:"username"`
	Email       string         `json:"email"`
	Role        enums.UserRole `json:"role"`
	IsActive    bool           `json:"is_active"`
	IsStaff     bool           `json:"is_staff"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	Profile     map[string]any `json:"profile,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ToDTO converts the user row, flattening the role profile when present.
func ToDTO(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	dto := &UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		IsActive:    user.IsActive,
		IsStaff:     user.IsStaff,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
	if profile := ProfileFor(user); profile != nil {
		dto.Profile = profile.PublicFields()
	}
	return dto
}

// ToDTOs converts a slice of user rows.
func ToDTOs(users []models.User) []*UserDTO {
	dtos := make([]*UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, ToDTO(&users[i]))
	}
	return dtos
}
