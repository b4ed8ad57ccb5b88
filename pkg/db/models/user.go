package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/enums"
)

// User represents the canonical identity entity. Every account carries a
// role tag; manufacturer and shop accounts own a 1:1 profile record.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Username     string         `gorm:"column:username;type:text;not null;uniqueIndex"`
	Email        string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	IsStaff      bool           `gorm:"column:is_staff;not null;default:false"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`

	Manufacturer *Manufacturer `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Shop         *Shop         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Manufacturer is the business profile for role=manufacturer users.
type Manufacturer struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	CompanyName       string    `gorm:"column:company_name;not null"`
	ContactName       string    `gorm:"column:contact_name;not null"`
	Phone             string    `gorm:"column:phone;not null"`
	GST               string    `gorm:"column:gst"`
	Address           string    `gorm:"column:address;not null"`
	City              string    `gorm:"column:city;not null"`
	State             string    `gorm:"column:state;not null"`
	Country           string    `gorm:"column:country;not null"`
	Website           *string   `gorm:"column:website"`
	ProductCategories string    `gorm:"column:product_categories"`
	Logo              *string   `gorm:"column:logo"`
	License           *string   `gorm:"column:license"`
	TermsAccepted     bool      `gorm:"column:terms_accepted;not null;default:false"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Shop is the business profile for role=shop users.
type Shop struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	ShopName      string    `gorm:"column:shop_name;not null"`
	ContactName   string    `gorm:"column:contact_name;not null"`
	Phone         string    `gorm:"column:phone;not null"`
	GST           string    `gorm:"column:gst"`
	Address       string    `gorm:"column:address;not null"`
	City          string    `gorm:"column:city;not null"`
	State         string    `gorm:"column:state;not null"`
	Country       string    `gorm:"column:country;not null"`
	Website       *string   `gorm:"column:website"`
	BusinessType  *string   `gorm:"column:business_type"`
	Logo          *string   `gorm:"column:logo"`
	License       *string   `gorm:"column:license"`
	TermsAccepted bool      `gorm:"column:terms_accepted;not null;default:false"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
