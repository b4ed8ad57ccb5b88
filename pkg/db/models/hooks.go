package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ensureID assigns a client-side UUID when none is set, so inserts work on
// databases without gen_random_uuid(), such as the sqlite dev target.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error         { ensureID(&u.ID); return nil }
func (m *Manufacturer) BeforeCreate(*gorm.DB) error { ensureID(&m.ID); return nil }
func (s *Shop) BeforeCreate(*gorm.DB) error         { ensureID(&s.ID); return nil }

func (c *Category) BeforeCreate(*gorm.DB) error { ensureID(&c.ID); return nil }
func (b *Brand) BeforeCreate(*gorm.DB) error    { ensureID(&b.ID); return nil }
func (c *Car) BeforeCreate(*gorm.DB) error      { ensureID(&c.ID); return nil }

func (p *Product) BeforeCreate(*gorm.DB) error                 { ensureID(&p.ID); return nil }
func (i *ProductImage) BeforeCreate(*gorm.DB) error            { ensureID(&i.ID); return nil }
func (v *ProductVariant) BeforeCreate(*gorm.DB) error          { ensureID(&v.ID); return nil }
func (c *ProductCarCompatibility) BeforeCreate(*gorm.DB) error { ensureID(&c.ID); return nil }

func (o *Order) BeforeCreate(*gorm.DB) error             { ensureID(&o.ID); return nil }
func (a *OrderAddress) BeforeCreate(*gorm.DB) error      { ensureID(&a.ID); return nil }
func (p *OrderPayment) BeforeCreate(*gorm.DB) error      { ensureID(&p.ID); return nil }
func (u *OrderStatusUpdate) BeforeCreate(*gorm.DB) error { ensureID(&u.ID); return nil }

func (s *Setting) BeforeCreate(*gorm.DB) error { ensureID(&s.ID); return nil }
