package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is referenced by invoices through customer_id.
type Customer struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"size:255;not null" json:"email"`
	ImageURL string `gorm:"column:image_url;size:255" json:"image_url"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// All returns every model managed by AutoMigrate, parents first.
func All() []any {
	return []any{&Customer{}, &Invoice{}}
}
