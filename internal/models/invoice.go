package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceStatus represents the status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// InvoiceStatuses lists every accepted status, in display order.
var InvoiceStatuses = []InvoiceStatus{InvoiceStatusPending, InvoiceStatusPaid}

// DateLayout is the storage format of Invoice.Date.
const DateLayout = "2006-01-02"

// Invoice is a row of the invoices table.
// Amount is stored in cents.
type Invoice struct {
	ID         string        `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID string        `gorm:"column:customer_id;type:uuid;not null;index" json:"customer_id"`
	Amount     int64         `gorm:"not null" json:"amount"`
	Status     InvoiceStatus `gorm:"size:20;not null" json:"status"`
	Date       string        `gorm:"size:10;not null" json:"date"`
}

// BeforeCreate assigns an id when the caller left it empty.
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// InvoiceFields are the columns an update may change.
type InvoiceFields struct {
	CustomerID string
	Amount     int64
	Status     InvoiceStatus
}

// InvoiceRow is an invoice joined with its customer for the listing page.
type InvoiceRow struct {
	ID         string        `json:"id"`
	CustomerID string        `json:"customer_id"`
	Amount     int64         `json:"amount"`
	Status     InvoiceStatus `json:"status"`
	Date       string        `json:"date"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	ImageURL   string        `json:"image_url"`
}
