package repository

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/diewo77/invoice-dashboard/internal/models"
	"gorm.io/gorm"
)

// ItemsPerPage is the listing page size.
const ItemsPerPage = 6

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("invoice not found")

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Insert stores a new invoice. The id is generated when empty.
func (r *InvoiceRepository) Insert(ctx context.Context, inv *models.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

// Update sets customer_id, amount and status on the row matching id.
// Matching no row is not an error.
func (r *InvoiceRepository) Update(ctx context.Context, id string, f models.InvoiceFields) error {
	return r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"customer_id": f.CustomerID,
			"amount":      f.Amount,
			"status":      f.Status,
		}).Error
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Invoice{}).Error
}

// GetByID fetch a single invoice by ID
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// filtered joins customers and applies the case-insensitive search on
// name, email, amount, date and status.
func (r *InvoiceRepository) filtered(ctx context.Context, query string) *gorm.DB {
	q := r.db.WithContext(ctx).
		Table("invoices").
		Joins("JOIN customers ON invoices.customer_id = customers.id")
	if query = strings.TrimSpace(query); query != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
		q = q.Where(
			`LOWER(customers.name) LIKE ? ESCAPE '\' OR LOWER(customers.email) LIKE ? ESCAPE '\' OR CAST(invoices.amount AS TEXT) LIKE ? ESCAPE '\' OR invoices.date LIKE ? ESCAPE '\' OR LOWER(invoices.status) LIKE ? ESCAPE '\'`,
			like, like, like, like, like,
		)
	}
	return q
}

// Search returns one page (1-based) of invoices matching query, newest first.
func (r *InvoiceRepository) Search(ctx context.Context, query string, page int) ([]models.InvoiceRow, error) {
	if page < 1 {
		page = 1
	}
	var rows []models.InvoiceRow
	err := r.filtered(ctx, query).
		Select("invoices.id, invoices.customer_id, invoices.amount, invoices.status, invoices.date, customers.name, customers.email, customers.image_url").
		Order("invoices.date DESC").
		Order("invoices.id").
		Limit(ItemsPerPage).
		Offset((page - 1) * ItemsPerPage).
		Scan(&rows).Error
	return rows, err
}

// CountPages returns the number of listing pages for query.
func (r *InvoiceRepository) CountPages(ctx context.Context, query string) (int, error) {
	var total int64
	if err := r.filtered(ctx, query).Count(&total).Error; err != nil {
		return 0, err
	}
	return int(math.Ceil(float64(total) / ItemsPerPage)), nil
}
