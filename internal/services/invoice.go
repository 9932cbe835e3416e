package services

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/diewo77/invoice-dashboard/internal/forms"
	"github.com/diewo77/invoice-dashboard/internal/models"
)

// InvoicesPath is the invoice listing, invalidated and redirected to after
// every successful mutation.
const InvoicesPath = "/dashboard/invoices"

// Messages returned to the form when persistence fails.
const (
	MsgCreateFailed = "Database Error: Failed to Create Invoice."
	MsgUpdateFailed = "Database Error: Failed to Update Invoice."
	MsgDeleteFailed = "Database Error: Failed to Delete Invoice."
	MsgDeleted      = "Deleted Invoice."
)

// ErrDeleteInvoice is returned by DeleteInvoice while deletion is disabled.
// Its text is shown to users unchanged.
var ErrDeleteInvoice = errors.New("Failed to Delete Invoice")

// InvoiceStore is the persistence collaborator.
type InvoiceStore interface {
	Insert(ctx context.Context, inv *models.Invoice) error
	Update(ctx context.Context, id string, f models.InvoiceFields) error
	Delete(ctx context.Context, id string) error
}

// Invalidator marks cached responses for a path as stale.
type Invalidator interface {
	Invalidate(path string)
}

// State is the outcome of a mutation. Exactly one of Message and
// RedirectTo is set.
type State struct {
	Message    string `json:"message,omitempty"`
	RedirectTo string `json:"-"`
}

// InvoiceActions validates, persists, invalidates and redirects.
type InvoiceActions struct {
	store InvoiceStore
	cache Invalidator
	now   func() time.Time
	log   *slog.Logger

	// AllowDelete enables the delete path. It is off by default so that
	// DeleteInvoice keeps failing unconditionally.
	AllowDelete bool
}

func NewInvoiceActions(store InvoiceStore, cache Invalidator) *InvoiceActions {
	return &InvoiceActions{
		store: store,
		cache: cache,
		now:   time.Now,
		log:   slog.Default().With("component", "invoice_actions"),
	}
}

// WithClock replaces the time source used to stamp new invoices.
func (a *InvoiceActions) WithClock(now func() time.Time) *InvoiceActions {
	a.now = now
	return a
}

// CreateInvoice validates form, inserts the invoice dated today and
// redirects to the listing. A validation failure is returned as error;
// a persistence failure is returned as State.Message.
func (a *InvoiceActions) CreateInvoice(ctx context.Context, form url.Values) (State, error) {
	in, err := forms.ParseInvoice(form)
	if err != nil {
		return State{}, err
	}

	inv := &models.Invoice{
		CustomerID: in.CustomerID,
		Amount:     in.AmountCents(),
		Status:     in.Status,
		Date:       a.now().UTC().Format(models.DateLayout),
	}
	if err := a.store.Insert(ctx, inv); err != nil {
		a.log.Error("create invoice failed", "customer_id", in.CustomerID, "error", err)
		return State{Message: MsgCreateFailed}, nil
	}
	a.log.Info("invoice created", "id", inv.ID, "amount", inv.Amount, "status", inv.Status)

	a.cache.Invalidate(InvoicesPath)
	return State{RedirectTo: InvoicesPath}, nil
}

// UpdateInvoice sets customer, amount and status of invoice id. The date
// is never changed.
func (a *InvoiceActions) UpdateInvoice(ctx context.Context, id string, form url.Values) (State, error) {
	in, err := forms.ParseInvoice(url.Values{
		forms.FieldCustomerID: form[forms.FieldCustomerID],
		forms.FieldAmount:     form[forms.FieldAmount],
		forms.FieldStatus:     form[forms.FieldStatus],
	})
	if err != nil {
		return State{}, err
	}

	fields := models.InvoiceFields{
		CustomerID: in.CustomerID,
		Amount:     in.AmountCents(),
		Status:     in.Status,
	}
	if err := a.store.Update(ctx, id, fields); err != nil {
		a.log.Error("update invoice failed", "id", id, "error", err)
		return State{Message: MsgUpdateFailed}, nil
	}
	a.log.Info("invoice updated", "id", id, "amount", fields.Amount, "status", fields.Status)

	a.cache.Invalidate(InvoicesPath)
	return State{RedirectTo: InvoicesPath}, nil
}

// DeleteInvoice removes invoice id and invalidates the listing without
// redirecting. Unless AllowDelete is set it fails with ErrDeleteInvoice
// before doing any work.
func (a *InvoiceActions) DeleteInvoice(ctx context.Context, id string) (State, error) {
	if !a.AllowDelete {
		return State{}, ErrDeleteInvoice
	}

	if err := a.store.Delete(ctx, id); err != nil {
		a.log.Error("delete invoice failed", "id", id, "error", err)
		return State{Message: MsgDeleteFailed}, nil
	}
	a.log.Info("invoice deleted", "id", id)

	a.cache.Invalidate(InvoicesPath)
	return State{Message: MsgDeleted}, nil
}
