package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/invoice-dashboard/internal/models"
	"github.com/diewo77/invoice-dashboard/internal/pagecache"
	"github.com/diewo77/invoice-dashboard/internal/repository"
	"github.com/diewo77/invoice-dashboard/validation"
)

var fixedNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

type fakeStore struct {
	inserted []models.Invoice
	updated  map[string]models.InvoiceFields
	deleted  []string
	err      error
}

func (s *fakeStore) Insert(_ context.Context, inv *models.Invoice) error {
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, *inv)
	return nil
}

func (s *fakeStore) Update(_ context.Context, id string, f models.InvoiceFields) error {
	if s.err != nil {
		return s.err
	}
	if s.updated == nil {
		s.updated = map[string]models.InvoiceFields{}
	}
	s.updated[id] = f
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeStore) calls() int {
	return len(s.inserted) + len(s.updated) + len(s.deleted)
}

type fakeCache struct {
	invalidated []string
}

func (c *fakeCache) Invalidate(path string) { c.invalidated = append(c.invalidated, path) }

func newActions(store InvoiceStore, cache Invalidator) *InvoiceActions {
	return NewInvoiceActions(store, cache).WithClock(func() time.Time { return fixedNow })
}

func invoiceForm(customerID, amount, status string) url.Values {
	return url.Values{"customerId": {customerID}, "amount": {amount}, "status": {status}}
}

func TestCreateInvoice_Success(t *testing.T) {
	store, cache := &fakeStore{}, &fakeCache{}
	a := newActions(store, cache)

	st, err := a.CreateInvoice(context.Background(), invoiceForm("123", "12.34", "pending"))
	require.NoError(t, err)

	assert.Equal(t, State{RedirectTo: InvoicesPath}, st)
	require.Len(t, store.inserted, 1)
	got := store.inserted[0]
	assert.Equal(t, "123", got.CustomerID)
	assert.Equal(t, int64(1234), got.Amount)
	assert.Equal(t, models.InvoiceStatusPending, got.Status)
	assert.Equal(t, "2026-10-19", got.Date)
	assert.Equal(t, []string{InvoicesPath}, cache.invalidated)
}

func TestCreateInvoice_DateIsUTC(t *testing.T) {
	store := &fakeStore{}
	// 08:00 on the 20th in UTC+10 is still the 19th in UTC.
	local := time.Date(2026, 10, 20, 8, 0, 0, 0, time.FixedZone("UTC+10", 10*60*60))
	a := NewInvoiceActions(store, &fakeCache{}).WithClock(func() time.Time { return local })

	_, err := a.CreateInvoice(context.Background(), invoiceForm("c", "1", "paid"))
	require.NoError(t, err)
	require.Len(t, store.inserted, 1)
	assert.Equal(t, "2026-10-19", store.inserted[0].Date)
}

func TestCreateInvoice_AmountIsRoundedCents(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"0.1", 10},
		{"0.29", 29},
		{"4.35", 435},
		{"1.005", 101},
		{"1234.5678", 123457},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			store := &fakeStore{}
			_, err := newActions(store, &fakeCache{}).CreateInvoice(context.Background(), invoiceForm("c", tt.amount, "paid"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, store.inserted[0].Amount)
		})
	}
}

func TestCreateAndUpdate_InvalidStatusSkipsPersistence(t *testing.T) {
	store, cache := &fakeStore{}, &fakeCache{}
	a := newActions(store, cache)
	ctx := context.Background()

	for _, status := range []string{"overdue", "", "PAID"} {
		_, err := a.CreateInvoice(ctx, invoiceForm("123", "1", status))
		var verr *validation.Error
		require.True(t, errors.As(err, &verr), "create status %q", status)
		assert.Contains(t, verr.Violations, "status")

		_, err = a.UpdateInvoice(ctx, "abc", invoiceForm("123", "1", status))
		require.True(t, errors.As(err, &verr), "update status %q", status)
	}

	assert.Zero(t, store.calls())
	assert.Empty(t, cache.invalidated)
}

func TestCreateInvoice_PersistenceFailure(t *testing.T) {
	store, cache := &fakeStore{err: errors.New("connection refused")}, &fakeCache{}
	a := newActions(store, cache)

	st, err := a.CreateInvoice(context.Background(), invoiceForm("123", "12.34", "pending"))
	require.NoError(t, err)
	assert.Equal(t, "Database Error: Failed to Create Invoice.", st.Message)
	assert.Empty(t, st.RedirectTo)
	assert.Empty(t, cache.invalidated)
}

func TestUpdateInvoice_Success(t *testing.T) {
	store, cache := &fakeStore{}, &fakeCache{}
	a := newActions(store, cache)

	st, err := a.UpdateInvoice(context.Background(), "abc", invoiceForm("456", "5.00", "paid"))
	require.NoError(t, err)

	assert.Equal(t, InvoicesPath, st.RedirectTo)
	assert.Equal(t, models.InvoiceFields{CustomerID: "456", Amount: 500, Status: models.InvoiceStatusPaid}, store.updated["abc"])
	assert.Equal(t, []string{InvoicesPath}, cache.invalidated)
}

func TestUpdateInvoice_ReadsOnlyInvoiceFields(t *testing.T) {
	store := &fakeStore{}
	f := invoiceForm("456", "5.00", "paid")
	f.Set("date", "1999-01-01")
	f.Set("id", "other")

	_, err := newActions(store, &fakeCache{}).UpdateInvoice(context.Background(), "abc", f)
	require.NoError(t, err)
	assert.Contains(t, store.updated, "abc")
	assert.NotContains(t, store.updated, "other")
}

func TestUpdateInvoice_PersistenceFailure(t *testing.T) {
	store, cache := &fakeStore{err: errors.New("deadlock")}, &fakeCache{}

	st, err := newActions(store, cache).UpdateInvoice(context.Background(), "abc", invoiceForm("456", "5.00", "paid"))
	require.NoError(t, err)
	assert.Equal(t, "Database Error: Failed to Update Invoice.", st.Message)
	assert.Empty(t, st.RedirectTo)
	assert.Empty(t, cache.invalidated)
}

// Deletion stays disabled by default; flip this test when it is enabled.
func TestDeleteInvoice_AlwaysFailsByDefault(t *testing.T) {
	store, cache := &fakeStore{}, &fakeCache{}
	a := newActions(store, cache)

	for _, id := range []string{"abc", "", "00000000-0000-0000-0000-000000000000"} {
		st, err := a.DeleteInvoice(context.Background(), id)
		assert.ErrorIs(t, err, ErrDeleteInvoice)
		assert.EqualError(t, err, "Failed to Delete Invoice")
		assert.Equal(t, State{}, st)
	}
	assert.Zero(t, store.calls())
	assert.Empty(t, cache.invalidated)
}

func TestDeleteInvoice_Enabled(t *testing.T) {
	store, cache := &fakeStore{}, &fakeCache{}
	a := newActions(store, cache)
	a.AllowDelete = true

	st, err := a.DeleteInvoice(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, State{Message: "Deleted Invoice."}, st)
	assert.Equal(t, []string{"abc"}, store.deleted)
	assert.Equal(t, []string{InvoicesPath}, cache.invalidated)
}

func TestDeleteInvoice_EnabledPersistenceFailure(t *testing.T) {
	store, cache := &fakeStore{err: errors.New("fk violation")}, &fakeCache{}
	a := newActions(store, cache)
	a.AllowDelete = true

	st, err := a.DeleteInvoice(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Database Error: Failed to Delete Invoice.", st.Message)
	assert.Empty(t, cache.invalidated)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func TestInvoiceActions_WithRepositoryAndPageCache(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewInvoiceRepository(db)
	cache := pagecache.New(time.Minute)
	a := newActions(repo, cache)
	ctx := context.Background()

	cache.Set(InvoicesPath, "", pagecache.Page{Status: 200})
	_, err := a.CreateInvoice(ctx, invoiceForm("123", "12.34", "pending"))
	require.NoError(t, err)
	_, cached := cache.Get(InvoicesPath, "")
	assert.False(t, cached, "listing invalidated after create")

	var created models.Invoice
	require.NoError(t, db.First(&created, "customer_id = ?", "123").Error)
	assert.Equal(t, int64(1234), created.Amount)
	assert.Equal(t, "2026-10-19", created.Date)

	// Update keeps the creation date even when the clock moved on.
	a.WithClock(func() time.Time { return fixedNow.AddDate(0, 1, 0) })
	st, err := a.UpdateInvoice(ctx, created.ID, invoiceForm("456", "5.00", "paid"))
	require.NoError(t, err)
	assert.Equal(t, InvoicesPath, st.RedirectTo)

	updated, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "456", updated.CustomerID)
	assert.Equal(t, int64(500), updated.Amount)
	assert.Equal(t, models.InvoiceStatusPaid, updated.Status)
	assert.Equal(t, "2026-10-19", updated.Date)
}
