// Package forms coerces raw form submissions into typed values.
package forms

import (
	"math"
	"net/url"
	"strings"

	"github.com/diewo77/invoice-dashboard/internal/models"
	"github.com/diewo77/invoice-dashboard/validation"
	"github.com/shopspring/decimal"
)

// Form field names as posted by the invoice forms.
const (
	FieldCustomerID = "customerId"
	FieldAmount     = "amount"
	FieldStatus     = "status"
)

var (
	hundred   = decimal.NewFromInt(100)
	maxCents  = decimal.NewFromInt(math.MaxInt64)
	minCents  = decimal.NewFromInt(math.MinInt64)
	statusSet = func() []string {
		s := make([]string, len(models.InvoiceStatuses))
		for i, st := range models.InvoiceStatuses {
			s[i] = string(st)
		}
		return s
	}()
)

// InvoiceInput is a validated create/update submission. Id and date are
// never read from the form.
type InvoiceInput struct {
	CustomerID string
	Amount     decimal.Decimal // major units as entered
	Status     models.InvoiceStatus
}

// AmountCents converts Amount to minor units, rounding half away from zero.
func (in InvoiceInput) AmountCents() int64 {
	return in.Amount.Mul(hundred).Round(0).IntPart()
}

// ParseInvoice validates the customerId, amount and status fields of form.
// Every failing field is reported in the returned *validation.Error.
func ParseInvoice(form url.Values) (InvoiceInput, error) {
	v := make(validation.Violations)

	customerID := strings.TrimSpace(form.Get(FieldCustomerID))
	validation.Required(FieldCustomerID, customerID, v)

	amount, code := parseAmount(form.Get(FieldAmount))
	if code != "" {
		v[FieldAmount] = code
	}

	status := form.Get(FieldStatus)
	validation.OneOf(FieldStatus, status, statusSet, v)

	if err := v.Err(); err != nil {
		return InvoiceInput{}, err
	}
	return InvoiceInput{
		CustomerID: customerID,
		Amount:     amount,
		Status:     models.InvoiceStatus(status),
	}, nil
}

func parseAmount(raw string) (decimal.Decimal, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, validation.CodeRequired
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, validation.CodeInvalidNumber
	}
	cents := d.Mul(hundred).Round(0)
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return decimal.Zero, validation.CodeOutOfRange
	}
	return d, ""
}
