package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/diewo77/invoice-dashboard/httpx"
	"github.com/diewo77/invoice-dashboard/i18n"
	"github.com/diewo77/invoice-dashboard/internal/forms"
	"github.com/diewo77/invoice-dashboard/internal/models"
	"github.com/diewo77/invoice-dashboard/internal/repository"
	"github.com/diewo77/invoice-dashboard/internal/services"
	"github.com/diewo77/invoice-dashboard/validation"
	"github.com/diewo77/invoice-dashboard/view"
	"github.com/google/uuid"
)

// InvoiceReader serves the listing and edit pages.
type InvoiceReader interface {
	Search(ctx context.Context, query string, page int) ([]models.InvoiceRow, error)
	CountPages(ctx context.Context, query string) (int, error)
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
}

// CustomerReader fills the customer select of the invoice forms.
type CustomerReader interface {
	All(ctx context.Context) ([]models.Customer, error)
}

// InvoiceMutator is implemented by *services.InvoiceActions.
type InvoiceMutator interface {
	CreateInvoice(ctx context.Context, form url.Values) (services.State, error)
	UpdateInvoice(ctx context.Context, id string, form url.Values) (services.State, error)
	DeleteInvoice(ctx context.Context, id string) (services.State, error)
}

type InvoiceHandler struct {
	invoices  InvoiceReader
	customers CustomerReader
	actions   InvoiceMutator
}

func NewInvoiceHandler(invoices InvoiceReader, customers CustomerReader, actions InvoiceMutator) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, customers: customers, actions: actions}
}

// listing is the JSON shape of the invoice listing.
type listing struct {
	Items      []models.InvoiceRow `json:"items"`
	Query      string              `json:"query"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"total_pages"`
}

// formValues are the raw values echoed back into a re-rendered form.
type formValues struct {
	CustomerID string
	Amount     string
	Status     string
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	rows, err := h.invoices.Search(r.Context(), query, page)
	if err != nil {
		h.serverError(w, r, "list invoices", err)
		return
	}
	totalPages, err := h.invoices.CountPages(r.Context(), query)
	if err != nil {
		h.serverError(w, r, "count invoice pages", err)
		return
	}
	if rows == nil {
		rows = []models.InvoiceRow{}
	}

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, listing{Items: rows, Query: query, Page: page, TotalPages: totalPages})
		return
	}

	data := map[string]any{
		"Title":      "invoices",
		"Invoices":   rows,
		"Query":      query,
		"Page":       page,
		"TotalPages": totalPages,
		"PrevURL":    pageURL(r.URL, page-1),
		"NextURL":    pageURL(r.URL, page+1),
	}
	if err := view.Render(w, r, "invoices/index.html", data); err != nil {
		h.serverError(w, r, "render listing", err)
	}
}

// pageURL returns the listing URL with every current param kept and page
// replaced.
func pageURL(u *url.URL, page int) string {
	params := u.Query()
	params.Set("page", strconv.Itoa(page))
	return services.InvoicesPath + "?" + params.Encode()
}

func (h *InvoiceHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, "", formValues{Status: string(models.InvoiceStatusPending)}, nil, "")
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.badRequest(w, r, err)
		return
	}
	st, err := h.actions.CreateInvoice(r.Context(), r.PostForm)
	h.respond(w, r, "", st, err)
}

func (h *InvoiceHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		h.notFound(w, r)
		return
	}

	inv, err := h.invoices.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, "load invoice", err)
		return
	}

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, inv)
		return
	}
	values := formValues{
		CustomerID: inv.CustomerID,
		Amount:     view.AmountInput(inv.Amount),
		Status:     string(inv.Status),
	}
	h.renderForm(w, r, http.StatusOK, id, values, nil, "")
}

func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		h.badRequest(w, r, err)
		return
	}
	st, err := h.actions.UpdateInvoice(r.Context(), id, r.PostForm)
	h.respond(w, r, id, st, err)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	st, err := h.actions.DeleteInvoice(r.Context(), id)
	if err != nil {
		slog.Error("delete invoice", "id", id, "error", err)
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusInternalServerError, err.Error(), nil)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if st.Message != services.MsgDeleted {
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusInternalServerError, st.Message, nil)
			return
		}
		http.Error(w, st.Message, http.StatusInternalServerError)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, st)
		return
	}
	http.Redirect(w, r, services.InvoicesPath, http.StatusSeeOther)
}

// respond maps the outcome of a create (id empty) or update action to a
// response: redirect, re-rendered form with violations, or message.
func (h *InvoiceHandler) respond(w http.ResponseWriter, r *http.Request, id string, st services.State, err error) {
	values := formValues{
		CustomerID: r.PostForm.Get(forms.FieldCustomerID),
		Amount:     r.PostForm.Get(forms.FieldAmount),
		Status:     r.PostForm.Get(forms.FieldStatus),
	}
	lang := i18n.LangFromContext(r.Context())

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", verr.Violations)
			return
		}
		msgs := make(map[string]string, len(verr.Violations))
		for field, code := range verr.Violations {
			msgs[field] = i18n.T(lang, code)
		}
		h.renderForm(w, r, http.StatusUnprocessableEntity, id, values, msgs, i18n.T(lang, "validation_failed"))
	case err != nil:
		h.serverError(w, r, "invoice action", err)
	case st.RedirectTo != "":
		http.Redirect(w, r, st.RedirectTo, http.StatusSeeOther)
	default:
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusInternalServerError, st.Message, nil)
			return
		}
		h.renderForm(w, r, http.StatusInternalServerError, id, values, nil, st.Message)
	}
}

// renderForm shows the create form when id is empty and the edit form
// otherwise.
func (h *InvoiceHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, id string, values formValues, errs map[string]string, message string) {
	customers, err := h.customers.All(r.Context())
	if err != nil {
		h.serverError(w, r, "list customers", err)
		return
	}

	statuses := make([]string, len(models.InvoiceStatuses))
	for i, s := range models.InvoiceStatuses {
		statuses[i] = string(s)
	}
	if errs == nil {
		errs = map[string]string{}
	}

	tpl, title, action := "invoices/create.html", "create_invoice", services.InvoicesPath
	if id != "" {
		tpl, title, action = "invoices/edit.html", "edit_invoice", services.InvoicesPath+"/"+id
	}

	data := map[string]any{
		"Title":     title,
		"Action":    action,
		"Customers": customers,
		"Statuses":  statuses,
		"Form":      values,
		"Errors":    errs,
		"Message":   message,
	}
	if err := view.RenderStatus(w, r, status, tpl, data); err != nil {
		h.serverError(w, r, "render invoice form", err)
	}
}

func (h *InvoiceHandler) notFound(w http.ResponseWriter, r *http.Request) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	http.NotFound(w, r)
}

func (h *InvoiceHandler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	http.Error(w, "Bad request", http.StatusBadRequest)
}

func (h *InvoiceHandler) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	slog.Error(op, "method", r.Method, "path", r.URL.Path, "error", err)
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
