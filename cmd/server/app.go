package main

import (
	"net/http"

	"github.com/diewo77/invoice-dashboard/httpx"
	"github.com/diewo77/invoice-dashboard/i18n"
	"github.com/diewo77/invoice-dashboard/internal/config"
	"github.com/diewo77/invoice-dashboard/internal/handlers"
	"github.com/diewo77/invoice-dashboard/internal/pagecache"
	"github.com/diewo77/invoice-dashboard/internal/repository"
	"github.com/diewo77/invoice-dashboard/internal/services"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux      *http.ServeMux
	db       *gorm.DB
	cache    *pagecache.Cache
	invoices *handlers.InvoiceHandler
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, cfg *config.Config) *App {
	cache := pagecache.New(cfg.Cache.PageTTL)
	invoiceRepo := repository.NewInvoiceRepository(db)

	actions := services.NewInvoiceActions(invoiceRepo, cache)
	actions.AllowDelete = cfg.App.DeleteEnabled

	app := &App{
		mux:      http.NewServeMux(),
		db:       db,
		cache:    cache,
		invoices: handlers.NewInvoiceHandler(invoiceRepo, repository.NewCustomerRepository(db), actions),
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	withPreferences(a.mux).ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	ih := a.invoices

	a.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, services.InvoicesPath, http.StatusSeeOther)
	})
	a.mux.HandleFunc("GET /healthz", a.healthz)

	// The listing is the only cached page; mutations invalidate it.
	a.mux.Handle("GET /dashboard/invoices", a.cache.Middleware(http.HandlerFunc(ih.List)))
	a.mux.HandleFunc("GET /dashboard/invoices/create", ih.New)
	a.mux.HandleFunc("POST /dashboard/invoices", ih.Create)
	a.mux.HandleFunc("GET /dashboard/invoices/{id}/edit", ih.Edit)
	a.mux.HandleFunc("POST /dashboard/invoices/{id}", ih.Update)
	a.mux.HandleFunc("POST /dashboard/invoices/{id}/delete", ih.Delete)
}

func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "database_unavailable", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withPreferences injects the language preference from query, cookie or
// Accept-Language, in that order.
func withPreferences(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		if c, err := r.Cookie("lang"); err == nil && i18n.Supported(c.Value) {
			lang = c.Value
		}
		if q := r.URL.Query().Get("lang"); i18n.Supported(q) {
			lang = q
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}
