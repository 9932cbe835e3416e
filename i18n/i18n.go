// Package i18n translates violation codes and UI labels.
package i18n

import (
	"context"
	"strings"
)

const DefaultLang = "en"

var messages = map[string]map[string]string{
	"en": {
		"required":          "Required",
		"invalid_number":    "Please enter a valid amount.",
		"invalid_status":    "Please select an invoice status.",
		"out_of_range":      "Amount is out of range.",
		"invoices":          "Invoices",
		"create_invoice":    "Create Invoice",
		"edit_invoice":      "Edit Invoice",
		"search_invoices":   "Search invoices...",
		"customer":          "Customer",
		"amount":            "Amount",
		"status":            "Status",
		"date":              "Date",
		"pending":           "Pending",
		"paid":              "Paid",
		"cancel":            "Cancel",
		"delete":            "Delete",
		"save":              "Save",
		"no_invoices":       "No invoices found.",
		"select_customer":   "Select a customer",
		"validation_failed": "Missing Fields. Failed to save invoice.",
	},
	"fr": {
		"required":          "Requis",
		"invalid_number":    "Veuillez saisir un montant valide.",
		"invalid_status":    "Veuillez choisir un statut.",
		"out_of_range":      "Montant hors limites.",
		"invoices":          "Factures",
		"create_invoice":    "Créer une facture",
		"edit_invoice":      "Modifier la facture",
		"search_invoices":   "Rechercher des factures...",
		"customer":          "Client",
		"amount":            "Montant",
		"status":            "Statut",
		"date":              "Date",
		"pending":           "En attente",
		"paid":              "Payée",
		"cancel":            "Annuler",
		"delete":            "Supprimer",
		"save":              "Enregistrer",
		"no_invoices":       "Aucune facture.",
		"select_customer":   "Choisir un client",
		"validation_failed": "Champs manquants. Échec de l'enregistrement.",
	},
}

// T returns the translation of code in lang, falling back to the default
// language and then to the code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLang][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if _, ok := messages[base]; ok {
			return base
		}
	}
	return DefaultLang
}

// Supported reports whether lang has a message table.
func Supported(lang string) bool {
	_, ok := messages[lang]
	return ok
}

type langKey struct{}

func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(langKey{}).(string); ok && l != "" {
		return l
	}
	return DefaultLang
}
