package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/diewo77/invoice-dashboard/internal/models"
	"github.com/diewo77/invoice-dashboard/internal/search"
	"github.com/diewo77/invoice-dashboard/view"
)

var (
	accent  = lipgloss.Color("#2563EB")
	dim     = lipgloss.Color("#6B7280")
	success = lipgloss.Color("#22C55E")
	warning = lipgloss.Color("#F59E0B")
	danger  = lipgloss.Color("#EF4444")
)

var (
	targetStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(dim)
	errorStyle  = lipgloss.NewStyle().Foreground(danger).Bold(true)
	statusStyle = map[models.InvoiceStatus]lipgloss.Style{
		models.InvoiceStatusPaid:    lipgloss.NewStyle().Foreground(success),
		models.InvoiceStatusPending: lipgloss.NewStyle().Foreground(warning),
	}

	nameCol   = lipgloss.NewStyle().Width(22)
	emailCol  = lipgloss.NewStyle().Width(24)
	amountCol = lipgloss.NewStyle().Width(14).Align(lipgloss.Right)
	dateCol   = lipgloss.NewStyle().Width(12).PaddingLeft(2)
)

func renderListing(w io.Writer, target string, l search.Listing) {
	var b strings.Builder
	b.WriteString(targetStyle.Render("→ "+target) + "\n")

	if len(l.Items) == 0 {
		b.WriteString(dimStyle.Render("  no invoices found") + "\n")
	} else {
		b.WriteString("  " + headerStyle.Render(row("Customer", "Email", "Amount", "Date")) + "status\n")
		for _, it := range l.Items {
			st, ok := statusStyle[it.Status]
			if !ok {
				st = dimStyle
			}
			b.WriteString("  " + row(it.Name, it.Email, view.FormatCurrency(it.Amount), it.Date) + st.Render(string(it.Status)) + "\n")
		}
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("  page %d of %d", l.Page, l.TotalPages)) + "\n")
	_, _ = io.WriteString(w, b.String())
}

func row(name, email, amount, date string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		nameCol.Render(truncate(name, 21)),
		emailCol.Render(truncate(email, 23)),
		amountCol.Render(amount),
		dateCol.Render(date),
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func renderError(w io.Writer, target string, err error) {
	_, _ = fmt.Fprintln(w, errorStyle.Render("✗ "+target+": "+err.Error()))
}
