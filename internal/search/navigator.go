package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/invoice-dashboard/internal/models"
)

// Listing is the JSON body of GET /dashboard/invoices.
type Listing struct {
	Items      []models.InvoiceRow `json:"items"`
	Query      string              `json:"query"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"total_pages"`
}

// HTTPNavigator fetches the listing for every replace navigation and hands
// it to OnListing. Failures go to OnError.
type HTTPNavigator struct {
	BaseURL   string
	Client    *http.Client
	OnListing func(target string, l Listing)
	OnError   func(target string, err error)
}

func NewHTTPNavigator(baseURL string) *HTTPNavigator {
	return &HTTPNavigator{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *HTTPNavigator) Replace(target string) {
	slog.Debug("replace navigation", "target", target)
	l, err := n.Fetch(context.Background(), target)
	if err != nil {
		if n.OnError != nil {
			n.OnError(target, err)
		}
		return
	}
	if n.OnListing != nil {
		n.OnListing(target, l)
	}
}

// Fetch requests target as JSON.
func (n *HTTPNavigator) Fetch(ctx context.Context, target string) (Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.BaseURL+target, nil)
	if err != nil {
		return Listing{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return Listing{}, fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Listing{}, fmt.Errorf("fetch %s: unexpected status %d", target, resp.StatusCode)
	}
	var l Listing
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		return Listing{}, fmt.Errorf("decode listing: %w", err)
	}
	return l, nil
}
