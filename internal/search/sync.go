package search

import (
	"fmt"
	"net/url"
	"sync"
	"time"
)

// URL parameters managed by QuerySync.
const (
	ParamQuery = "query"
	ParamPage  = "page"
)

// Navigator changes the current location without adding a history entry.
type Navigator interface {
	Replace(target string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(target string)

func (f NavigatorFunc) Replace(target string) { f(target) }

// QuerySync turns search-box input into debounced replace navigations of
// the current location, resetting pagination on every new term.
type QuerySync struct {
	mu       sync.Mutex
	pathname string
	params   url.Values

	nav       Navigator
	debouncer *Debouncer
}

// NewQuerySync starts from location, a path with an optional query string
// such as "/dashboard/invoices?page=3".
func NewQuerySync(location string, nav Navigator, d *Debouncer) (*QuerySync, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("parse location %q: %w", location, err)
	}
	if d == nil {
		d = NewDebouncer(DefaultDelay, nil)
	}
	return &QuerySync{
		pathname:  u.Path,
		params:    u.Query(),
		nav:       nav,
		debouncer: d,
	}, nil
}

// HandleInput is called on every change of the search box. Only the last
// term typed within the debounce delay is applied.
func (s *QuerySync) HandleInput(term string) {
	s.debouncer.Call(func() { s.apply(term) })
}

// Flush applies a pending term immediately.
func (s *QuerySync) Flush() bool {
	return s.debouncer.Flush()
}

// Drain applies a pending term and waits for any navigation in flight.
func (s *QuerySync) Drain() {
	s.debouncer.Flush()
	s.debouncer.Wait()
}

// Pending reports whether a term is waiting for the debounce delay.
func (s *QuerySync) Pending() bool {
	return s.debouncer.Pending()
}

// DefaultQuery is the value the search box starts with.
func (s *QuerySync) DefaultQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.Get(ParamQuery)
}

// Location returns the current path and query string.
func (s *QuerySync) Location() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return buildTarget(s.pathname, s.params)
}

func (s *QuerySync) apply(term string) {
	s.mu.Lock()
	params := url.Values{}
	for k, v := range s.params {
		params[k] = append([]string(nil), v...)
	}
	params.Set(ParamPage, "1")
	if term != "" {
		params.Set(ParamQuery, term)
	} else {
		params.Del(ParamQuery)
	}
	s.params = params
	target := buildTarget(s.pathname, params)
	s.mu.Unlock()

	s.nav.Replace(target)
}

func buildTarget(pathname string, params url.Values) string {
	return pathname + "?" + params.Encode()
}

// NewDefaultQuerySync is NewQuerySync with a real-time debouncer of delay.
func NewDefaultQuerySync(location string, nav Navigator, delay time.Duration) (*QuerySync, error) {
	return NewQuerySync(location, nav, NewDebouncer(delay, nil))
}
