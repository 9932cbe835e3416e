package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDashboard struct {
	mu      sync.Mutex
	queries []string
}

func (f *fakeDashboard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.queries = append(f.queries, r.URL.RawQuery)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Query().Get("query") == "" {
		_, _ = w.Write([]byte(`{"items":[],"query":"","page":1,"total_pages":0}`))
		return
	}
	_, _ = w.Write([]byte(`{"items":[
		{"id":"1","name":"Evil Rabbit","email":"evil@rabbit.com","amount":15795,"status":"pending","date":"2022-12-06"},
		{"id":"2","name":"Amy Burns","email":"amy@burns.com","amount":3040,"status":"paid","date":"2022-10-29"}
	],"query":"` + r.URL.Query().Get("query") + `","page":1,"total_pages":1}`))
}

func (f *fakeDashboard) got() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmdForTest()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSearch_OnlyLastTermNavigates(t *testing.T) {
	dash := &fakeDashboard{}
	srv := httptest.NewServer(dash)
	defer srv.Close()

	out, err := runCmd(t, "a\nal\nalpha\nalphabet\n", "search", "--server", srv.URL, "--delay", "1h")
	require.NoError(t, err)

	assert.Equal(t, []string{"page=1&query=alphabet"}, dash.got())
	assert.Contains(t, out, "/dashboard/invoices?page=1&query=alphabet")
	assert.Contains(t, out, "Evil Rabbit")
	assert.Contains(t, out, "$157.95")
	assert.Contains(t, out, "page 1 of 1")
}

func TestSearch_ClearedTerm(t *testing.T) {
	dash := &fakeDashboard{}
	srv := httptest.NewServer(dash)
	defer srv.Close()

	out, err := runCmd(t, "rabbit\n\n", "search", "--server", srv.URL, "--delay", "1h")
	require.NoError(t, err)

	assert.Equal(t, []string{"page=1"}, dash.got())
	assert.Contains(t, out, "no invoices found")
}

func TestSearch_ServerErrorIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	out, err := runCmd(t, "x\n", "search", "--server", srv.URL, "--delay", "1h")
	require.NoError(t, err)
	assert.Contains(t, out, "unexpected status 500")
}

func TestSearch_InvalidDelay(t *testing.T) {
	_, err := runCmd(t, "", "search", "--delay", "soon")
	assert.ErrorContains(t, err, `invalid --delay "soon"`)
}

func TestSearch_NoInputNoNavigation(t *testing.T) {
	dash := &fakeDashboard{}
	srv := httptest.NewServer(dash)
	defer srv.Close()

	_, err := runCmd(t, "", "search", "--server", srv.URL)
	require.NoError(t, err)
	assert.Empty(t, dash.got())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("INVOICES_SERVER", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "invoicectl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: http://dash.local:9000\ndelay: 250ms\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://dash.local:9000", cfg.Server)
	assert.Equal(t, 250*time.Millisecond, cfg.Delay)

	cfg, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "http://localhost:8080", cfg.Server)
	assert.Equal(t, time.Second, cfg.Delay)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("delay: [1, 2]\n"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "parsing")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
