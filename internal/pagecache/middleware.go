package pagecache

import (
	"bytes"
	"net/http"

	"github.com/diewo77/invoice-dashboard/httpx"
	"github.com/diewo77/invoice-dashboard/i18n"
)

// recorder tees the response so it can be stored after the handler returns.
type recorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

// variantKey separates cached copies of one path by language, response
// format and query string.
func variantKey(r *http.Request) string {
	format := "html"
	if httpx.WantsJSON(r) {
		format = "json"
	}
	return i18n.LangFromContext(r.Context()) + "|" + format + "|" + r.URL.RawQuery
}

// Middleware serves GET requests from the cache and stores 200 responses
// unless the path was invalidated while the handler ran.
func (c *Cache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}
		path, variant := r.URL.Path, variantKey(r)
		if p, ok := c.Get(path, variant); ok {
			if p.ContentType != "" {
				w.Header().Set("Content-Type", p.ContentType)
			}
			w.Header().Set("X-Cache", "HIT")
			w.WriteHeader(p.Status)
			_, _ = w.Write(p.Body)
			return
		}
		gen := c.Generation(path)
		w.Header().Set("X-Cache", "MISS")
		rec := &recorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == http.StatusOK {
			c.SetIfCurrent(path, variant, gen, Page{
				Status:      rec.status,
				ContentType: w.Header().Get("Content-Type"),
				Body:        bytes.Clone(rec.buf.Bytes()),
			})
		}
	})
}
