package gateway

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// StaticHandler serves the UI from dir with a single-page fallback: any path
// without a file extension that does not exist on disk gets index.html, so
// client-side routes survive a hard refresh.
func StaticHandler(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := strings.TrimPrefix(r.URL.Path, "/")
		if p == "" {
			p = "index.html"
		}
		full := filepath.Join(dir, filepath.Clean(p))
		if _, err := os.Stat(full); err != nil && filepath.Ext(p) == "" {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	})
}
