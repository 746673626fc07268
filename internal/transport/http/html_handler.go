package http

import (
	"io/fs"
	"net/http"
)

// ServeDashboard serves the embedded single-page dashboard at the root.
// Unknown paths fall back to index.html so a reload never 404s.
func ServeDashboard(staticFS fs.FS) http.HandlerFunc {
	fileServer := http.FileServer(http.FS(staticFS))

	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			if _, err := fs.Stat(staticFS, r.URL.Path[1:]); err == nil {
				fileServer.ServeHTTP(w, r)
				return
			}
		}
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	}
}
