package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// notFoundHandler serves the static site for unmatched paths. API paths
// get a JSON 404; existing files are served as-is; anything else falls
// back to the root document so client-side routes resolve.
func notFoundHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"message":"Not found"}`))
			return
		}

		if staticDir == "" || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
			http.NotFound(w, r)
			return
		}

		path, ok := resolveStatic(staticDir, r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, path)
	}
}

// resolveStatic maps a URL path to a file under root, falling back to
// index.html. Traversal outside the root is rejected.
func resolveStatic(root, urlPath string) (string, bool) {
	cleaned := filepath.Clean("/" + urlPath)
	candidate := filepath.Join(root, cleaned)

	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate, true
	}

	index := filepath.Join(root, "index.html")
	if _, err := os.Stat(index); err == nil {
		return index, true
	}
	return "", false
}
