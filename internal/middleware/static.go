package middleware

import (
	"net/http"
	"os"
	"path/filepath"
)

const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 200"><rect width="200" height="200" fill="#eef3ee"/><path d="M40 150l45-70 30 45 20-28 25 53z" fill="#8aa88a"/><circle cx="150" cy="55" r="16" fill="#d9c36b"/><text x="100" y="185" text-anchor="middle" font-family="Arial" font-size="14" fill="#667766">TOUR</text></svg>`

// StaticFileServer serves tour images from dir, falling back to a
// placeholder so missing assets never break a listing page.
func StaticFileServer(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean(r.URL.Path))

		if _, err := os.Stat(path); err == nil {
			w.Header().Set("Cache-Control", "public, max-age=2592000")
			http.ServeFile(w, r, path)
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Write([]byte(placeholderSVG))
	})
}
