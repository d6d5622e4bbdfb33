package handlers

import (
	"io/fs"
	"net/http"

)

const (
	indexPage = "index.html"
	errorPage = "error.html"
)

// NewPageHandler serves the dashboard shell for a client-side route.
func NewPageHandler(static fs.FS) http.HandlerFunc {
	return servePage(static, indexPage, http.StatusOK)
}

// NewNotFoundPageHandler renders the error page for unknown paths.
func NewNotFoundPageHandler(static fs.FS) http.HandlerFunc {
	return servePage(static, errorPage, http.StatusNotFound)
}

// NewAssetsHandler serves the static bundle.
func NewAssetsHandler(static fs.FS) http.Handler {
	return http.FileServer(http.FS(static))
}

func servePage(static fs.FS, name string, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := fs.ReadFile(static, name)
		if err != nil {
			logError(r, "failed to read page", "page", name, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		w.Write(body)
	}
}
