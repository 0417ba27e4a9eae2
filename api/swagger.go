package api

import (
	"net/http"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

// SwaggerJSON answers requests for exactly path with the registered document
// docName. Everything else is forwarded.
func SwaggerJSON(path, docName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != path {
				next.ServeHTTP(w, r)
				return
			}
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				w.Header().Set("Allow", "GET, HEAD")
				http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
				return
			}

			doc, err := swag.ReadDoc(docName)
			if err != nil {
				writeError(w, r, http.StatusInternalServerError, "Failed to read API document", err, nil)
				return
			}
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			_, _ = w.Write([]byte(doc))
		})
	}
}

// SwaggerUI serves the interactive documentation page under prefix, pointed at
// docURL. Requests outside prefix are forwarded.
func SwaggerUI(prefix, docURL string) Middleware {
	prefix = strings.TrimSuffix(prefix, "/")
	ui := httpSwagger.Handler(
		httpSwagger.URL(docURL),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.URL.Path == prefix || r.URL.Path == prefix+"/":
				http.Redirect(w, r, prefix+"/index.html", http.StatusMovedPermanently)
			case strings.HasPrefix(r.URL.Path, prefix+"/"):
				ui.ServeHTTP(w, r)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
