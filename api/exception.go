package api

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// exceptionKey carries the active exception page through the request context
type exceptionKey struct{}

type exceptionPage struct {
	logger *zap.SugaredLogger
}

// exceptionView is the data rendered by exceptionTemplate
type exceptionView struct {
	ID      string
	Status  int
	Title   string
	Message string
	Chain   []string
	Method  string
	Path    string
	Query   string
	Headers []headerLine
	Stack   string
}

type headerLine struct {
	Name  string
	Value string
}

var exceptionTemplate = template.Must(template.New("exception").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Status}} {{.Title}}</title>
  <style>
    body { font-family: sans-serif; margin: 2em; color: #222; }
    h1 { color: #b00020; }
    pre { background: #f4f4f4; padding: 1em; overflow-x: auto; }
    td { padding: 0 1em 0 0; vertical-align: top; }
  </style>
</head>
<body>
  <h1>An unhandled exception occurred while processing the request.</h1>
  <h2>{{.Status}} {{.Title}}: {{.Message}}</h2>
  <p>Error ID: <code>{{.ID}}</code></p>
  <h3>Error chain</h3>
  <ol>{{range .Chain}}
    <li><code>{{.}}</code></li>{{end}}
  </ol>
  <h3>Request</h3>
  <p><code>{{.Method}} {{.Path}}{{if .Query}}?{{.Query}}{{end}}</code></p>
  <table>{{range .Headers}}
    <tr><td>{{.Name}}</td><td><code>{{.Value}}</code></td></tr>{{end}}
  </table>
  <h3>Stack</h3>
  <pre>{{.Stack}}</pre>
</body>
</html>
`))

// DeveloperExceptionPage renders failure detail as HTML. It recovers panics
// from later stages and receives server errors that handlers report through
// writeError. Only install it in Development.
func DeveloperExceptionPage(logger *zap.SugaredLogger) Middleware {
	page := &exceptionPage{logger: logger}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)
			r = r.WithContext(context.WithValue(r.Context(), exceptionKey{}, page))

			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					panic(p)
				}
				err, ok := p.(error)
				if !ok {
					err = fmt.Errorf("%v", p)
				}
				err = fmt.Errorf("panic: %w", err)
				if rec.wroteHeader {
					page.logger.Errorw("Panic after response started", "error", err.Error(), "path", r.URL.Path)
					return
				}
				page.render(rec, r, http.StatusInternalServerError, err.Error(), err, debug.Stack())
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

// reportException hands err to the exception page installed on r, if any
func reportException(w http.ResponseWriter, r *http.Request, status int, message string, err error) bool {
	page, ok := r.Context().Value(exceptionKey{}).(*exceptionPage)
	if !ok {
		return false
	}
	page.render(w, r, status, message, err, debug.Stack())
	return true
}

func (p *exceptionPage) render(w http.ResponseWriter, r *http.Request, status int, message string, err error, stack []byte) {
	view := exceptionView{
		ID:      uuid.NewString(),
		Status:  status,
		Title:   http.StatusText(status),
		Message: message,
		Chain:   unwrapChain(err),
		Method:  r.Method,
		Path:    r.URL.Path,
		Query:   r.URL.RawQuery,
		Headers: sortedHeaders(r.Header),
		Stack:   string(stack),
	}
	p.logger.Errorw("Unhandled exception", "error_id", view.ID, "status_code", status, "error", err.Error())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store")
	w.WriteHeader(status)
	if execErr := exceptionTemplate.Execute(w, view); execErr != nil {
		p.logger.Errorw("Failed to render exception page", "error", execErr.Error())
	}
}

// unwrapChain lists err and every error it wraps, outermost first
func unwrapChain(err error) []string {
	var chain []string
	for err != nil {
		chain = append(chain, err.Error())
		err = errors.Unwrap(err)
	}
	return chain
}

func sortedHeaders(h http.Header) []headerLine {
	lines := make([]headerLine, 0, len(h))
	for name, values := range h {
		lines = append(lines, headerLine{Name: name, Value: strings.Join(values, ", ")})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Name < lines[j].Name })
	return lines
}
