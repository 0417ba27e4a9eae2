// Package api Golden Ticket Api
//
//	@title			Golden Ticket Api
//	@version		v1
//	@description	School lottery application service.
//
// @license.name	MIT
// @license.url	https://opensource.org/licenses/MIT
//
// @BasePath	/
package api

import (
	"net/http"

	"goldenticket/core"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SchoolStorer interface for school and configuration storage
type SchoolStorer interface {
	ListSchools() ([]core.School, error)
	GetSchool(id int64) (*core.School, error)
	GetGlobalConfiguration() (*core.GlobalConfiguration, error)
	HealthCheck() error
}

// API is the request router
type API struct {
	router *mux.Router
	store  SchoolStorer
	logger *zap.SugaredLogger
}

// NewAPI creates a new API router
func NewAPI(store SchoolStorer, logger *zap.SugaredLogger) *API {
	api := &API{
		router: mux.NewRouter(),
		store:  store,
		logger: logger,
	}
	api.setupRoutes()
	return api
}

// setupRoutes sets up the API routes
func (a *API) setupRoutes() {
	a.router.Use(a.loggingMiddleware)
	a.router.Use(metricsMiddleware)

	a.router.HandleFunc("/api/schools", a.getSchools).Methods("GET")
	a.router.HandleFunc("/api/schools/{id}", a.getSchool).Methods("GET")
	a.router.HandleFunc("/api/configuration", a.getConfiguration).Methods("GET")
	a.router.HandleFunc("/health", a.healthCheck).Methods("GET")
	a.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

// ServeHTTP dispatches to the matching route
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Router exposes the underlying mux router
func (a *API) Router() *mux.Router {
	return a.router
}
