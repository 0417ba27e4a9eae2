package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"goldenticket/storage"

	"github.com/gorilla/mux"
)

// getSchools godoc
//
//	@Summary		List schools
//	@Description	Returns every school taking part in the lottery, ordered by name
//	@Tags			schools
//	@Produce		json
//	@Success		200	{array}		core.School
//	@Failure		500	{object}	errorResponse
//	@Router			/api/schools [get]
func (a *API) getSchools(w http.ResponseWriter, r *http.Request) {
	schools, err := a.store.ListSchools()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to list schools", err, a.logger)
		return
	}
	writeJSON(w, http.StatusOK, schools)
}

// getSchool godoc
//
//	@Summary		Get school by ID
//	@Description	Returns a single school
//	@Tags			schools
//	@Produce		json
//	@Param			id	path		int	true	"School ID"
//	@Success		200	{object}	core.School
//	@Failure		400	{object}	errorResponse
//	@Failure		404	{object}	errorResponse
//	@Router			/api/schools/{id} [get]
func (a *API) getSchool(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "Invalid school ID", err, a.logger)
		return
	}

	school, err := a.store.GetSchool(id)
	if errors.Is(err, storage.ErrSchoolNotFound) {
		writeError(w, r, http.StatusNotFound, "School not found", nil, a.logger)
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to get school", err, a.logger)
		return
	}
	writeJSON(w, http.StatusOK, school)
}

// getConfiguration godoc
//
//	@Summary		Get global configuration
//	@Description	Returns the most recent application window and lottery date
//	@Tags			configuration
//	@Produce		json
//	@Success		200	{object}	core.GlobalConfiguration
//	@Failure		404	{object}	errorResponse
//	@Failure		500	{object}	errorResponse
//	@Router			/api/configuration [get]
func (a *API) getConfiguration(w http.ResponseWriter, r *http.Request) {
	cfg, err := a.store.GetGlobalConfiguration()
	if errors.Is(err, storage.ErrConfigurationNotFound) {
		writeError(w, r, http.StatusNotFound, "Configuration not found", nil, a.logger)
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to get configuration", err, a.logger)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// healthCheck godoc
//
//	@Summary		Health check
//	@Description	Reports whether the store answers a ping
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		503	{object}	map[string]string
//	@Router			/health [get]
func (a *API) healthCheck(w http.ResponseWriter, r *http.Request) {
	status, code := "healthy", http.StatusOK
	if a.store == nil || a.store.HealthCheck() != nil {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
