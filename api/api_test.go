package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"goldenticket/core"
	"goldenticket/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSchoolStorage struct {
	listSchools            func() ([]core.School, error)
	getSchool              func(id int64) (*core.School, error)
	getGlobalConfiguration func() (*core.GlobalConfiguration, error)
	healthCheck            func() error
}

func (m *mockSchoolStorage) ListSchools() ([]core.School, error) {
	if m.listSchools != nil {
		return m.listSchools()
	}
	return []core.School{}, nil
}

func (m *mockSchoolStorage) GetSchool(id int64) (*core.School, error) {
	if m.getSchool != nil {
		return m.getSchool(id)
	}
	return nil, storage.ErrSchoolNotFound
}

func (m *mockSchoolStorage) GetGlobalConfiguration() (*core.GlobalConfiguration, error) {
	if m.getGlobalConfiguration != nil {
		return m.getGlobalConfiguration()
	}
	return nil, storage.ErrConfigurationNotFound
}

func (m *mockSchoolStorage) HealthCheck() error {
	if m.healthCheck != nil {
		return m.healthCheck()
	}
	return nil
}

func setupTestAPI(store SchoolStorer) *API {
	return NewAPI(store, zap.NewNop().Sugar())
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGetSchools(t *testing.T) {
	store := &mockSchoolStorage{
		listSchools: func() ([]core.School, error) {
			return []core.School{{ID: 1, Name: "Emerson Elementary", MaxTotalSeats: 40}}, nil
		},
	}

	w := serve(setupTestAPI(store), "GET", "/api/schools")

	require.Equal(t, http.StatusOK, w.Code)
	var schools []core.School
	require.NoError(t, json.NewDecoder(w.Body).Decode(&schools))
	require.Len(t, schools, 1)
	assert.Equal(t, "Emerson Elementary", schools[0].Name)
}

func TestGetSchool(t *testing.T) {
	store := &mockSchoolStorage{
		getSchool: func(id int64) (*core.School, error) {
			if id == 7 {
				return &core.School{ID: 7, Name: "Eugene Field"}, nil
			}
			return nil, storage.ErrSchoolNotFound
		},
	}
	a := setupTestAPI(store)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"found", "/api/schools/7", http.StatusOK},
		{"missing", "/api/schools/8", http.StatusNotFound},
		{"not a number", "/api/schools/abc", http.StatusBadRequest},
		{"negative", "/api/schools/-1", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(a, "GET", tt.target)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestGetConfiguration(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		w := serve(setupTestAPI(&mockSchoolStorage{}), "GET", "/api/configuration")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("present", func(t *testing.T) {
		open := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
		store := &mockSchoolStorage{
			getGlobalConfiguration: func() (*core.GlobalConfiguration, error) {
				return &core.GlobalConfiguration{ID: 1, OpenDate: open, CloseDate: open.AddDate(0, 1, 0), WelcomeMessage: "Welcome"}, nil
			},
		}
		w := serve(setupTestAPI(store), "GET", "/api/configuration")
		require.Equal(t, http.StatusOK, w.Code)

		var cfg core.GlobalConfiguration
		require.NoError(t, json.NewDecoder(w.Body).Decode(&cfg))
		assert.Equal(t, "Welcome", cfg.WelcomeMessage)
		assert.True(t, cfg.OpenDate.Equal(open))
	})
}

func TestHealthCheck(t *testing.T) {
	w := serve(setupTestAPI(&mockSchoolStorage{}), "GET", "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["time"])

	down := &mockSchoolStorage{healthCheck: func() error { return errors.New("closed") }}
	w = serve(setupTestAPI(down), "GET", "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_UndefinedPathAndWrongMethod(t *testing.T) {
	a := setupTestAPI(&mockSchoolStorage{})

	assert.Equal(t, http.StatusNotFound, serve(a, "GET", "/not/a/route").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(a, "POST", "/api/schools").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	a := setupTestAPI(&mockSchoolStorage{})
	serve(a, "GET", "/health")

	w := serve(a, "GET", "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "goldenticket_http_requests_total")
}

func TestServerErrorIsOpaqueWithoutExceptionPage(t *testing.T) {
	store := &mockSchoolStorage{
		listSchools: func() ([]core.School, error) {
			return nil, errors.New("no such table: schools in /var/lib/goldenticket.db")
		},
	}

	w := serve(setupTestAPI(store), "GET", "/api/schools")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "no such table")
}
