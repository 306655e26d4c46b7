package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vault_console/internal/models"
	"vault_console/internal/modules/health/service"
	"vault_console/internal/runner"
)

func TestReadyzBeforeFirstPoll(t *testing.T) {
	mux := NewMux(service.NewState(), runner.NewState())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthzAfterPoll(t *testing.T) {
	rs := runner.NewState()
	rs.SetStatus(models.OperationalStatus{
		Flags: models.StatusFlags{EnableLiveExec: true},
	})
	hs := service.NewState()
	hs.SetWSConnected(true)
	mux := NewMux(hs, rs)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["ready"])
	assert.Equal(t, "live", resp["mode"])
	assert.Equal(t, true, resp["wsConnected"])
	assert.NotZero(t, resp["lastPollUnix"])
}
