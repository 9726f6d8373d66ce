package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harmoniq/internal/domain"
	herrors "harmoniq/internal/errors"
)

func TestScenariosCreate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/scenario", r.URL.Path)

		var body domain.Scenario
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "PT1H", body.Step)
		assert.Equal(t, domain.OptimismOptimistic, body.SocialOptimism)

		body.ID = 5
		json.NewEncoder(w).Encode(body)
	})

	created, err := c.Scenarios().Create(context.Background(), domain.Scenario{
		Name:               "2035",
		Description:        "high wind",
		Start:              "2035-01-01T00:00",
		End:                "2035-12-31T00:00",
		Step:               "PT1H",
		SocialOptimism:     domain.OptimismOptimistic,
		EcologicalOptimism: domain.OptimismAverage,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, created.ID)
	assert.Equal(t, "2035", created.Name)
}

func TestScenariosGetAndDelete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/scenario/8", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"id": 8, "nom": "Base", "pas_de_temps": "P1D"}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	scenario, err := c.Scenarios().Get(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, "P1D", scenario.Step)

	require.NoError(t, c.Scenarios().Delete(context.Background(), 8))
}

func TestLaunchSimulation(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/simulation", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("scenario_id"))
		assert.Equal(t, "9", r.URL.Query().Get("liste_infra_id"))
		w.Write([]byte(`{"status": "started"}`))
	})

	require.NoError(t, c.Scenarios().LaunchSimulation(context.Background(), 3, 9))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLaunchSimulationNotImplemented(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotImplemented)
		w.Write([]byte(`{"detail": "Simulation not implemented"}`))
	})

	err := c.Scenarios().LaunchSimulation(context.Background(), 1, 1)
	require.Error(t, err)
	assert.True(t, herrors.Is(err, herrors.ErrCodeNotImplemented))

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotImplemented, apiErr.StatusCode)
}
