package monitor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewandler/actors-go/core/actor"
)

func TestHandler_servesSnapshot(t *testing.T) {
	sys := actor.NewSystem(actor.Options{Name: "mon", Pool: actor.PoolOptions{MinWorkers: 2, MaxWorkers: 2}})
	t.Cleanup(sys.Stop)

	_, err := sys.Spawn("alpha")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	Handler(sys).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var st actor.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, "mon", st.System)
	assert.Equal(t, 2, st.Workers)
	require.Len(t, st.Actors, 1)
	assert.Equal(t, "alpha", st.Actors[0].Name)
}

func TestMux_routes(t *testing.T) {
	sys := actor.NewSystem(actor.Options{Name: "mon2"})
	t.Cleanup(sys.Stop)

	reg := prometheus.NewRegistry()
	srv := httptest.NewServer(Mux(sys, reg))
	t.Cleanup(srv.Close)

	res, err := http.Get(srv.URL + "/stats")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res2, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer res2.Body.Close()
	assert.Equal(t, http.StatusOK, res2.StatusCode)
}
