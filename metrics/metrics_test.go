package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wareblock/sdk"
)

func TestEventSinkCountsKinds(t *testing.T) {
	m := New()
	mem := sdk.NewMemorySink()
	sink := m.EventSink(mem)
	sink.Log("lc|id:0|by:hive:wareblock")
	sink.Log("sb|s:contract:wb-sale-0-0")
	sink.Log("sb|s:contract:wb-sale-0-1")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.events.WithLabelValues("lc")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.events.WithLabelValues("sb")))
	assert.Len(t, mem.Lines(), 3)
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	m := New()
	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.HandleFunc("/sales/{address}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())
	srv := httptest.NewServer(r)
	defer srv.Close()

	for _, addr := range []string{"contract:a", "contract:b"} {
		resp, err := http.Get(srv.URL + "/sales/" + addr)
		require.NoError(t, err)
		resp.Body.Close()
	}
	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("/sales/{address}", "404")))

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "wareblock_api_requests_total")
}
