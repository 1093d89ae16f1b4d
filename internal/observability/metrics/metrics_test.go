package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddlewareRecordsStatus(t *testing.T) {
	h := HTTPMetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/teapot", "418"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/teapot", nil))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/teapot", "418"))
	require.Equal(t, before+1, after)
}

func TestObserveDirectoryRefreshSetsSize(t *testing.T) {
	ObserveDirectoryRefresh("fallback", 2)
	require.Equal(t, float64(2), testutil.ToFloat64(directorySize))
}
