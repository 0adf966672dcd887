package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := HTTPMetricsMiddleware(mux)

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "GET /api/tasks/{id}", "404"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/tasks/42", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/tasks/43", nil))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "GET /api/tasks/{id}", "404"))
	assert.Equal(t, 2.0, after-before)

	unmatched := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, unmatched+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestGauges(t *testing.T) {
	SetCollectionSize("tasks", 7)
	assert.Equal(t, 7.0, testutil.ToFloat64(collectionSize.WithLabelValues("tasks")))
	SetCollectionSize("tasks", -1)
	assert.Equal(t, 0.0, testutil.ToFloat64(collectionSize.WithLabelValues("tasks")))

	SetOverdueTasks(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(overdueTasks))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(storeMutations.WithLabelValues("patients", "add", "ok"))
	ObserveMutation("patients", "add", "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(storeMutations.WithLabelValues("patients", "add", "ok")))

	before = testutil.ToFloat64(loginAttempts.WithLabelValues("rejected"))
	ObserveLogin("rejected")
	assert.Equal(t, before+1, testutil.ToFloat64(loginAttempts.WithLabelValues("rejected")))
}
