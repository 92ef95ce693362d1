package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareRecordsRequests(t *testing.T) {
	c := NewCollector()

	h := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/leads", nil))
	require.Equal(t, http.StatusTeapot, rr.Code)

	scrape := httptest.NewRecorder()
	c.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, scrape.Code)
	assert.Contains(t, scrape.Body.String(), `salespro_http_requests_total{method="GET",status="418"} 1`)
}

func TestRecordAuthAttempt(t *testing.T) {
	c := NewCollector()
	c.RecordAuthAttempt("password", OutcomeFailure)
	c.RecordAuthAttempt("password", OutcomeFailure)
	c.RecordLeadCaptured()

	scrape := httptest.NewRecorder()
	c.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, scrape.Body.String(), `salespro_auth_attempts_total{flow="password",outcome="failure"} 2`)
	assert.Contains(t, scrape.Body.String(), `salespro_leads_captured_total 1`)
}
