package mymetrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	t.Run("Outcomes are counted per label", func(t *testing.T) {
		LoginOutcomes.Reset()
		defer LoginOutcomes.Reset()

		LoginOutcomes.WithLabelValues("new-user").Inc()
		LoginOutcomes.WithLabelValues("new-user").Inc()
		LoginOutcomes.WithLabelValues("linked-user").Inc()

		assert.Equal(t, 2.0, testutil.ToFloat64(LoginOutcomes.WithLabelValues("new-user")))
		assert.Equal(t, 1.0, testutil.ToFloat64(LoginOutcomes.WithLabelValues("linked-user")))
	})

	t.Run("Exposed over http", func(t *testing.T) {
		LoginsStarted.Inc()

		response := httptest.NewRecorder()
		request, err := http.NewRequest(http.MethodGet, "/metrics", nil)
		assert.NoError(t, err)
		Handler().ServeHTTP(response, request)

		assert.Equal(t, http.StatusOK, response.Code)
		assert.Contains(t, response.Body.String(), "fblogin_logins_started_total")
	})
}
