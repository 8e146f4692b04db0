package mymetrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LoginsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fblogin_logins_started_total",
		Help: "Total number of redirects to the facebook login dialog",
	})
	LoginOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fblogin_login_outcomes_total",
		Help: "Total number of completed logins by reconciliation outcome",
	}, []string{"outcome"})
	LoginFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fblogin_login_failures_total",
		Help: "Total number of failed logins by http status",
	}, []string{"status"})
	TokenOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fblogin_token_operations_total",
		Help: "Total number of access-token extensions and revocations",
	}, []string{"operation", "result"})
)

func init() {
	prometheus.MustRegister(LoginsStarted)
	prometheus.MustRegister(LoginOutcomes)
	prometheus.MustRegister(LoginFailures)
	prometheus.MustRegister(TokenOperations)
}

// Handler exposes the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
