package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	IncidentsReportedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_incidents_reported_total",
		Help: "Total number of reported incidents by severity",
	}, []string{"severity"})
	FanOutVolunteersMatched = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatch_fanout_volunteers_matched",
		Help:    "Number of volunteers matched per fan-out",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 30},
	})
	FanOutFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_fanout_failures_total",
		Help: "Fan-out failures by stage",
	}, []string{"stage"})
	AssignmentTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_assignment_transitions_total",
		Help: "Assignment transitions by target status",
	}, []string{"status"})
	AcceptConflictsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_accept_conflicts_total",
		Help: "Accept attempts rejected because the incident already has an active assignment",
	})
	ActivationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispatch_team_activations_total",
		Help: "Total number of team activations",
	})
	WebhookDeliveriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_webhook_deliveries_total",
		Help: "Notification gateway deliveries by result",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(IncidentsReportedTotal)
	prometheus.MustRegister(FanOutVolunteersMatched)
	prometheus.MustRegister(FanOutFailuresTotal)
	prometheus.MustRegister(AssignmentTransitionsTotal)
	prometheus.MustRegister(AcceptConflictsTotal)
	prometheus.MustRegister(ActivationsTotal)
	prometheus.MustRegister(WebhookDeliveriesTotal)
}

// Handler отдает метрики в формате Prometheus
func Handler() http.Handler {
	return promhttp.Handler()
}
