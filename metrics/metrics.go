package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MigrationsApplied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "goldenticket_migrations_applied_total",
			Help: "Total number of schema migrations applied",
		},
	)

	SeedRecordsInserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goldenticket_seed_records_inserted_total",
			Help: "Total number of development seed records inserted",
		},
		[]string{"entity"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goldenticket_http_requests_total",
			Help: "Total number of HTTP requests handled by the router",
		},
		[]string{"method", "code"},
	)
)
