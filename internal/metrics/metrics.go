package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks served HTTP requests per route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks HTTP request latency per route
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// FailuresTotal tracks translated failures per kind
	FailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_failures_total",
			Help: "Total number of failures returned to clients",
		},
		[]string{"kind"},
	)

	// TxCommitsTotal tracks committed units of work
	TxCommitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_tx_commits_total",
			Help: "Total number of committed units of work",
		},
	)

	// TxRollbacksTotal tracks rolled back units of work
	TxRollbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_tx_rollbacks_total",
			Help: "Total number of rolled back units of work",
		},
	)

	// CacheRequestsTotal tracks product cache lookups per outcome
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_requests_total",
			Help: "Total number of product cache lookups",
		},
		[]string{"outcome"},
	)

	// ProductsPurgedTotal tracks soft-deleted products removed by the pruner
	ProductsPurgedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_products_purged_total",
			Help: "Total number of soft-deleted products purged",
		},
	)

	// DBConnectionPoolUsage tracks connection pool utilization percentage
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_db_connection_pool_usage",
			Help: "Database connection pool usage percentage",
		},
	)
)
