package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalogue_sessions_created_total",
		Help: "Total number of browsing sessions started",
	})

	SessionTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalogue_session_transitions_total",
		Help: "Total number of navigation transitions applied",
	}, []string{"transition"})

	SessionLockConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalogue_session_lock_conflicts_total",
		Help: "Total number of requests rejected because the session was busy",
	})

	CatalogueQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalogue_queries_total",
		Help: "Total number of catalogue queries",
	}, []string{"query", "result"})

	LeadsRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalogue_leads_registered_total",
		Help: "Total number of register form submissions",
	})

	UserInfoPersistFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalogue_userinfo_persist_failures_total",
		Help: "Total number of failed writes of the registration slot",
	})

	LeadEventPublishFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalogue_lead_event_publish_failures_total",
		Help: "Total number of lead events that could not be published",
	})

	LeadRelaySubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalogue_lead_relay_submitted_total",
		Help: "Total number of leads accepted by the form relay",
	})

	LeadRelayFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalogue_lead_relay_failures_total",
		Help: "Total number of leads the form relay rejected",
	}, []string{"reason"})

	LeadRelayLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalogue_lead_relay_latency_seconds",
		Help:    "Latency of form relay submissions",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
