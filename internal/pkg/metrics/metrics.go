// Package metrics holds the Prometheus collectors of the watchers plugin.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WatchToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "watchers",
		Name:      "toggles_total",
		Help:      "Watch toggles by resulting action.",
	}, []string{"action"})

	NotificationsEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "watchers",
		Name:      "notifications_enqueued_total",
		Help:      "Notifications handed to the message queue.",
	}, []string{"module", "type"})

	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "watchers",
		Name:      "notification_failures_total",
		Help:      "Dispatch failures that were logged and swallowed.",
	}, []string{"stage"})

	LocaleCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "watchers",
		Name:      "locale_cache_hits_total",
		Help:      "Locale table lookups served from cache.",
	})

	LocaleCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "watchers",
		Name:      "locale_cache_misses_total",
		Help:      "Locale table lookups that rebuilt the table.",
	})

	QueueSent = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "watchers",
		Name:      "queue_emails_sent_total",
		Help:      "Queued messages delivered by email.",
	})
)
