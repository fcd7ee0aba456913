// Package observability holds the Prometheus collectors for Planit.
// Collectors register with the default registry at init; cmd/api serves them
// on /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	tripsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "planit",
		Subsystem: "trips",
		Name:      "created_total",
		Help:      "Trips created.",
	})
	tripJoins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "planit",
		Subsystem: "trips",
		Name:      "joins_total",
		Help:      "Join attempts that resolved to a trip, by outcome (joined, already_joined).",
	}, []string{"outcome"})
	tripsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "planit",
		Subsystem: "trips",
		Name:      "deleted_total",
		Help:      "Trips deleted by their owner.",
	})
	activitiesAdded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "planit",
		Subsystem: "activities",
		Name:      "added_total",
		Help:      "Activities proposed, by category.",
	}, []string{"category"})
	votesToggled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "planit",
		Subsystem: "activities",
		Name:      "votes_toggled_total",
		Help:      "Vote toggles, by direction (cast, withdrawn).",
	}, []string{"direction"})
	eventPublishFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "planit",
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "Domain events that could not be delivered to the broker.",
	})
)

func init() {
	prometheus.MustRegister(tripsCreated, tripJoins, tripsDeleted, activitiesAdded, votesToggled, eventPublishFailures)
}

// RecordTripCreated counts a new trip.
func RecordTripCreated() { tripsCreated.Inc() }

// RecordTripJoin counts a join; alreadyJoined marks the idempotent no-op case.
func RecordTripJoin(alreadyJoined bool) {
	outcome := "joined"
	if alreadyJoined {
		outcome = "already_joined"
	}
	tripJoins.WithLabelValues(outcome).Inc()
}

// RecordTripDeleted counts a deleted trip.
func RecordTripDeleted() { tripsDeleted.Inc() }

// RecordActivityAdded counts a new activity under its category.
func RecordActivityAdded(category string) {
	activitiesAdded.WithLabelValues(category).Inc()
}

// RecordVoteToggled counts a toggle; cast is true when the vote was added.
func RecordVoteToggled(cast bool) {
	direction := "withdrawn"
	if cast {
		direction = "cast"
	}
	votesToggled.WithLabelValues(direction).Inc()
}

// RecordPublishFailure counts an undelivered domain event.
func RecordPublishFailure() { eventPublishFailures.Inc() }
