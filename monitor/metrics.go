package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "moderation"

type metrics struct {
	events          *prometheus.CounterVec
	votes           *prometheus.CounterVec
	finalized       *prometheus.CounterVec
	faults          *prometheus.CounterVec
	stakedGAS       prometheus.Gauge
	processedHeight prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Number of contract notifications processed",
		}, []string{"event"}),
		votes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "Number of accepted votes",
		}, []string{"target", "support"}),
		finalized: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "finalized_total",
			Help:      "Number of finalized contents and appeals by outcome",
		}, []string{"target", "status"}),
		faults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failed_transactions_total",
			Help:      "Number of FAULTed transactions calling the contract by error",
		}, []string{"error"}),
		stakedGAS: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "staked_gas",
			Help:      "GAS fractions locked by stakes made since the start height",
		}),
		processedHeight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "processed_height",
			Help:      "Index of the last processed block",
		}),
	}
}
