package trigger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/simplesurance/draftguard/internal/logfields"
)

const metricNamespace = "draftguard"

const (
	eventsMetricName    = "webhook_events_total"
	coalescedMetricName = "evaluations_coalesced_total"
)

const (
	eventTypeLabel = "event_type"
	resultLabel    = "result"
)

type metricCollector struct {
	logger    *zap.Logger
	events    *prometheus.CounterVec
	coalesced prometheus.Counter
}

var metrics = newMetricCollector()

func newMetricCollector() *metricCollector {
	return &metricCollector{
		logger: zap.L().Named(loggerName).Named("metrics"),
		events: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      eventsMetricName,
				Help:      "count of processed github webhook events by type and processing result",
			},
			[]string{eventTypeLabel, resultLabel},
		),
		coalesced: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      coalescedMetricName,
				Help:      "count of events that were merged into an evaluation that was in progress",
			},
		),
	}
}

func (m *metricCollector) EventsInc(eventType, result string) {
	cnt, err := m.events.GetMetricWith(prometheus.Labels{eventTypeLabel: eventType, resultLabel: result})
	if err != nil {
		m.logger.Warn(
			"could not record metric",
			zap.String("metric", eventsMetricName),
			logfields.Event("recording_metric_failed"),
			zap.Error(err),
		)
		return
	}

	cnt.Inc()
}

func (m *metricCollector) CoalescedInc() {
	m.coalesced.Inc()
}
