package readiness

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/simplesurance/draftguard/internal/logfields"
)

const metricNamespace = "draftguard"

const (
	evaluationsMetricName        = "evaluations_total"
	evaluationErrorsMetricName   = "evaluation_errors_total"
	mutationsMetricName          = "draft_mutations_total"
	commentErrorsMetricName      = "comment_errors_total"
	evaluationDurationMetricName = "evaluation_duration_seconds"
)

const (
	verdictLabel   = "verdict"
	outcomeLabel   = "outcome"
	errorTypeLabel = "error_type"
)

type metricCollector struct {
	logger             *zap.Logger
	evaluations        *prometheus.CounterVec
	evaluationErrors   *prometheus.CounterVec
	mutations          *prometheus.CounterVec
	commentErrors      prometheus.Counter
	evaluationDuration prometheus.Histogram
}

var metrics = newMetricCollector()

func newMetricCollector() *metricCollector {
	return &metricCollector{
		logger: zap.L().Named(loggerName).Named("metrics"),
		evaluations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      evaluationsMetricName,
				Help:      "count of completed readiness evaluations by verdict",
			},
			[]string{verdictLabel},
		),
		evaluationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      evaluationErrorsMetricName,
				Help:      "count of readiness evaluations that failed",
			},
			[]string{errorTypeLabel},
		),
		mutations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      mutationsMetricName,
				Help:      "count of pull request draft mutations by outcome",
			},
			[]string{outcomeLabel},
		),
		commentErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      commentErrorsMetricName,
				Help:      "count of comments that could not be created after converting a pull request to draft",
			},
		),
		evaluationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricNamespace,
				Name:      evaluationDurationMetricName,
				Help:      "duration of readiness evaluations, including the settle delay",
				Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
			},
		),
	}
}

func (m *metricCollector) logGetMetricFailed(metricName string, err error) {
	m.logger.Warn(
		"could not record metric",
		zap.String("metric", metricName),
		logfields.Event("recording_metric_failed"),
		zap.Error(err),
	)
}

func (m *metricCollector) EvaluationsInc(verdict Verdict) {
	cnt, err := m.evaluations.GetMetricWith(prometheus.Labels{verdictLabel: verdict.String()})
	if err != nil {
		m.logGetMetricFailed(evaluationsMetricName, err)
		return
	}

	cnt.Inc()
}

func (m *metricCollector) EvaluationErrorsInc(errorType string) {
	cnt, err := m.evaluationErrors.GetMetricWith(prometheus.Labels{errorTypeLabel: errorType})
	if err != nil {
		m.logGetMetricFailed(evaluationErrorsMetricName, err)
		return
	}

	cnt.Inc()
}

func (m *metricCollector) MutationsInc(outcome MutationOutcome) {
	cnt, err := m.mutations.GetMetricWith(prometheus.Labels{outcomeLabel: outcome.String()})
	if err != nil {
		m.logGetMetricFailed(mutationsMetricName, err)
		return
	}

	cnt.Inc()
}

func (m *metricCollector) CommentErrorsInc() {
	m.commentErrors.Inc()
}

func (m *metricCollector) EvaluationDurationObserve(seconds float64) {
	m.evaluationDuration.Observe(seconds)
}
