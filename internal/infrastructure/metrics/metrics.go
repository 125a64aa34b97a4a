package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vehicle-inspector/internal/domain/entity"
	"vehicle-inspector/internal/domain/port"
)

// Collector метрики проверок автомобилей
type Collector struct {
	registry     *prometheus.Registry
	assessments  *prometheus.CounterVec
	dustOverride prometheus.Counter
	dustLevel    prometheus.Histogram
	score        prometheus.Histogram
	damages      *prometheus.CounterVec
	failures     *prometheus.CounterVec
}

// NewCollector регистрирует метрики в собственном реестре.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vehicle_inspector",
			Name:      "assessments_total",
			Help:      "Completed assessments by integrity and cleanliness status.",
		}, []string{"integrity", "cleanliness"}),
		dustOverride: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vehicle_inspector",
			Name:      "dust_overrides_total",
			Help:      "Assessments where uniform severe damage was discarded as dust.",
		}),
		dustLevel: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vehicle_inspector",
			Name:      "dust_level",
			Help:      "Laplacian variance of analysed photos.",
			Buckets:   []float64{20, 40, 60, 80, 100, 150, 250, 500, 1000},
		}),
		score: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vehicle_inspector",
			Name:      "quality_score",
			Help:      "Quality scores of completed assessments.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
		damages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vehicle_inspector",
			Name:      "damages_total",
			Help:      "Damage findings by category.",
		}, []string{"category"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vehicle_inspector",
			Name:      "failures_total",
			Help:      "Failed inspections by stage.",
		}, []string{"stage"}),
	}

	c.registry.MustRegister(c.assessments, c.dustOverride, c.dustLevel, c.score, c.damages, c.failures)
	return c
}

func (c *Collector) ObserveAssessment(a *entity.Assessment) {
	c.assessments.WithLabelValues(string(a.Integrity), string(a.Cleanliness)).Inc()
	if a.DustOverride {
		c.dustOverride.Inc()
	}
	if a.Cleanliness != entity.CleanlinessAnalysisFailed {
		c.dustLevel.Observe(a.Variance)
	}
	c.score.Observe(float64(a.QualityScore))
	for _, d := range a.Damages {
		c.damages.WithLabelValues(d.Category.String()).Inc()
	}
}

func (c *Collector) ObserveFailure(stage string) {
	c.failures.WithLabelValues(stage).Inc()
}

// Handler отдаёт метрики в формате Prometheus
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

var _ port.InspectionObserver = (*Collector)(nil)
