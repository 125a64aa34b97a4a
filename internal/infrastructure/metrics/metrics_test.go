package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"vehicle-inspector/internal/domain/entity"
)

func TestCollector_ObserveAssessment(t *testing.T) {
	c := NewCollector()

	c.ObserveAssessment(&entity.Assessment{
		Integrity:    entity.IntegrityIntact,
		Cleanliness:  entity.CleanlinessDirty,
		QualityScore: 90,
		DustOverride: true,
		Variance:     300,
	})
	c.ObserveAssessment(&entity.Assessment{
		Integrity:    entity.IntegrityDamaged,
		Cleanliness:  entity.CleanlinessAnalysisFailed,
		QualityScore: 10,
		Damages: []entity.DamageFinding{
			{Detection: entity.Detection{ClassName: "severe damage"}, Category: entity.CategorySevere, Penalty: 20},
			{Detection: entity.Detection{ClassName: "dent_front"}, Category: entity.CategoryDent, Penalty: 15},
			{Detection: entity.Detection{ClassName: "dent_rear"}, Category: entity.CategoryDent, Penalty: 15},
		},
	})
	c.ObserveFailure("detect")

	require.Equal(t, 1.0, testutil.ToFloat64(c.assessments.WithLabelValues("intact", "dirty")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.assessments.WithLabelValues("damaged", "analysis_failed")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.dustOverride))
	require.Equal(t, 1.0, testutil.ToFloat64(c.failures.WithLabelValues("detect")))
	require.Equal(t, 1, testutil.CollectAndCount(c.dustLevel))
	require.Equal(t, 2.0, testutil.ToFloat64(c.damages.WithLabelValues("dent")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.damages.WithLabelValues("severe")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.ObserveFailure("detect")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `vehicle_inspector_failures_total{stage="detect"} 1`)
}
