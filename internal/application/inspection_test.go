package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"vehicle-inspector/internal/domain/decision"
	"vehicle-inspector/internal/domain/entity"
	"vehicle-inspector/internal/domain/port"
	"vehicle-inspector/internal/infrastructure/describer"
)

type fakeDetector struct {
	detections []entity.Detection
	err        error
	ready      error
	calls      int
}

func (f *fakeDetector) Ready() error { return f.ready }

func (f *fakeDetector) Detect(ctx context.Context, imageData []byte) ([]entity.Detection, error) {
	f.calls++
	return f.detections, f.err
}

type fakeEstimator struct {
	reading entity.CleanlinessReading
}

func (f fakeEstimator) Estimate(ctx context.Context, imageData []byte) entity.CleanlinessReading {
	return f.reading
}

type fakeAnnotator struct {
	err   error
	calls int
}

func (f *fakeAnnotator) Annotate(imageData []byte, damages []entity.DamageFinding) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("annotated"), nil
}

type fakeObserver struct {
	assessments int
	failures    []string
}

func (f *fakeObserver) ObserveAssessment(*entity.Assessment) { f.assessments++ }
func (f *fakeObserver) ObserveFailure(stage string)          { f.failures = append(f.failures, stage) }

var photo = Photo{FileName: "car.jpg", Data: []byte("jpeg")}

func detection(label string) entity.Detection {
	return entity.Detection{ClassName: label, Confidence: 0.8, BBox: entity.BBox{X1: 1, Y1: 1, X2: 10, Y2: 10}}
}

func TestInspectionService_Inspect(t *testing.T) {
	det := &fakeDetector{detections: []entity.Detection{detection("dent_front"), detection("scratch_door")}}
	ann := &fakeAnnotator{}
	obs := &fakeObserver{}
	svc := NewInspectionService(det, fakeEstimator{reading: entity.NewCleanlinessReading(30)},
		WithAnnotator(ann), WithDescriber(describer.NewTemplateDescriber()), WithObserver(obs))

	out, err := svc.Inspect(context.Background(), photo)
	require.NoError(t, err)
	require.NotEmpty(t, out.ID)
	require.Equal(t, entity.IntegrityDamaged, out.Assessment.Integrity)
	require.Equal(t, entity.CleanlinessClean, out.Assessment.Cleanliness)
	require.Equal(t, 75, out.Assessment.QualityScore)
	require.Equal(t, "noticeable damage found", out.Assessment.SummaryText)
	require.Contains(t, out.Description.Text, "заметные повреждения")
	require.Equal(t, []byte("annotated"), out.Highlighted)
	require.Equal(t, 1, obs.assessments)
}

func TestInspectionService_NoHighlightWithoutDamages(t *testing.T) {
	ann := &fakeAnnotator{}
	svc := NewInspectionService(&fakeDetector{detections: []entity.Detection{detection("good_condition")}},
		fakeEstimator{reading: entity.NewCleanlinessReading(100)}, WithAnnotator(ann))

	out, err := svc.Inspect(context.Background(), photo)
	require.NoError(t, err)
	require.Equal(t, 90, out.Assessment.QualityScore)
	require.Nil(t, out.Highlighted)
	require.Nil(t, out.Description)
	require.Zero(t, ann.calls)
}

func TestInspectionService_AnnotatorFailureIsNotFatal(t *testing.T) {
	svc := NewInspectionService(&fakeDetector{detections: []entity.Detection{detection("dent")}},
		fakeEstimator{reading: entity.NewCleanlinessReading(10)}, WithAnnotator(&fakeAnnotator{err: errors.New("decode")}))

	out, err := svc.Inspect(context.Background(), photo)
	require.NoError(t, err)
	require.Nil(t, out.Highlighted)
	require.Equal(t, 85, out.Assessment.QualityScore)
}

func TestInspectionService_DustOverride(t *testing.T) {
	svc := NewInspectionService(&fakeDetector{detections: []entity.Detection{detection("severe damage"), detection("severe damage")}},
		fakeEstimator{reading: entity.NewCleanlinessReading(240)})

	out, err := svc.Inspect(context.Background(), photo)
	require.NoError(t, err)
	require.True(t, out.Assessment.DustOverride)
	require.Equal(t, entity.IntegrityIntact, out.Assessment.Integrity)
	require.Empty(t, out.Assessment.Damages)
}

func TestInspectionService_CleanlinessFailureDegrades(t *testing.T) {
	svc := NewInspectionService(&fakeDetector{}, fakeEstimator{reading: entity.FailedCleanlinessReading()})

	out, err := svc.Inspect(context.Background(), photo)
	require.NoError(t, err)
	require.Equal(t, entity.CleanlinessAnalysisFailed, out.Assessment.Cleanliness)
	require.Equal(t, 100, out.Assessment.QualityScore)
}

func TestInspectionService_ModelUnavailable(t *testing.T) {
	det := &fakeDetector{ready: port.ErrDetectorUnavailable}
	obs := &fakeObserver{}
	svc := NewInspectionService(det, fakeEstimator{}, WithObserver(obs))

	_, err := svc.Inspect(context.Background(), photo)
	require.ErrorIs(t, err, ErrModelUnavailable)
	require.ErrorIs(t, err, port.ErrDetectorUnavailable)
	require.Zero(t, det.calls)
	require.Equal(t, []string{"model"}, obs.failures)

	_, err = NewInspectionService(nil, fakeEstimator{}).Inspect(context.Background(), photo)
	require.ErrorIs(t, err, ErrModelUnavailable)
}

func TestInspectionService_InputMissing(t *testing.T) {
	det := &fakeDetector{}
	svc := NewInspectionService(det, fakeEstimator{})

	for name, p := range map[string]Photo{
		"no data":        {FileName: "car.jpg"},
		"no file name":   {Data: []byte("jpeg")},
		"nothing at all": {},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Inspect(context.Background(), p)
			require.ErrorIs(t, err, ErrInputMissing)
		})
	}
	require.Zero(t, det.calls)
}

func TestInspectionService_DetectorFailure(t *testing.T) {
	cause := errors.New("inference blew up")
	obs := &fakeObserver{}
	svc := NewInspectionService(&fakeDetector{err: cause}, fakeEstimator{}, WithObserver(obs))

	_, err := svc.Inspect(context.Background(), photo)
	require.ErrorIs(t, err, ErrProcessing)
	require.ErrorIs(t, err, cause)
	require.Equal(t, []string{"detect"}, obs.failures)
}

func TestInspectionService_InvalidDetection(t *testing.T) {
	svc := NewInspectionService(&fakeDetector{detections: []entity.Detection{{Confidence: 0.5}}}, fakeEstimator{})

	_, err := svc.Inspect(context.Background(), photo)
	require.ErrorIs(t, err, ErrProcessing)
	require.ErrorIs(t, err, decision.ErrInvalidDetection)
}
