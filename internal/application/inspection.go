package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vehicle-inspector/internal/domain/decision"
	"vehicle-inspector/internal/domain/entity"
	"vehicle-inspector/internal/domain/port"
	"vehicle-inspector/pkg/log"
)

// Photo загруженная пользователем фотография
type Photo struct {
	FileName string
	Data     []byte
}

// InspectionOutput содержит оценку, её текст и картинку с подсветкой повреждений.
type InspectionOutput struct {
	ID          string
	Assessment  *entity.Assessment
	Description *entity.Description
	Highlighted []byte
}

type InspectionService struct {
	detector  port.DamageDetector
	estimator port.CleanlinessEstimator
	engine    *decision.Engine
	annotator port.DamageAnnotator
	describer port.AssessmentDescriber
	observer  port.InspectionObserver
}

// InspectionOption необязательные зависимости сервиса
type InspectionOption func(*InspectionService)

func WithAnnotator(a port.DamageAnnotator) InspectionOption {
	return func(s *InspectionService) { s.annotator = a }
}

func WithDescriber(d port.AssessmentDescriber) InspectionOption {
	return func(s *InspectionService) { s.describer = d }
}

func WithObserver(o port.InspectionObserver) InspectionOption {
	return func(s *InspectionService) { s.observer = o }
}

// NewInspectionService создаёт сервис, который управляет проверкой автомобиля.
func NewInspectionService(detector port.DamageDetector, estimator port.CleanlinessEstimator, opts ...InspectionOption) *InspectionService {
	s := &InspectionService{
		detector:  detector,
		estimator: estimator,
		engine:    decision.NewEngine(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Inspect прогоняет фото через детектор и оценку чистоты и сводит результат.
func (s *InspectionService) Inspect(ctx context.Context, photo Photo) (*InspectionOutput, error) {
	if s.detector == nil {
		return nil, ErrModelUnavailable
	}
	if err := s.detector.Ready(); err != nil {
		s.fail("model")
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	if photo.FileName == "" || len(photo.Data) == 0 {
		return nil, ErrInputMissing
	}

	id := uuid.NewString()
	ctx = log.ContextWithRequestID(ctx, id)
	started := time.Now()

	// Оценка чистоты не зависит от детектора, считаем параллельно.
	readingCh := make(chan entity.CleanlinessReading, 1)
	go func() {
		readingCh <- s.estimator.Estimate(ctx, photo.Data)
	}()

	detections, err := s.detector.Detect(ctx, photo.Data)
	reading := <-readingCh
	if err != nil {
		s.fail("detect")
		return nil, fmt.Errorf("%w: detect: %w", ErrProcessing, err)
	}

	assessment, err := s.engine.Assess(detections, reading)
	if err != nil {
		s.fail("assess")
		return nil, fmt.Errorf("%w: assess: %w", ErrProcessing, err)
	}

	if assessment.DustOverride {
		log.WithRequestID(ctx).WithField("dust_level", reading.Variance).
			Warn("uniform severe damage on a noisy photo treated as dust")
	}

	out := &InspectionOutput{ID: id, Assessment: assessment}

	if s.describer != nil {
		out.Description, err = s.describer.Describe(ctx, assessment)
		if err != nil {
			s.fail("describe")
			return nil, fmt.Errorf("%w: describe: %w", ErrProcessing, err)
		}
	}

	if s.annotator != nil && assessment.HasDamages() {
		out.Highlighted, err = s.annotator.Annotate(photo.Data, assessment.Damages)
		if err != nil {
			log.WithRequestID(ctx).WithError(err).Warn("failed to highlight damages")
		}
	}

	if s.observer != nil {
		s.observer.ObserveAssessment(assessment)
	}

	categories := make([]string, 0, len(assessment.Damages))
	for _, d := range assessment.Damages {
		categories = append(categories, d.Category.String())
	}

	log.WithRequestID(ctx).WithFields(log.Fields{
		"file":        photo.FileName,
		"detections":  len(detections),
		"damages":     len(assessment.Damages),
		"categories":  categories,
		"integrity":   assessment.Integrity,
		"cleanliness": assessment.Cleanliness,
		"score":       assessment.QualityScore,
		"latency_ms":  time.Since(started).Milliseconds(),
	}).Info("inspection completed")

	return out, nil
}

func (s *InspectionService) fail(stage string) {
	if s.observer != nil {
		s.observer.ObserveFailure(stage)
	}
}
