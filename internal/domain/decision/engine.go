// Package decision сводит детекции и показатель чистоты в итоговую оценку автомобиля.
package decision

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"vehicle-inspector/internal/domain/entity"
)

const (
	// DustOverrideVariance порог зашумлённости, выше которого сплошные
	// "severe damage" считаются пылью.
	DustOverrideVariance = 150.0

	maxScore          = 100
	washingScore      = 90
	severeDamageScore = 10
	minorDefectsScore = 80
	noticeableScore   = 50
)

// ErrInvalidDetection детекция не прошла проверку контракта детектора.
var ErrInvalidDetection = errors.New("invalid detection")

// Engine чистая функция оценки. Не хранит состояния между вызовами.
type Engine struct {
	validate *validator.Validate
}

// NewEngine создаёт движок оценки
func NewEngine() *Engine {
	return &Engine{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Assess строит оценку по детекциям и показанию чистоты.
func (e *Engine) Assess(detections []entity.Detection, reading entity.CleanlinessReading) (*entity.Assessment, error) {
	for i := range detections {
		if err := e.validate.Struct(detections[i]); err != nil {
			return nil, fmt.Errorf("%w: detection %d: %v", ErrInvalidDetection, i, err)
		}
	}

	override := dustOverride(detections, reading.Variance)
	if override {
		detections = nil
	}

	damages := extractDamages(detections)
	score := scoreDamages(damages)

	result := &entity.Assessment{
		Integrity:    entity.IntegrityIntact,
		Cleanliness:  reading.Status,
		Damages:      damages,
		DustOverride: override,
		Variance:     reading.Variance,
	}
	if len(damages) > 0 {
		result.Integrity = entity.IntegrityDamaged
	}

	switch {
	case result.Integrity == entity.IntegrityIntact && reading.Status == entity.CleanlinessDirty:
		result.QualityScore = washingScore
		result.Summary = entity.SummaryNeedsWashing
	case len(damages) == 0:
		result.QualityScore = maxScore
		result.Summary = entity.SummaryExcellent
	default:
		result.QualityScore = score
		result.Summary = summaryForScore(score)
	}

	// Серьёзное повреждение перекрывает все предыдущие правила.
	if hasSevere(damages) {
		result.QualityScore = severeDamageScore
		result.Summary = entity.SummarySevere
	}

	result.SummaryText = result.Summary.Text()
	return result, nil
}

// dustOverride ловит известную ошибку модели: сильный шум размечается
// как сплошное серьёзное повреждение.
func dustOverride(detections []entity.Detection, variance float64) bool {
	if len(detections) == 0 {
		return false
	}
	for _, d := range detections {
		if !d.IsSevere() {
			return false
		}
	}
	return variance > DustOverrideVariance
}

func extractDamages(detections []entity.Detection) []entity.DamageFinding {
	damages := make([]entity.DamageFinding, 0, len(detections))
	for _, d := range detections {
		if d.IsGood() {
			continue
		}
		category := entity.ClassifyLabel(d.ClassName)
		damages = append(damages, entity.DamageFinding{
			Detection: d,
			Category:  category,
			Penalty:   category.Penalty(),
		})
	}
	return damages
}

// scoreDamages вычитает штрафы из 100; результат не опускается ниже нуля.
func scoreDamages(damages []entity.DamageFinding) int {
	score := maxScore
	for _, d := range damages {
		score -= d.Penalty
	}
	if score < 0 {
		score = 0
	}
	return score
}

func summaryForScore(score int) entity.SummaryKind {
	switch {
	case score >= minorDefectsScore:
		return entity.SummaryMinor
	case score >= noticeableScore:
		return entity.SummaryNoticeable
	default:
		return entity.SummaryPoor
	}
}

func hasSevere(damages []entity.DamageFinding) bool {
	for _, d := range damages {
		if d.Category == entity.CategorySevere {
			return true
		}
	}
	return false
}
