package describer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vehicle-inspector/internal/domain/entity"
	"vehicle-inspector/internal/domain/port"
)

var summaries = map[entity.SummaryKind]string{
	entity.SummaryNeedsWashing: "Автомобиль целый, но требует мойки.",
	entity.SummaryExcellent:    "Автомобиль в отличном состоянии.",
	entity.SummaryMinor:        "Обнаружены незначительные дефекты.",
	entity.SummaryNoticeable:   "Обнаружены заметные повреждения.",
	entity.SummaryPoor:         "Автомобиль в плохом состоянии.",
	entity.SummarySevere:       "Автомобиль в плохом состоянии, обнаружены серьезные повреждения.",
}

var integrity = map[entity.IntegrityStatus]string{
	entity.IntegrityIntact:  "Целый",
	entity.IntegrityDamaged: "Поврежден",
}

var cleanliness = map[entity.CleanlinessStatus]string{
	entity.CleanlinessClean:          "Чистый",
	entity.CleanlinessDirty:          "Грязный",
	entity.CleanlinessAnalysisFailed: "Анализ не удался",
}

// TemplateDescriber описывает оценку фиксированными русскими фразами
type TemplateDescriber struct{}

func NewTemplateDescriber() *TemplateDescriber {
	return &TemplateDescriber{}
}

// Describe собирает текст ответа пользователю.
func (d *TemplateDescriber) Describe(_ context.Context, a *entity.Assessment) (*entity.Description, error) {
	if a == nil {
		return nil, errors.New("assessment is nil")
	}

	summary, ok := summaries[a.Summary]
	if !ok {
		return nil, fmt.Errorf("unknown summary kind %q", a.Summary)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🚗 %s\n\n", summary)
	fmt.Fprintf(&b, "Целостность: %s\n", integrity[a.Integrity])
	fmt.Fprintf(&b, "Чистота: %s\n", cleanliness[a.Cleanliness])
	fmt.Fprintf(&b, "Оценка качества: %d/100\n", a.QualityScore)

	if len(a.Damages) > 0 {
		b.WriteString("\nНайденные повреждения:\n")
		for _, dmg := range a.Damages {
			fmt.Fprintf(&b, "• %s (%.0f%%)\n", dmg.Detection.ClassName, dmg.Detection.Confidence*100)
		}
	}
	if a.DustOverride {
		b.WriteString("\nℹ️ Сильная запылённость была ошибочно принята моделью за повреждения, результат скорректирован.\n")
	}

	return &entity.Description{Text: strings.TrimRight(b.String(), "\n")}, nil
}

var _ port.AssessmentDescriber = (*TemplateDescriber)(nil)
