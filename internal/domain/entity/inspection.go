package entity

// IntegrityStatus целостность кузова
type IntegrityStatus string

const (
	IntegrityIntact  IntegrityStatus = "intact"
	IntegrityDamaged IntegrityStatus = "damaged"
)

// SummaryKind один из фиксированных итоговых вердиктов
type SummaryKind string

const (
	SummaryNeedsWashing SummaryKind = "needs_washing"
	SummaryExcellent    SummaryKind = "excellent"
	SummaryMinor        SummaryKind = "minor_defects"
	SummaryNoticeable   SummaryKind = "noticeable_damage"
	SummaryPoor         SummaryKind = "poor"
	SummarySevere       SummaryKind = "severe_damage"
)

var summaryTexts = map[SummaryKind]string{
	SummaryNeedsWashing: "vehicle intact but needs washing",
	SummaryExcellent:    "vehicle in excellent condition",
	SummaryMinor:        "minor defects found",
	SummaryNoticeable:   "noticeable damage found",
	SummaryPoor:         "vehicle in poor condition",
	SummarySevere:       "vehicle in poor condition, severe damage found",
}

// Text возвращает итоговое предложение
func (k SummaryKind) Text() string {
	return summaryTexts[k]
}

// Assessment итог оценки одной фотографии.
type Assessment struct {
	Integrity    IntegrityStatus   `json:"integrity_status"`
	Cleanliness  CleanlinessStatus `json:"cleanliness_status"`
	QualityScore int               `json:"quality_score"`
	Summary      SummaryKind       `json:"-"`
	SummaryText  string            `json:"summary_text"`

	Damages      []DamageFinding `json:"damages"`       // повреждения после корректировки
	DustOverride bool            `json:"dust_override"` // сработала корректировка "пыль = повреждение"
	Variance     float64         `json:"dust_level"`    // показатель зашумлённости
}

// HasDamages флаг наличия повреждений
func (a *Assessment) HasDamages() bool {
	return len(a.Damages) > 0
}

// Description текстовое описание оценки для пользователя.
type Description struct {
	Text string
}
