package entity

// Зарезервированные метки модели, на которых строится логика оценки.
const (
	LabelGoodCondition = "good_condition"
	LabelSevereDamage  = "severe damage"
)

// Detection одна находка детектора
type Detection struct {
	ClassName  string  `json:"class_name" validate:"required"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
	BBox       BBox    `json:"bbox"`
}

// IsGood сообщает, что детекция говорит о целом кузове
func (d Detection) IsGood() bool {
	return d.ClassName == LabelGoodCondition
}

// IsSevere сообщает, что детекция помечена как серьёзное повреждение
func (d Detection) IsSevere() bool {
	return d.ClassName == LabelSevereDamage
}
