package entity

import "strings"

// BBox прямоугольник найденного объекта в пикселях исходного изображения
type BBox struct {
	X1 int `json:"x1" validate:"gte=0"`
	Y1 int `json:"y1" validate:"gte=0"`
	X2 int `json:"x2" validate:"gtefield=X1"`
	Y2 int `json:"y2" validate:"gtefield=Y1"`
}

// DamageCategory категория метки детектора с точки зрения оценки
type DamageCategory int

const (
	CategoryGood    DamageCategory = iota // good_condition, не повреждение
	CategorySevere                        // severe damage
	CategoryDent                          // метка содержит "dent"
	CategoryScratch                       // метка содержит "scratch"
	CategoryOther                         // любое другое повреждение
)

// ClassifyLabel сопоставляет метку категории. Порядок проверок важен:
// точные зарезервированные метки, затем подстроки "dent" и "scratch".
func ClassifyLabel(label string) DamageCategory {
	switch {
	case label == LabelGoodCondition:
		return CategoryGood
	case label == LabelSevereDamage:
		return CategorySevere
	case strings.Contains(label, "dent"):
		return CategoryDent
	case strings.Contains(label, "scratch"):
		return CategoryScratch
	default:
		return CategoryOther
	}
}

// Penalty штраф к оценке качества за одну находку этой категории
func (c DamageCategory) Penalty() int {
	switch c {
	case CategoryGood:
		return 0
	case CategoryDent:
		return 15
	case CategoryScratch:
		return 10
	default:
		return 20
	}
}

func (c DamageCategory) String() string {
	switch c {
	case CategoryGood:
		return "good"
	case CategorySevere:
		return "severe"
	case CategoryDent:
		return "dent"
	case CategoryScratch:
		return "scratch"
	default:
		return "other"
	}
}

// DamageFinding детекция, признанная повреждением
type DamageFinding struct {
	Detection Detection      `json:"detection"`
	Category  DamageCategory `json:"-"`
	Penalty   int            `json:"penalty"`
}
