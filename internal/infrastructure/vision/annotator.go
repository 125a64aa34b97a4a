package vision

import (
	"image/color"

	"vehicle-inspector/internal/domain/entity"
)

const annotationThickness = 3

// categoryColor цвет рамки по категории повреждения
func categoryColor(c entity.DamageCategory) color.RGBA {
	switch c {
	case entity.CategorySevere:
		return color.RGBA{R: 255, A: 255}
	case entity.CategoryDent:
		return color.RGBA{R: 255, G: 140, A: 255}
	case entity.CategoryScratch:
		return color.RGBA{R: 255, G: 220, A: 255}
	default:
		return color.RGBA{R: 200, B: 255, A: 255}
	}
}
