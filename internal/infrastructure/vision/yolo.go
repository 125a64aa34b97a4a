package vision

import (
	"fmt"
	"math"
	"sort"

	"vehicle-inspector/internal/domain/entity"
)

const (
	// MinConfidence детекции ниже этого порога не покидают детектор.
	MinConfidence = 0.25
	// IouThreshold порог подавления пересекающихся рамок одного класса.
	IouThreshold = 0.7
)

var yoloStrides = []int{8, 16, 32}

// anchorCount число якорей YOLOv8 для квадратного входа заданного размера.
func anchorCount(inputSize int) int {
	n := 0
	for _, s := range yoloStrides {
		side := inputSize / s
		n += side * side
	}
	return n
}

// letterbox геометрия вписывания исходника в квадратный вход модели:
// пропорции сохраняются, остаток заполняется серыми полями.
type letterbox struct {
	size       int
	scale      float64
	padX, padY int
	w, h       int // размер вписанного изображения
}

func newLetterbox(imgW, imgH, size int) letterbox {
	scale := math.Min(float64(size)/float64(imgW), float64(size)/float64(imgH))
	w := int(math.Round(float64(imgW) * scale))
	h := int(math.Round(float64(imgH) * scale))
	w, h = max(w, 1), max(h, 1)
	return letterbox{
		size:  size,
		scale: scale,
		padX:  int(math.Round(float64(size-w)/2 - 0.1)),
		padY:  int(math.Round(float64(size-h)/2 - 0.1)),
		w:     w,
		h:     h,
	}
}

// toSource переводит координаты входа модели в пиксели исходника.
func (l letterbox) toSource(x, y float64) (float64, float64) {
	return (x - float64(l.padX)) / l.scale, (y - float64(l.padY)) / l.scale
}

type candidate struct {
	box        [4]float64
	class      int
	confidence float64
}

// decodeOutput разбирает выход формы [1, 4+classes, anchors]: cx, cy, w, h в
// пикселях входа модели, затем вероятности классов.
func decodeOutput(out []float32, numClasses, anchors int, lb letterbox, imgW, imgH int, minConf float64) ([]candidate, error) {
	expected := (4 + numClasses) * anchors
	if len(out) != expected {
		return nil, fmt.Errorf("unexpected predictions length: got %d, want %d", len(out), expected)
	}

	candidates := make([]candidate, 0, 32)
	for i := 0; i < anchors; i++ {
		best, bestScore := -1, float32(0)
		for c := 0; c < numClasses; c++ {
			if s := out[(4+c)*anchors+i]; best < 0 || s > bestScore {
				best, bestScore = c, s
			}
		}
		if float64(bestScore) < minConf {
			continue
		}

		cx := float64(out[i])
		cy := float64(out[anchors+i])
		w := float64(out[2*anchors+i])
		h := float64(out[3*anchors+i])

		x1, y1 := lb.toSource(cx-w/2, cy-h/2)
		x2, y2 := lb.toSource(cx+w/2, cy+h/2)

		candidates = append(candidates, candidate{
			box: [4]float64{
				clamp(x1, 0, float64(imgW)),
				clamp(y1, 0, float64(imgH)),
				clamp(x2, 0, float64(imgW)),
				clamp(y2, 0, float64(imgH)),
			},
			class:      best,
			confidence: float64(bestScore),
		})
	}
	return candidates, nil
}

// nms оставляет самые уверенные рамки каждого класса. Результат упорядочен по убыванию уверенности.
func nms(candidates []candidate, threshold float64) []candidate {
	sorted := make([]candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].confidence > sorted[j].confidence
	})

	kept := make([]candidate, 0, len(sorted))
	for _, c := range sorted {
		suppressed := false
		for _, k := range kept {
			if k.class == c.class && iou(k.box, c.box) > threshold {
				suppressed = true
				break
			}
		}
		if !suppressed {
			kept = append(kept, c)
		}
	}
	return kept
}

func iou(a, b [4]float64) float64 {
	x1 := math.Max(a[0], b[0])
	y1 := math.Max(a[1], b[1])
	x2 := math.Min(a[2], b[2])
	y2 := math.Min(a[3], b[3])
	if x2 <= x1 || y2 <= y1 {
		return 0
	}

	inter := (x2 - x1) * (y2 - y1)
	union := (a[2]-a[0])*(a[3]-a[1]) + (b[2]-b[0])*(b[3]-b[1]) - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func toDetections(candidates []candidate, labels []string) []entity.Detection {
	detections := make([]entity.Detection, 0, len(candidates))
	for _, c := range candidates {
		name := fmt.Sprintf("class_%d", c.class)
		if c.class < len(labels) {
			name = labels[c.class]
		}
		detections = append(detections, entity.Detection{
			ClassName:  name,
			Confidence: c.confidence,
			BBox: entity.BBox{
				X1: int(c.box[0]),
				Y1: int(c.box[1]),
				X2: int(c.box[2]),
				Y2: int(c.box[3]),
			},
		})
	}
	return detections
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
