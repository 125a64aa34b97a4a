package vision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"runtime"

	"github.com/disintegration/imaging"
	ort "github.com/yalue/onnxruntime_go"

	"vehicle-inspector/internal/domain/entity"
	"vehicle-inspector/internal/domain/port"
	"vehicle-inspector/pkg/log"
)

// DetectorConfig параметры загрузки модели
type DetectorConfig struct {
	ModelPath   string
	LibraryPath string
	Labels      []string
	InputSize   int
	PoolSize    int
}

// ONNXDetector YOLO-детектор повреждений на onnxruntime.
type ONNXDetector struct {
	pool      *sessionPool
	labels    []string
	inputSize int
	anchors   int

	MinConfidence float64
	IouThreshold  float64
}

// NewONNXDetector инициализирует окружение onnxruntime и пул сессий.
func NewONNXDetector(cfg DetectorConfig) (*ONNXDetector, error) {
	if len(cfg.Labels) == 0 {
		return nil, errors.New("model labels are not configured")
	}
	if cfg.InputSize <= 0 || cfg.InputSize%32 != 0 {
		return nil, fmt.Errorf("input size must be a positive multiple of 32, got %d", cfg.InputSize)
	}

	if !ort.IsInitialized() {
		if cfg.LibraryPath != "" {
			ort.SetSharedLibraryPath(cfg.LibraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}

	d := &ONNXDetector{
		labels:        cfg.Labels,
		inputSize:     cfg.InputSize,
		anchors:       anchorCount(cfg.InputSize),
		MinConfidence: MinConfidence,
		IouThreshold:  IouThreshold,
	}

	pool, err := newSessionPool(cfg.PoolSize, func() (*modelSession, error) {
		return d.newSession(cfg.ModelPath)
	})
	if err != nil {
		return nil, err
	}
	d.pool = pool

	log.Info(log.Fields{
		"model":   cfg.ModelPath,
		"labels":  cfg.Labels,
		"input":   cfg.InputSize,
		"anchors": d.anchors,
		"pool":    cfg.PoolSize,
	}, "damage detector loaded")

	return d, nil
}

func (d *ONNXDetector) newSession(modelPath string) (*modelSession, error) {
	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("error creating session options: %w", err)
	}
	defer options.Destroy()

	_ = options.SetIntraOpNumThreads(runtime.NumCPU())
	_ = options.SetInterOpNumThreads(1)

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, int64(d.inputSize), int64(d.inputSize)))
	if err != nil {
		return nil, fmt.Errorf("error creating input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(4+len(d.labels)), int64(d.anchors)))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("error creating output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{"images"},
		[]string{"output0"},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		options,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	return &modelSession{Session: session, Input: inputTensor, Output: outputTensor}, nil
}

// Ready детектор загружен и готов к работе
func (d *ONNXDetector) Ready() error {
	return nil
}

// Detect запускает модель и возвращает детекции с уверенностью от MinConfidence.
func (d *ONNXDetector) Detect(ctx context.Context, imageData []byte) ([]entity.Detection, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, errors.New("empty image")
	}

	lb := newLetterbox(bounds.Dx(), bounds.Dy(), d.inputSize)
	input := letterboxImage(img, lb)

	session, err := d.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}
	defer d.pool.Release(session)

	fillInput(session.Input.GetData(), input, d.inputSize)

	if err := session.Session.Run(); err != nil {
		return nil, fmt.Errorf("model inference: %w", err)
	}

	candidates, err := decodeOutput(session.Output.GetData(), len(d.labels), d.anchors, lb,
		bounds.Dx(), bounds.Dy(), d.MinConfidence)
	if err != nil {
		return nil, fmt.Errorf("process predictions: %w", err)
	}

	return toDetections(nms(candidates, d.IouThreshold), d.labels), nil
}

// Close освобождает сессии
func (d *ONNXDetector) Close() {
	d.pool.Destroy()
}

// letterboxColor цвет полей, которым дополняется вход модели
var letterboxColor = color.NRGBA{R: 114, G: 114, B: 114, A: 255}

// letterboxImage вписывает изображение в квадрат без искажения пропорций.
func letterboxImage(img image.Image, lb letterbox) *image.NRGBA {
	resized := imaging.Resize(img, lb.w, lb.h, imaging.Linear)
	canvas := imaging.New(lb.size, lb.size, letterboxColor)
	return imaging.Paste(canvas, resized, image.Pt(lb.padX, lb.padY))
}

// fillInput раскладывает RGB в плоский CHW-буфер с нормировкой в [0, 1].
func fillInput(dst []float32, img *image.NRGBA, size int) {
	channelSize := size * size
	for y := 0; y < size; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+size*4]
		for x := 0; x < size; x++ {
			i := y*size + x
			dst[i] = float32(row[x*4]) / 255.0
			dst[channelSize+i] = float32(row[x*4+1]) / 255.0
			dst[channelSize*2+i] = float32(row[x*4+2]) / 255.0
		}
	}
}

var _ port.DamageDetector = (*ONNXDetector)(nil)
