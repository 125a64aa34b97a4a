package vision

import (
	"context"
	"fmt"

	"vehicle-inspector/internal/domain/entity"
	"vehicle-inspector/internal/domain/port"
)

// UnavailableDetector подставляется вместо модели, которую не удалось загрузить.
type UnavailableDetector struct {
	Cause error
}

func NewUnavailableDetector(cause error) *UnavailableDetector {
	return &UnavailableDetector{Cause: cause}
}

func (d *UnavailableDetector) Ready() error {
	return fmt.Errorf("%w: %v", port.ErrDetectorUnavailable, d.Cause)
}

func (d *UnavailableDetector) Detect(ctx context.Context, imageData []byte) ([]entity.Detection, error) {
	return nil, d.Ready()
}

var _ port.DamageDetector = (*UnavailableDetector)(nil)
