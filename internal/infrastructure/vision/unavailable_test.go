package vision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"vehicle-inspector/internal/domain/port"
)

func TestUnavailableDetector(t *testing.T) {
	d := NewUnavailableDetector(errors.New("weights not found"))

	require.ErrorIs(t, d.Ready(), port.ErrDetectorUnavailable)

	_, err := d.Detect(context.Background(), []byte("img"))
	require.ErrorIs(t, err, port.ErrDetectorUnavailable)
	require.ErrorContains(t, err, "weights not found")
}
