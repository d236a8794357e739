package squarer

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/dixieflatline76/Squarify/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createPatternImage returns an opaque image where every pixel encodes its coordinates.
func createPatternImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, patternColor(x, y))
		}
	}
	return img
}

func patternColor(x, y int) color.NRGBA {
	return color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x/256 + 4*(y/256)), A: 255}
}

func newTestSquarer(overflow config.OverflowPolicy) *Squarer {
	cfg := config.Default()
	cfg.Overflow = overflow
	return NewSquarer(cfg)
}

func TestTransform_Landscape(t *testing.T) {
	s := newTestSquarer(config.OverflowCenter)
	src := createPatternImage(600, 400)

	out, geo, err := s.Transform(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 520, 520), out.Bounds())
	assert.Equal(t, 60, geo.PadTop)
	assert.Equal(t, 60, geo.PadBottom)

	for y := 0; y < 520; y++ {
		for x := 0; x < 520; x++ {
			got := out.NRGBAAt(x, y)
			if y < 60 || y >= 460 {
				if got.A != 0 {
					t.Fatalf("pixel (%d,%d) should be transparent, got %v", x, y, got)
				}
				continue
			}
			if want := patternColor(x+40, y-60); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestTransform_OutputIsSquare(t *testing.T) {
	s := newTestSquarer(config.OverflowCenter)

	sizes := [][2]int{{81, 1}, {100, 20}, {500, 300}, {641, 480}, {1000, 920}}
	for _, sz := range sizes {
		out, _, err := s.Transform(context.Background(), createPatternImage(sz[0], sz[1]))
		require.NoError(t, err)
		assert.Equal(t, sz[0]-80, out.Bounds().Dx())
		assert.Equal(t, sz[0]-80, out.Bounds().Dy())
	}
}

func TestTransform_NotIdempotent(t *testing.T) {
	s := newTestSquarer(config.OverflowCenter)
	src := createPatternImage(500, 300)

	first, _, err := s.Transform(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 420, 420), first.Bounds())

	second, geo, err := s.Transform(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 340, 340), second.Bounds())
	assert.Equal(t, -40, geo.PadTop)

	// Row 0 of the second pass is row 40 of the first pass, which sits in the
	// first pass's transparent top padding.
	assert.Equal(t, uint8(0), second.NRGBAAt(0, 0).A)
	// Row 30 of the second pass is row 70 of the first pass: source row 10, column 80.
	assert.Equal(t, patternColor(80, 10), second.NRGBAAt(0, 30))
	assert.NotEqual(t, first.Bounds(), second.Bounds())
}

func TestTransform_PreservesAlpha(t *testing.T) {
	s := newTestSquarer(config.OverflowCenter)
	src := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 10, G: 20, B: 30, A: 128})
		}
	}

	out, geo, err := s.Transform(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 120, geo.Side)
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 128}, out.NRGBAAt(5, geo.PadTop))
	assert.Equal(t, color.NRGBA{}, out.NRGBAAt(5, 0))
}

func TestTransform_OffsetBounds(t *testing.T) {
	s := newTestSquarer(config.OverflowCenter)
	full := createPatternImage(700, 500)
	sub := full.SubImage(image.Rect(50, 50, 650, 450)) // 600x400 starting at (50,50)

	out, _, err := s.Transform(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 520, 520), out.Bounds())
	assert.Equal(t, patternColor(50+40, 50), out.NRGBAAt(0, 60))
}

func TestTransform_CropTooWide(t *testing.T) {
	s := newTestSquarer(config.OverflowCenter)

	for _, w := range []int{10, 79, 80} {
		_, _, err := s.Transform(context.Background(), createPatternImage(w, 10))
		assert.True(t, errors.Is(err, ErrCropTooWide), "width %d: %v", w, err)
	}
}

func TestTransform_OverflowPolicies(t *testing.T) {
	src := createPatternImage(200, 300) // crop is 120x300

	t.Run("reject", func(t *testing.T) {
		_, _, err := newTestSquarer(config.OverflowReject).Transform(context.Background(), src)
		assert.ErrorIs(t, err, ErrTallerThanWide)
	})

	t.Run("center", func(t *testing.T) {
		out, geo, err := newTestSquarer(config.OverflowCenter).Transform(context.Background(), src)
		require.NoError(t, err)
		assert.Equal(t, -90, geo.PadTop)
		assert.Equal(t, image.Rect(0, 0, 120, 120), out.Bounds())
		assert.Equal(t, patternColor(40, 90), out.NRGBAAt(0, 0))
		assert.Equal(t, patternColor(159, 209), out.NRGBAAt(119, 119))
	})

	t.Run("smart", func(t *testing.T) {
		out, _, err := newTestSquarer(config.OverflowSmart).Transform(context.Background(), src)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 120, 120), out.Bounds())
		assert.Equal(t, uint8(255), out.NRGBAAt(60, 60).A)
	})
}

func TestTransform_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newTestSquarer(config.OverflowCenter).Transform(ctx, createPatternImage(200, 100))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlan(t *testing.T) {
	s := newTestSquarer(config.OverflowReject)

	geo, err := s.Plan(600, 400)
	require.NoError(t, err)
	assert.Equal(t, 520, geo.Side)

	_, err = s.Plan(80, 400)
	assert.ErrorIs(t, err, ErrCropTooWide)

	_, err = s.Plan(100, 400)
	assert.ErrorIs(t, err, ErrTallerThanWide)
}
