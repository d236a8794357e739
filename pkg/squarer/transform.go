package squarer

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/dixieflatline76/Squarify/config"
	"github.com/muesli/smartcrop"
)

// Squarer crops fixed side margins off an image and pads it to a square.
type Squarer struct {
	margin    int
	overflow  config.OverflowPolicy
	resampler imaging.ResampleFilter
}

// NewSquarer creates a Squarer from the batch configuration.
func NewSquarer(cfg *config.Config) *Squarer {
	return &Squarer{
		margin:    cfg.Margin,
		overflow:  cfg.Overflow,
		resampler: imaging.Lanczos,
	}
}

// Plan returns the geometry for a w x h image, or an error if the image
// cannot be squared under the configured policy.
func (s *Squarer) Plan(w, h int) (Geometry, error) {
	geo := PlanGeometry(w, h, s.margin)
	if geo.Side <= 0 {
		return geo, fmt.Errorf("%w: %dx%d with %dpx margins", ErrCropTooWide, w, h, s.margin)
	}
	if geo.Overflows() && s.overflow == config.OverflowReject {
		return geo, fmt.Errorf("%w: %dx%d crop into a %dpx square", ErrTallerThanWide, geo.Side, h, geo.Side)
	}
	return geo, nil
}

// Transform crops the margins and places the result on a transparent square
// canvas. Pixels are copied as-is, alpha included.
func (s *Squarer) Transform(ctx context.Context, img image.Image) (*image.NRGBA, Geometry, error) {
	if err := checkContext(ctx); err != nil {
		return nil, Geometry{}, err
	}

	bounds := img.Bounds()
	geo, err := s.Plan(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, geo, err
	}

	cropped := imaging.Crop(img, geo.Crop.Add(bounds.Min))
	canvas := imaging.New(geo.Side, geo.Side, color.NRGBA{})

	if geo.Overflows() && s.overflow == config.OverflowSmart {
		window, err := s.smartWindow(ctx, cropped, geo.Side)
		if err != nil {
			return nil, geo, fmt.Errorf("choosing square window: %w", err)
		}
		return imaging.Paste(canvas, window, image.Point{}), geo, nil
	}

	// A negative PadTop shifts the crop up so the centered band stays visible.
	return imaging.Paste(canvas, cropped, image.Pt(0, geo.PadTop)), geo, nil
}

// smartWindow picks the side x side region of a tall crop with the most
// interesting content.
func (s *Squarer) smartWindow(ctx context.Context, img *image.NRGBA, side int) (image.Image, error) {
	r := &resizer{resampler: s.resampler}
	analyzer := smartcrop.NewAnalyzer(r)

	type cropResult struct {
		crop image.Rectangle
		err  error
	}
	resultChan := make(chan cropResult, 1)

	go func() {
		best, err := analyzer.FindBestCrop(img, side, side)
		resultChan <- cropResult{crop: best, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-resultChan:
		if result.err != nil {
			return nil, fmt.Errorf("finding best crop: %w", result.err)
		}
		window := imaging.Crop(img, result.crop)
		if window.Bounds().Dx() != side || window.Bounds().Dy() != side {
			return r.Resize(window, uint(side), uint(side)), nil
		}
		return window, nil
	}
}

// resizer implements the smartcrop.Resizer interface on top of imaging.
type resizer struct {
	resampler imaging.ResampleFilter
}

func (r *resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.resampler)
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
