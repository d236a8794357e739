package squarer

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	webpenc "github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/dixieflatline76/Squarify/config"
	"golang.org/x/image/webp"
)

// Codec reads and writes WEBP images.
type Codec struct {
	options *webpenc.Options
}

// NewCodec creates a Codec using the configured encoding settings.
// Lossless output keeps the color under fully transparent pixels as well.
func NewCodec(enc config.Encoding) *Codec {
	return &Codec{
		options: &webpenc.Options{
			Lossless: enc.Lossless,
			Quality:  enc.Quality,
			Exact:    enc.Lossless,
		},
	}
}

// Decode reads a WEBP image.
func (c *Codec) Decode(r io.Reader) (image.Image, error) {
	img, err := webp.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return img, nil
}

// Load opens and fully decodes the image at path.
func (c *Codec) Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := c.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Encode writes img to w as WEBP. Partly transparent pixels keep their
// color: the encoder is always handed straight (non-premultiplied) alpha.
func (c *Codec) Encode(w io.Writer, img image.Image) error {
	if err := webpenc.Encode(w, straightAlpha(img), c.options); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

// straightAlpha returns an *image.RGBA whose bytes hold non-premultiplied
// RGBA, which is what libwebp expects. The encoder would otherwise convert
// anything that is not *image.RGBA to premultiplied form.
func straightAlpha(img image.Image) *image.RGBA {
	n, ok := img.(*image.NRGBA)
	if !ok {
		n = imaging.Clone(img)
	}
	return &image.RGBA{Pix: n.Pix, Stride: n.Stride, Rect: n.Rect}
}

// EncodeBytes encodes img into memory.
func (c *Codec) EncodeBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
