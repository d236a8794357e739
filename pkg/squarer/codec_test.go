package squarer

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/dixieflatline76/Squarify/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_LosslessRoundTrip(t *testing.T) {
	codec := NewCodec(config.Default().Encoding)

	src := createPatternImage(64, 32)
	src.SetNRGBA(3, 3, color.NRGBA{})

	data, err := codec.EncodeBytes(src)
	require.NoError(t, err)

	decoded, err := codec.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), decoded.Bounds())

	got := color.NRGBAModel.Convert(decoded.At(3, 3)).(color.NRGBA)
	assert.Equal(t, uint8(0), got.A)
	got = color.NRGBAModel.Convert(decoded.At(10, 20)).(color.NRGBA)
	assert.Equal(t, patternColor(10, 20), got)
}

func TestCodec_Lossy(t *testing.T) {
	codec := NewCodec(config.Encoding{Lossless: false, Quality: 75})

	data, err := codec.EncodeBytes(createPatternImage(40, 40))
	require.NoError(t, err)

	decoded, err := codec.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 40), decoded.Bounds())
}

func TestCodec_DecodeGarbage(t *testing.T) {
	codec := NewCodec(config.Default().Encoding)

	_, err := codec.Decode(bytes.NewReader([]byte("definitely not a webp")))
	assert.ErrorIs(t, err, ErrDecode)

	path := filepath.Join(t.TempDir(), "broken.webp")
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0644))
	_, err = codec.Load(path)
	assert.ErrorIs(t, err, ErrDecode)
	assert.ErrorContains(t, err, "broken.webp")
}

func TestCodec_LoadMissing(t *testing.T) {
	codec := NewCodec(config.Default().Encoding)

	_, err := codec.Load(filepath.Join(t.TempDir(), "nope.webp"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCodec_PartialAlphaRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		encoding config.Encoding
	}{
		{"lossless", config.Default().Encoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec := NewCodec(tt.encoding)

			src := image.NewNRGBA(image.Rect(0, 0, 16, 16))
			want := []color.NRGBA{
				{R: 200, G: 100, B: 50, A: 1},
				{R: 200, G: 100, B: 50, A: 128},
				{R: 200, G: 100, B: 50, A: 254},
				{R: 7, G: 250, B: 130, A: 3},
			}
			for i, c := range want {
				src.SetNRGBA(i, 0, c)
			}

			data, err := codec.EncodeBytes(src)
			require.NoError(t, err)
			decoded, err := codec.Decode(bytes.NewReader(data))
			require.NoError(t, err)

			for i, c := range want {
				assert.Equal(t, c, color.NRGBAModel.Convert(decoded.At(i, 0)).(color.NRGBA), "pixel %d", i)
			}
		})
	}
}

func TestCodec_EncodeLeavesSourceIntact(t *testing.T) {
	codec := NewCodec(config.Default().Encoding)
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.SetNRGBA(1, 1, color.NRGBA{R: 200, G: 100, B: 50, A: 128})

	_, err := codec.EncodeBytes(src)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 128}, src.NRGBAAt(1, 1))
}
