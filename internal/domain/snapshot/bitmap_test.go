package snapshot

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestNewBitmap(t *testing.T) {
	b, err := NewBitmap(solidImage(4, 3, color.White))

	require.NoError(t, err)
	assert.NotEmpty(t, b.Bytes())
	assert.Equal(t, image.Rect(0, 0, 4, 3), b.Bounds())
	assert.NotNil(t, b.Image())
}

func TestNewBitmap_NilImage(t *testing.T) {
	_, err := NewBitmap(nil)

	assert.ErrorIs(t, err, ErrRenderFailure)
}

func TestBitmap_EncodingIsStable(t *testing.T) {
	img := solidImage(8, 8, color.NRGBA{R: 10, G: 200, B: 30, A: 255})

	a, err := NewBitmap(img)
	require.NoError(t, err)
	b, err := NewBitmap(img)
	require.NoError(t, err)

	assert.Equal(t, a.Bytes(), b.Bytes())
	assert.True(t, a.Equal(b))
}

func TestBitmap_Equal(t *testing.T) {
	white, err := NewBitmap(solidImage(2, 2, color.White))
	require.NoError(t, err)
	black, err := NewBitmap(solidImage(2, 2, color.Black))
	require.NoError(t, err)

	assert.False(t, white.Equal(black))
	assert.False(t, white.Equal(nil))

	var none *Bitmap
	assert.True(t, none.Equal(nil))
}

func TestDecodeBitmap_RoundTrip(t *testing.T) {
	original, err := NewBitmap(solidImage(5, 5, color.NRGBA{R: 255, A: 128}))
	require.NoError(t, err)

	decoded, err := DecodeBitmap(original.Bytes())

	require.NoError(t, err)
	assert.Equal(t, original.Bytes(), decoded.Bytes())
}

func TestDecodeBitmap_NormalizesForeignEncoding(t *testing.T) {
	img := solidImage(6, 6, color.NRGBA{B: 255, A: 255})
	original, err := NewBitmap(img)
	require.NoError(t, err)

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.NoCompression}
	require.NoError(t, enc.Encode(&buf, img))
	require.NotEqual(t, original.Bytes(), buf.Bytes())

	decoded, err := DecodeBitmap(buf.Bytes())

	require.NoError(t, err)
	assert.True(t, original.Equal(decoded))
}

func TestDecodeBitmap_Invalid(t *testing.T) {
	_, err := DecodeBitmap([]byte("not a png"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode snapshot")
}
