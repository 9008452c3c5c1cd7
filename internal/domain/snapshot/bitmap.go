package snapshot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// Bitmap is a decoded image together with its PNG encoding. The encoding is
// computed once so repeated comparisons within a run see identical bytes.
type Bitmap struct {
	img     image.Image
	encoded []byte
}

// NewBitmap encodes img and returns the bitmap.
func NewBitmap(img image.Image) (*Bitmap, error) {
	if img == nil {
		return nil, ErrRenderFailure
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return &Bitmap{img: img, encoded: buf.Bytes()}, nil
}

// DecodeBitmap decodes PNG data and re-encodes it, so files written by other
// encoders compare equal to freshly rendered bitmaps with the same pixels.
func DecodeBitmap(data []byte) (*Bitmap, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return NewBitmap(img)
}

// Image returns the decoded image.
func (b *Bitmap) Image() image.Image {
	return b.img
}

// Bytes returns the PNG encoding.
func (b *Bitmap) Bytes() []byte {
	return b.encoded
}

// Bounds returns the image bounds.
func (b *Bitmap) Bounds() image.Rectangle {
	return b.img.Bounds()
}

// Equal reports whether both bitmaps have the same PNG encoding.
func (b *Bitmap) Equal(other *Bitmap) bool {
	if b == nil || other == nil {
		return b == other
	}
	return bytes.Equal(b.encoded, other.encoded)
}
