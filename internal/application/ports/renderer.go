package ports

import (
	"context"

	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

// RenderRequest describes a component to render.
type RenderRequest struct {
	// URL is loaded when set.
	URL string

	// HTML is rendered as the page document when URL is empty.
	HTML string

	// Selector restricts the capture to one element. Empty captures the viewport.
	Selector string

	// Width and Height override the configured viewport when positive.
	Width  int
	Height int
}

// Renderer turns a component into a bitmap. Implementations return an error
// wrapping snapshot.ErrRenderFailure when nothing could be captured.
type Renderer interface {
	Render(ctx context.Context, req RenderRequest) (*snapshot.Bitmap, error)

	// Close releases any resources held by the renderer.
	Close() error
}
