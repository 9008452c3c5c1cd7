package mocks

import (
	"context"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

// MockRenderer is a configurable ports.Renderer.
type MockRenderer struct {
	RenderFunc func(ctx context.Context, req ports.RenderRequest) (*snapshot.Bitmap, error)
	Requests   []ports.RenderRequest
	Closed     bool
}

// NewMockRenderer creates a renderer that always returns b.
func NewMockRenderer(b *snapshot.Bitmap) *MockRenderer {
	return &MockRenderer{
		RenderFunc: func(context.Context, ports.RenderRequest) (*snapshot.Bitmap, error) {
			return b, nil
		},
	}
}

// Render records the request and delegates to RenderFunc.
func (m *MockRenderer) Render(ctx context.Context, req ports.RenderRequest) (*snapshot.Bitmap, error) {
	m.Requests = append(m.Requests, req)
	if m.RenderFunc == nil {
		return nil, snapshot.ErrRenderFailure
	}
	return m.RenderFunc(ctx, req)
}

// Close marks the renderer as closed.
func (m *MockRenderer) Close() error {
	m.Closed = true
	return nil
}

// WithError configures the renderer to fail.
func (m *MockRenderer) WithError(err error) *MockRenderer {
	m.RenderFunc = func(context.Context, ports.RenderRequest) (*snapshot.Bitmap, error) {
		return nil, err
	}
	return m
}

// MockLocker is an in-process ports.Locker.
type MockLocker struct {
	held    map[string]bool
	LockErr error
}

// NewMockLocker creates a locker with nothing held.
func NewMockLocker() *MockLocker {
	return &MockLocker{held: make(map[string]bool)}
}

// TryLock acquires name unless it is already held.
func (m *MockLocker) TryLock(name string) (bool, error) {
	if m.LockErr != nil {
		return false, m.LockErr
	}
	if m.held[name] {
		return false, nil
	}
	m.held[name] = true
	return true, nil
}

// Unlock releases name.
func (m *MockLocker) Unlock(name string) {
	delete(m.held, name)
}

// Held reports whether name is currently held.
func (m *MockLocker) Held(name string) bool {
	return m.held[name]
}
