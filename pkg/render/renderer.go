package render

import (
	"context"
)

// Renderer converts a form view into a byte representation (HTML, plain
// text, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View, options RenderOptions) ([]byte, error)
}
