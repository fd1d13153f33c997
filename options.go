package retained

import (
	"image/color"

	"github.com/gogpu/retained/internal/bufpool"
	"github.com/gogpu/retained/surface"
)

// SceneOption configures a Scene during creation.
//
// Example:
//
//	// Default: best available surface backend, instance styles
//	s, err := retained.NewScene(800, 600)
//
//	// Render into an existing surface with a debug overlay
//	s, err := retained.NewScene(800, 600,
//	    retained.WithSurface(win),
//	    retained.WithDebugOverlay(color.RGBA{255, 0, 255, 255}),
//	)
type SceneOption func(*sceneOptions)

// sceneOptions holds optional configuration for Scene creation.
type sceneOptions struct {
	surface     surface.Surface
	backend     string
	resolver    StyleResolver
	layout      Layout
	interaction Interaction
	background  color.Color
	overlay     color.Color
	margin      float64
	checks      bool
	pool        *BufferPool
}

// defaultSceneOptions returns the default scene options.
func defaultSceneOptions() sceneOptions {
	return sceneOptions{
		resolver:   InstanceStyles{Defaults: DefaultStyle()},
		layout:     AbsoluteLayout{},
		background: color.Transparent,
		margin:     1,
	}
}

// WithSurface renders the scene into s instead of a surface from the
// backend registry. The scene size follows s.
func WithSurface(s surface.Surface) SceneOption {
	return func(o *sceneOptions) {
		o.surface = s
	}
}

// WithBackend selects a registered surface backend by name.
// Ignored when WithSurface is given.
func WithBackend(name string) SceneOption {
	return func(o *sceneOptions) {
		o.backend = name
	}
}

// WithStyleResolver sets the collaborator that computes effective styles.
// Default: InstanceStyles with DefaultStyle.
func WithStyleResolver(r StyleResolver) SceneOption {
	return func(o *sceneOptions) {
		if r != nil {
			o.resolver = r
		}
	}
}

// WithDefaultLayout sets the layout used by nodes without their own.
// Default: AbsoluteLayout.
func WithDefaultLayout(l Layout) SceneOption {
	return func(o *sceneOptions) {
		if l != nil {
			o.layout = l
		}
	}
}

// WithInteraction sets the hook that re-evaluates pointer state once
// geometry has settled.
func WithInteraction(i Interaction) SceneOption {
	return func(o *sceneOptions) {
		o.interaction = i
	}
}

// WithBackground sets the color the output surface is cleared to.
// Default: transparent.
func WithBackground(c color.Color) SceneOption {
	return func(o *sceneOptions) {
		o.background = c
	}
}

// WithDebugOverlay outlines each frame's redrawn rectangle in c. The outline
// is erased on the next frame without counting as redrawn area.
func WithDebugOverlay(c color.Color) SceneOption {
	return func(o *sceneOptions) {
		o.overlay = c
	}
}

// WithRedrawMargin sets how many pixels the compositor grows every redraw
// rectangle by to absorb rounding differences. Default: 1.
func WithRedrawMargin(px float64) SceneOption {
	return func(o *sceneOptions) {
		o.margin = max(px, 0)
	}
}

// WithInvariantChecks makes the scene verify the dirty-flag/queue invariant
// after every mutation and frame, panicking with an *InvariantError on the
// first violation. Intended for tests and debug builds.
func WithInvariantChecks(enabled bool) SceneOption {
	return func(o *sceneOptions) {
		o.checks = enabled
	}
}

// BufferPool recycles the pixel buffers behind node content and composite
// layers. It is safe for concurrent use, so scenes on different goroutines
// may share one.
type BufferPool = bufpool.Pool

// NewBufferPool returns a pool keeping at most perSize idle buffers of
// each pixel size.
func NewBufferPool(perSize int) *BufferPool {
	return bufpool.New(perSize)
}

// WithBufferPool shares a layer buffer pool between scenes.
func WithBufferPool(p *BufferPool) SceneOption {
	return func(o *sceneOptions) {
		o.pool = p
	}
}
