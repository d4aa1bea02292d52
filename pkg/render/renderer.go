package render

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/taigrr/softengine/internal/parallel"
	"github.com/taigrr/softengine/pkg/models"
)

// Mode selects how faces are drawn.
type Mode int

const (
	ModeSolid     Mode = iota // Filled, lit and textured triangles
	ModeWireframe             // Triangle edges only
	ModePoints                // One pixel per vertex
)

// String returns the flag spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeWireframe:
		return "wireframe"
	case ModePoints:
		return "points"
	default:
		return "solid"
	}
}

// ParseMode maps "solid", "wireframe" or "points" to a Mode.
func ParseMode(s string) (Mode, bool) {
	for _, m := range []Mode{ModeSolid, ModeWireframe, ModePoints} {
		if m.String() == s {
			return m, true
		}
	}
	return ModeSolid, false
}

// Stats describes one rendered frame.
type Stats struct {
	Meshes       int // Meshes submitted
	MeshesCulled int // Meshes skipped as off screen
	Faces        int // Faces handed to the rasterizer
	Scanlines    int // Rows processed in solid mode
	Pixels       int // Fragments that passed the depth test in wireframe and points modes
	TimeTotal    time.Duration
}

// Renderer draws meshes into a framebuffer, rasterizing the faces of each
// mesh concurrently on a worker pool. All faces share the framebuffer; the
// per-pixel locks make the depth test and write atomic, so the result does
// not depend on the order triangles finish in.
//
// A Renderer must not render two frames at once.
type Renderer struct {
	fb      *Framebuffer
	raster  *Rasterizer
	pool    *parallel.WorkerPool
	workers int
	light   Light
	base    Color
	mode    Mode
	cull    bool
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithWorkers sets the number of worker goroutines.
// If n <= 0, GOMAXPROCS is used.
func WithWorkers(n int) RendererOption {
	return func(r *Renderer) {
		r.workers = n
	}
}

// WithLight sets the scene light. Default is DefaultLight().
func WithLight(l Light) RendererOption {
	return func(r *Renderer) {
		r.light = l
	}
}

// WithBaseColor sets the color modulated with every texel.
// Default is opaque white.
func WithBaseColor(c Color) RendererOption {
	return func(r *Renderer) {
		r.base = c
	}
}

// WithMode sets the draw mode. Default is ModeSolid.
func WithMode(m Mode) RendererOption {
	return func(r *Renderer) {
		r.mode = m
	}
}

// WithCulling enables skipping meshes whose bounds fall entirely off
// screen. Bounds come from Mesh.BoundsMin and Mesh.BoundsMax, so they must
// be current. Off by default.
func WithCulling(enabled bool) RendererOption {
	return func(r *Renderer) {
		r.cull = enabled
	}
}

// NewRenderer creates a renderer drawing into fb.
func NewRenderer(fb *Framebuffer, opts ...RendererOption) *Renderer {
	r := &Renderer{
		fb:     fb,
		raster: NewRasterizer(fb),
		light:  DefaultLight(),
		base:   ColorWhite,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.pool = parallel.NewWorkerPool(r.workers)
	return r
}

// Framebuffer returns the render target.
func (r *Renderer) Framebuffer() *Framebuffer { return r.fb }

// Workers returns the number of worker goroutines.
func (r *Renderer) Workers() int { return r.pool.Workers() }

// Close stops the worker goroutines. Rendering after Close still works,
// on the calling goroutine.
func (r *Renderer) Close() {
	r.pool.Close()
}

// Render draws meshes as seen by cam. It does not clear the framebuffer.
// Each mesh's faces are rasterized in parallel and Render returns once
// every face has been drawn.
func (r *Renderer) Render(cam Camera, meshes ...*models.Mesh) Stats {
	stats, _ := r.RenderWithContext(context.Background(), cam, meshes...)
	return stats
}

// RenderWithContext is Render with cancellation between meshes. When ctx is
// canceled it returns ctx.Err() and the framebuffer holds a partial frame.
func (r *Renderer) RenderWithContext(ctx context.Context, cam Camera, meshes ...*models.Mesh) (Stats, error) {
	start := time.Now()
	width, height := r.fb.Width(), r.fb.Height()
	viewProj := ProjectionMatrix(r.fb.Aspect()).Mul(cam.ViewMatrix())

	var frustum Frustum
	if r.cull {
		frustum = NewScreenFrustum(viewProj)
	}

	var (
		stats     Stats
		scanlines atomic.Int64
		pixels    atomic.Int64
	)
	for _, mesh := range meshes {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if mesh == nil {
			continue
		}
		stats.Meshes++

		world := WorldMatrix(mesh.Position, mesh.Rotation)
		if r.cull && !frustum.IntersectAABB(MeshBounds(mesh).Transform(world)) {
			stats.MeshesCulled++
			continue
		}
		transform := viewProj.Mul(world)

		var tex Sampler
		if mesh.Texture != nil {
			tex = mesh.Texture
		}

		r.pool.ForEach(len(mesh.Faces), func(i int) {
			face := mesh.Faces[i]
			a := r.light.Shade(Project(mesh.Vertices[face.A], transform, world, width, height))
			b := r.light.Shade(Project(mesh.Vertices[face.B], transform, world, width, height))
			c := r.light.Shade(Project(mesh.Vertices[face.C], transform, world, width, height))

			switch r.mode {
			case ModeWireframe:
				n := r.raster.DrawLine(a, b, r.base) +
					r.raster.DrawLine(b, c, r.base) +
					r.raster.DrawLine(c, a, r.base)
				pixels.Add(int64(n))
			case ModePoints:
				for _, v := range [3]ScreenVertex{a, b, c} {
					if r.raster.DrawPoint(v, r.base) {
						pixels.Add(1)
					}
				}
			default:
				scanlines.Add(int64(r.raster.DrawTriangle(a, b, c, r.base, tex)))
			}
		})
		stats.Faces += len(mesh.Faces)
	}

	stats.Scanlines = int(scanlines.Load())
	stats.Pixels = int(pixels.Load())
	stats.TimeTotal = time.Since(start)

	Logger().Debug("frame rendered",
		"mode", r.mode,
		"meshes", stats.Meshes,
		"culled", stats.MeshesCulled,
		"faces", stats.Faces,
		"scanlines", stats.Scanlines,
		"elapsed", stats.TimeTotal,
	)
	return stats, nil
}
