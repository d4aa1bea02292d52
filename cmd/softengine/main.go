// softengine - CPU 3D software rasterizer
// Renders Babylon and glTF scenes, or a spinning demo cube, without a GPU.
// Frames go to the terminal, a desktop window, PNG files or a raw RGB565
// panel stream.
//
// Controls (terminal and window):
//
//	Q/Esc  - Quit
//	Ctrl+C - Quit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/image/colornames"

	"github.com/taigrr/softengine/pkg/display"
	"github.com/taigrr/softengine/pkg/display/window"
	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/models"
	"github.com/taigrr/softengine/pkg/render"
	"github.com/taigrr/softengine/pkg/texture"
)

var (
	sizeFlag    = flag.String("size", "640x480", "Framebuffer size WxH (png, rgb565 and window; the terminal uses its own size)")
	displayFlag = flag.String("display", "terminal", "Output: terminal, window, png or rgb565")
	outPath     = flag.String("out", "frame.png", "Output file for png (may hold a verb such as %03d) and rgb565")
	frameCount  = flag.Int("frames", 0, "Frames to render; 0 means 1 for png and rgb565 and forever otherwise")
	scaleFlag   = flag.Int("scale", 1, "Upscale factor for png and window output")
	targetFPS   = flag.Int("fps", 60, "Target FPS")
	bgColor     = flag.String("bg", "0,0,0", "Background color (R,G,B or a color name)")
	lightFlag   = flag.String("light", "0,10,10", "Light position x,y,z")
	modeFlag    = flag.String("mode", "solid", "Draw mode: solid, wireframe or points")
	workers     = flag.Int("workers", 0, "Rasterizer goroutines (0 = GOMAXPROCS)")
	cull        = flag.Bool("cull", false, "Skip meshes entirely off screen")
	spin        = flag.Float64("spin", 0.01, "Rotation per frame in radians")
	texturePath = flag.String("texture", "", "Texture image (PNG/JPG/BMP/TIFF/WebP) for meshes without one")
	hud         = flag.Bool("hud", false, "Draw frame statistics on rgb565 output")
	verbose     = flag.Bool("v", false, "Log to stderr")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "softengine - CPU 3D software rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: softengine [options] [scene.babylon|scene.gltf|scene.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Without a scene a demo cube is rendered.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Q/Esc       - Quit\n")
	}
	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(1)
	}

	if *verbose {
		render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// config is the parsed command line.
type config struct {
	width, height int
	bg            render.Color
	light         render.Light
	mode          render.Mode
}

func parseConfig() (config, error) {
	var cfg config
	var err error

	if cfg.width, cfg.height, err = parseSize(*sizeFlag); err != nil {
		return cfg, err
	}
	if cfg.bg, err = parseColor(*bgColor); err != nil {
		return cfg, err
	}
	if cfg.light, err = parseLight(*lightFlag); err != nil {
		return cfg, err
	}
	if err = checkFPS(*targetFPS); err != nil {
		return cfg, err
	}
	mode, ok := render.ParseMode(*modeFlag)
	if !ok {
		return cfg, fmt.Errorf("unknown mode %q", *modeFlag)
	}
	cfg.mode = mode
	return cfg, nil
}

func parseSize(s string) (int, int, error) {
	var w, h int
	if _, err := fmt.Sscanf(s, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q, want WxH", s)
	}
	return w, h, nil
}

func checkFPS(fps int) error {
	if fps <= 0 {
		return fmt.Errorf("invalid fps %d, want a positive rate", fps)
	}
	return nil
}

func parseColor(s string) (render.Color, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err == nil {
		return render.RGB(r, g, b), nil
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q, want R,G,B or a color name", s)
}

func parseLight(s string) (render.Light, error) {
	var x, y, z float64
	if _, err := fmt.Sscanf(s, "%g,%g,%g", &x, &y, &z); err != nil {
		return render.Light{}, fmt.Errorf("invalid light position %q, want x,y,z", s)
	}
	return render.Light{Position: math3d.V3(x, y, z)}, nil
}

// loadScene picks the loader by file extension. An empty path yields the
// demo cube.
func loadScene(path string) ([]*models.Mesh, error) {
	if path == "" {
		return []*models.Mesh{models.NewCube()}, nil
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".babylon":
		return models.LoadBabylon(path)
	case ".gltf", ".glb":
		return models.LoadGLTF(path)
	default:
		return nil, fmt.Errorf("unsupported scene format %q", ext)
	}
}

// scene is everything one frame needs.
type scene struct {
	cfg      config
	camera   render.Camera
	meshes   []*models.Mesh
	spinner  *Spinner
	fb       *render.Framebuffer
	renderer *render.Renderer

	// onStats, when set, sees every frame's statistics before it is
	// presented.
	onStats func(render.Stats)
}

// resize replaces the framebuffer and renderer; the old renderer's workers
// are stopped.
func (s *scene) resize(width, height int) {
	if s.renderer != nil {
		s.renderer.Close()
	}
	s.fb = render.NewFramebuffer(width, height)
	s.renderer = render.NewRenderer(s.fb,
		render.WithWorkers(*workers),
		render.WithLight(s.cfg.light),
		render.WithMode(s.cfg.mode),
		render.WithCulling(*cull),
	)
}

// frame renders, presents and then advances the animation.
func (s *scene) frame(surface render.Surface) error {
	s.fb.Clear(s.cfg.bg)
	stats := s.renderer.Render(s.camera, s.meshes...)
	if s.onStats != nil {
		s.onStats(stats)
	}
	if err := s.fb.Present(surface); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	s.spinner.Step(s.meshes)
	return nil
}

func (s *scene) close() {
	if s.renderer != nil {
		s.renderer.Close()
	}
}

func run(scenePath string) error {
	cfg, err := parseConfig()
	if err != nil {
		return err
	}

	meshes, err := loadScene(scenePath)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	if len(meshes) == 0 {
		return errors.New("scene has no meshes")
	}

	if *texturePath != "" {
		tex, err := texture.Load(*texturePath)
		if err != nil {
			return fmt.Errorf("load texture: %w", err)
		}
		for _, m := range meshes {
			if m.Texture == nil {
				m.Texture = tex
			}
		}
	}

	faces := 0
	for _, m := range meshes {
		faces += m.TriangleCount()
	}
	render.Logger().Info("scene loaded", "path", scenePath, "meshes", len(meshes), "faces", faces)

	s := &scene{
		cfg:     cfg,
		camera:  render.NewCamera(math3d.V3(0, 0, 10), math3d.Vec3{}),
		meshes:  meshes,
		spinner: NewSpinner(*targetFPS, *spin),
	}
	defer s.close()

	switch *displayFlag {
	case "terminal":
		return runTerminal(s)
	case "window":
		return runWindow(s)
	case "png":
		s.resize(cfg.width, cfg.height)
		surface := display.NewPNG(cfg.width, cfg.height, display.Files(*outPath), display.WithScale(*scaleFlag))
		return runFrames(s, surface)
	case "rgb565":
		f, err := os.Create(*outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		s.resize(cfg.width, cfg.height)
		dev := display.NewDevice(display.NewRGB565(cfg.width, cfg.height, f))
		if *hud {
			s.onStats = func(st render.Stats) {
				dev.SetCaption(fmt.Sprintf("%d faces %d rows %s", st.Faces, st.Scanlines, st.TimeTotal.Round(time.Microsecond)))
			}
		}
		return runFrames(s, dev)
	default:
		return fmt.Errorf("unknown display %q", *displayFlag)
	}
}

// runFrames renders a fixed number of frames as fast as possible.
func runFrames(s *scene, surface render.Surface) error {
	n := max(*frameCount, 1)
	start := time.Now()
	for range n {
		if err := s.frame(surface); err != nil {
			return err
		}
	}
	render.Logger().Info("frames written", "frames", n, "elapsed", time.Since(start))
	return nil
}

func runWindow(s *scene) error {
	s.resize(s.cfg.width, s.cfg.height)
	win := window.New("softengine", s.cfg.width, s.cfg.height, *scaleFlag)
	win.TPS = *targetFPS

	frames := 0
	win.Step = func() error {
		if *frameCount > 0 && frames >= *frameCount {
			return window.ErrClosed
		}
		frames++
		return s.frame(win)
	}
	return win.Run()
}

func runTerminal(s *scene) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	surface := display.NewTerminal(term)
	s.resize(surface.FramebufferSize())

	resized := make(chan [2]int, 1)
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				select {
				case resized <- [2]int{ev.Width, ev.Height}:
				default:
				}
			case uv.KeyPressEvent:
				if ev.MatchString("q") || ev.MatchString("escape") || ev.MatchString("ctrl+c") {
					cancel()
					return
				}
			}
		}
	}()

	targetDuration := time.Second / time.Duration(max(*targetFPS, 1))
	frames := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case size := <-resized:
			term.Erase()
			term.Resize(size[0], size[1])
			surface = display.NewTerminal(term)
			s.resize(surface.FramebufferSize())
		default:
		}

		if *frameCount > 0 && frames >= *frameCount {
			return nil
		}

		now := time.Now()
		if err := s.frame(surface); err != nil {
			return err
		}
		frames++

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
