// bonnie - PS1-style software rendering in your terminal.
// Flies a camera through a textured room drawn entirely in software:
// affine texture warp, vertex snapping, 15-bit dithering and all.
//
// Controls:
//
//	Mouse drag  - Look around
//	Scroll      - Glide forward/back
//	W/S         - Move forward/back
//	A/D         - Strafe left/right
//	Space/Z     - Rise/sink
//	F           - Toggle affine textures (perspective-correct when off)
//	V           - Toggle vertex snap
//	B           - Toggle z-buffer (painter's sort when off)
//	G           - Cycle shading (none/flat/gouraud)
//	X           - Toggle back-face culling
//	T           - Toggle dithering
//	O           - Toggle overlays (axes, bounds, light arrow)
//	P           - Save a screenshot
//	R           - Reset the camera
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/EBonura/bonnie-engine/internal/config"
	"github.com/EBonura/bonnie-engine/internal/logger"
	"github.com/EBonura/bonnie-engine/pkg/math3d"
	"github.com/EBonura/bonnie-engine/pkg/models"
	"github.com/EBonura/bonnie-engine/pkg/render"
)

var (
	configPath = flag.String("config", "", "Path to config file")
	modelPath  = flag.String("model", "", "GLB model to show instead of the test cube")
	targetFPS  = flag.Int("fps", 0, "Target FPS (overrides config)")
	bgColor    = flag.String("bg", "", "Background color R,G,B (overrides config)")
	logLevel   = flag.String("log-level", "", "Log level (overrides config)")
	saveConfig = flag.Bool("save-config", false, "Write the active config to the config dir and exit")
)

// Movement speeds in world units per second. A sector is 1024 units, so
// full tilt crosses the demo room in a couple of seconds.
const (
	moveSpeed = models.SectorSize * 1.5
	riseSpeed = models.SectorSize * 0.75
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "bonnie - PS1-style terminal renderer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: bonnie [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Look around\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Glide forward/back\n")
		fmt.Fprintf(os.Stderr, "  W/A/S/D     - Move and strafe\n")
		fmt.Fprintf(os.Stderr, "  Space/Z     - Rise/sink\n")
		fmt.Fprintf(os.Stderr, "  F/V/B/G/X/T - Pipeline toggles (see HUD)\n")
		fmt.Fprintf(os.Stderr, "  O           - Toggle overlays\n")
		fmt.Fprintf(os.Stderr, "  P           - Screenshot\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset camera\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags override the file.
	if *targetFPS > 0 {
		cfg.Video.FPS = *targetFPS
	}
	if *bgColor != "" {
		cfg.Video.Background = *bgColor
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	if *saveConfig {
		path := filepath.Join(config.ConfigDir(), "config.yaml")
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
		return
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("viewer exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

// MoveAxis smooths one axis of camera motion: input sets a target in
// [-1, 1] and a harmonica spring eases the actual value toward it, so
// movement ramps instead of stepping.
type MoveAxis struct {
	value  float64
	vel    float64 // internal spring velocity
	target float64
	spring harmonica.Spring
}

// NewMoveAxis creates an axis with a spring tuned for movement.
func NewMoveAxis(fps int) MoveAxis {
	return MoveAxis{
		// Frequency 6.0 = quick ramp, damping 1.0 = critically damped (no overshoot)
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Set sets the target the axis value eases toward.
func (a *MoveAxis) Set(target float64) {
	a.target = target
}

// Impulse kicks the axis value directly; the spring then brings it
// back toward the target.
func (a *MoveAxis) Impulse(delta float64) {
	a.value += delta
	if a.value > 2 {
		a.value = 2
	}
	if a.value < -2 {
		a.value = -2
	}
}

// Update advances the spring and returns the smoothed value.
func (a *MoveAxis) Update() float64 {
	a.value, a.vel = a.spring.Update(a.value, a.vel, a.target)
	return a.value
}

// FlyState bundles the three movement axes of the fly camera.
type FlyState struct {
	Forward MoveAxis
	Strafe  MoveAxis
	Rise    MoveAxis
	fps     int
}

func NewFlyState(fps int) *FlyState {
	return &FlyState{
		Forward: NewMoveAxis(fps),
		Strafe:  NewMoveAxis(fps),
		Rise:    NewMoveAxis(fps),
		fps:     fps,
	}
}

// Update advances all three springs and returns the smoothed values.
func (f *FlyState) Update() (forward, strafe, rise float64) {
	return f.Forward.Update(), f.Strafe.Update(), f.Rise.Update()
}

// Reset stops all motion.
func (f *FlyState) Reset() {
	f.Forward = NewMoveAxis(f.fps)
	f.Strafe = NewMoveAxis(f.fps)
	f.Rise = NewMoveAxis(f.fps)
}

// ViewState holds the runtime toggles of the viewer (UI state, not
// library code).
type ViewState struct {
	Settings    render.RasterSettings
	ShowHUD     bool
	ShowOverlay bool
	Screenshot  bool // one-shot, consumed by the render loop
}

// HUD renders a terminal overlay with scene info and pipeline state.
type HUD struct {
	title     string
	fps       float64
	fpsFrames int
	fpsTime   time.Time

	message      string
	messageUntil time.Time
}

// NewHUD creates a new HUD.
func NewHUD(title string) *HUD {
	return &HUD{
		title:   title,
		fpsTime: time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame).
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Flash shows a short-lived message in the bottom-right corner.
func (h *HUD) Flash(msg string) {
	h.message = msg
	h.messageUntil = time.Now().Add(2 * time.Second)
}

// Render draws the HUD overlay directly to the terminal.
func (h *HUD) Render(width, height int, view *ViewState, stats render.RenderStats) {
	// ANSI escape codes for positioning and styling
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows (so toggling off works)
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	// Flash messages outlive the HUD toggle; screenshot feedback should
	// show even with the overlay hidden.
	flash := h.message != "" && time.Now().Before(h.messageUntil)
	if flash {
		msg := fmt.Sprintf("%s%s%s %s %s", bgBlack, bold, fgYellow, h.message, reset)
		col := max(width-len(h.message)-3, 1)
		fmt.Print(moveTo(height, col) + msg)
	}

	if !view.ShowHUD {
		return
	}

	// Top left: FPS
	fpsStr := fmt.Sprintf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)
	fmt.Print(fpsStr)

	// Top middle: scene title
	titleStr := fmt.Sprintf("%s%s%s %s %s", bold, bgBlack, fgWhite, h.title, reset)
	titleCol := max((width-len(h.title)-2)/2, 1)
	fmt.Print(moveTo(1, titleCol) + titleStr)

	// Top right: triangles drawn out of triangles submitted
	polyStr := fmt.Sprintf("%s%s%s %d/%d tris %s", bgBlack, fgCyan, bold, stats.Rasterized, stats.FacesIn, reset)
	polyCol := max(width-16, 1)
	fmt.Print(moveTo(1, polyCol) + polyStr)

	// Bottom: pipeline toggles
	chk := func(on bool) string {
		if on {
			return "[✓]"
		}
		return "[ ]"
	}
	s := view.Settings
	modeStr := fmt.Sprintf("%s%s %s affine %s snap %s zbuf %s cull %s dither  %s %s",
		bgBlack, fgWhite,
		chk(s.AffineTextures), chk(s.VertexSnap), chk(s.UseZBuffer),
		chk(s.BackfaceCull), chk(s.Dithering), s.Shading, reset)
	fmt.Print(moveTo(height, 1) + modeStr)

	if !flash {
		hint := fmt.Sprintf("%s%s%s p: screenshot %s", bgBlack, dim, fgYellow, reset)
		hintCol := max(width-16, 1)
		fmt.Print(moveTo(height, hintCol) + hint)
	}
}

// settingsFromConfig converts the yaml raster section into pipeline
// settings.
func settingsFromConfig(rc config.RasterConfig) render.RasterSettings {
	s := render.DefaultRasterSettings()
	s.AffineTextures = rc.AffineTextures
	s.VertexSnap = rc.VertexSnap
	s.UseZBuffer = rc.ZBuffer
	s.Shading = parseShading(rc.Shading)
	s.BackfaceCull = rc.BackfaceCull
	s.Dithering = rc.Dithering
	s.Ambient = rc.Ambient

	light := math3d.V3(rc.LightDir[0], rc.LightDir[1], rc.LightDir[2])
	if light.Len() > 0 {
		s.LightDir = light.Normalize()
	}
	return s
}

func parseShading(name string) render.ShadingMode {
	switch name {
	case "none":
		return render.ShadingNone
	case "flat":
		return render.ShadingFlat
	default:
		return render.ShadingGouraud
	}
}

// parseBackground parses an "R,G,B" triple. Malformed components keep
// the slate default.
func parseBackground(s string) render.Color {
	var r, g, b uint8 = 30, 30, 40
	fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b)
	return render.RGB(r, g, b)
}

// buildTextures fills the table with the demo set and returns the
// handles. Everything is generated; no assets on disk.
func buildTextures(table *render.TextureTable) (floor, ceiling, wall, cube render.TextureID) {
	floor = table.AddNamed("floor",
		render.NewCheckerTexture(64, 64, 8, render.RGB(158, 158, 166), render.RGB(96, 96, 108)))
	ceiling = table.AddNamed("ceiling",
		render.NewSolidTexture(16, 16, render.RGB(70, 70, 82)))
	wall = table.AddNamed("wall",
		render.NewGradientTexture(64, 64, render.RGB(128, 104, 80), render.RGB(70, 56, 44)))
	cube = table.AddNamed("cube",
		render.NewCheckerTexture(32, 32, 4, render.RGB(204, 88, 60), render.RGB(238, 200, 130)))
	return floor, ceiling, wall, cube
}

// loadExhibit returns the mesh displayed in the middle of the room: a
// glTF model when one was given on the command line, the test cube
// otherwise. fit maps the mesh into exhibit size around its center.
func loadExhibit(table *render.TextureTable, cubeTex render.TextureID) (*models.Mesh, math3d.Mat4, string, error) {
	if *modelPath == "" {
		// The test cube spans -1..1 on every axis
		return models.NewTestCube(cubeTex), math3d.ScaleUniform(220), "test room", nil
	}

	mesh, err := models.LoadGLBWithTextures(*modelPath, table)
	if err != nil {
		return nil, math3d.Identity(), "", fmt.Errorf("load model: %w", err)
	}

	fit := math3d.Identity()
	size := mesh.Size()
	if maxDim := math.Max(size.X, math.Max(size.Y, size.Z)); maxDim > 0 {
		fit = math3d.ScaleUniform(600 / maxDim).Mul(math3d.Translate(mesh.Center().Negate()))
	}
	return mesh, fit, filepath.Base(*modelPath), nil
}

// drawOverlay draws the debug geometry: world axes, the exhibit mesh
// edges and bounds, and an arrow showing where the light comes from.
// The light direction lives in camera space, so it is rotated back out
// through the camera basis before drawing.
func drawOverlay(wire *render.Wireframe, camera *render.Camera, settings render.RasterSettings, inst *models.Mesh) {
	wire.DrawAxes(300)
	wire.DrawMesh(inst.Vertices, inst.Faces, render.ColorWireframe)
	wire.DrawAABB(inst.Bounds, render.ColorCyan)

	ld := settings.LightDir
	worldLight := camera.Right.Scale(ld.X).
		Add(camera.Up.Scale(ld.Y)).
		Add(camera.Forward.Scale(ld.Z))
	tip := inst.Bounds.Center()
	tail := tip.Sub(worldLight.Scale(700))
	wire.DrawLine3D(tail, tip, render.ColorYellow)
	wire.DrawPoint(tail, 100, render.ColorYellow)
}

func run(cfg *config.Config) error {
	fps := cfg.Video.FPS
	if fps <= 0 {
		fps = 60
	}
	bg := parseBackground(cfg.Video.Background)

	// Build the scene before touching the terminal so load errors print
	// to a normal screen.
	table := render.NewTextureTable()
	floorTex, ceilTex, wallTex, cubeTex := buildTextures(table)

	room := models.NewRoom(4, 4, 6, floorTex, ceilTex, wallTex)

	exhibit, fit, title, err := loadExhibit(table, cubeTex)
	if err != nil {
		return err
	}
	exhibitPos := math3d.V3(0, 360, 0)

	logger.Info("scene ready",
		zap.String("exhibit", title),
		zap.Int("triangles", room.TriangleCount()+exhibit.TriangleCount()),
		zap.Int("textures", table.Len()))

	// Terminal setup
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if cfg.Video.Width > 0 {
		width = cfg.Video.Width
	}
	if cfg.Video.Height > 0 {
		height = cfg.Video.Height
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)

	camera := render.NewCamera()
	if cfg.Video.FOV > 0 {
		camera.FOV = cfg.Video.FOV * math.Pi / 180
	}

	rasterizer := render.NewRasterizer(camera, fb)
	wire := render.NewWireframe(camera, fb)

	logger.Sugar.Debugf("terminal %dx%d cells, framebuffer %dx%d", width, height, fbWidth, fbHeight)

	fly := NewFlyState(fps)
	view := &ViewState{
		Settings:    settingsFromConfig(cfg.Raster),
		ShowHUD:     true,
		ShowOverlay: false,
	}
	hud := NewHUD(title)

	spawn := math3d.V3(-1200, 560, -1500)
	resetCamera := func() {
		camera.Position = spawn
		camera.LookAt(exhibitPos)
		fly.Reset()
	}
	resetCamera()

	// Context for clean shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Held-key input. Release events are not delivered by every
	// terminal, so the targets decay each frame and key autorepeat
	// keeps them alive while held.
	inputMove := struct{ forward, strafe, rise float64 }{}

	// Mouse state
	var mouseDown bool
	var lastMouseX, lastMouseY int

	// Event handler
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				termRenderer = render.NewTerminalRenderer(term, width, height)
				fbWidth, fbHeight = termRenderer.FramebufferSize()
				fb = render.NewFramebuffer(fbWidth, fbHeight)
				rasterizer = render.NewRasterizer(camera, fb)
				wire = render.NewWireframe(camera, fb)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("w", "up"):
					inputMove.forward = 1
				case ev.MatchString("s", "down"):
					inputMove.forward = -1
				case ev.MatchString("a", "left"):
					inputMove.strafe = -1
				case ev.MatchString("d", "right"):
					inputMove.strafe = 1
				case ev.MatchString("space"):
					inputMove.rise = 1
				case ev.MatchString("z"):
					inputMove.rise = -1
				case ev.MatchString("f"):
					view.Settings.AffineTextures = !view.Settings.AffineTextures
				case ev.MatchString("v"):
					view.Settings.VertexSnap = !view.Settings.VertexSnap
				case ev.MatchString("b"):
					view.Settings.UseZBuffer = !view.Settings.UseZBuffer
				case ev.MatchString("g"):
					view.Settings.Shading = render.ShadingMode((view.Settings.Shading + 1) % 3)
				case ev.MatchString("x"):
					view.Settings.BackfaceCull = !view.Settings.BackfaceCull
				case ev.MatchString("t"):
					view.Settings.Dithering = !view.Settings.Dithering
				case ev.MatchString("o"):
					view.ShowOverlay = !view.ShowOverlay
				case ev.MatchString("p"):
					view.Screenshot = true
				case ev.MatchString("r"):
					resetCamera()
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					view.ShowHUD = !view.ShowHUD
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
					inputMove.forward = 0
				case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
					inputMove.strafe = 0
				case ev.MatchString("space"), ev.MatchString("z"):
					inputMove.rise = 0
				}

			case uv.MouseClickEvent:
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					// Cells are twice as tall as wide, so pitch gets
					// double the sensitivity.
					camera.Rotate(float64(dy)*0.06, float64(dx)*0.03)
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					fly.Forward.Impulse(0.75)
				case uv.MouseWheelDown:
					fly.Forward.Impulse(-0.75)
				}
			}
		}
	}()

	// Main loop
	targetDuration := time.Second / time.Duration(fps)
	lastFrame := time.Now()

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	angle := 0.0

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastFrame).Seconds()
		lastFrame = now

		if dt > 0.1 {
			dt = 0.1
		}

		// Feed the decaying input targets into the springs
		fly.Forward.Set(inputMove.forward)
		fly.Strafe.Set(inputMove.strafe)
		fly.Rise.Set(inputMove.rise)
		inputMove.forward *= 0.9
		inputMove.strafe *= 0.9
		inputMove.rise *= 0.9

		forward, strafe, rise := fly.Update()
		camera.MoveForward(forward * moveSpeed * dt)
		camera.MoveRight(strafe * moveSpeed * dt)
		camera.MoveUp(rise * riseSpeed * dt)

		// The exhibit slowly turns in place
		angle += dt * 0.4
		inst := exhibit.Clone()
		inst.Transform(math3d.Translate(exhibitPos).Mul(math3d.RotateY(angle)).Mul(fit))

		// Render
		fb.Clear(bg)
		fb.ClearDepth()

		var stats render.RenderStats
		stats.Add(rasterizer.RenderMeshBounded(room.Vertices, room.Faces, room.Bounds, table, view.Settings))
		stats.Add(rasterizer.RenderMeshBounded(inst.Vertices, inst.Faces, inst.Bounds, table, view.Settings))

		if view.ShowOverlay {
			drawOverlay(wire, camera, view.Settings, inst)
		}

		// Crosshair, blended so it reads over any backdrop
		cx, cy := fb.Width/2, fb.Height/2
		fb.DrawLineBlended(cx-3, cy, cx+3, cy, render.ColorWhite, render.BlendAverage)
		fb.DrawLineBlended(cx, cy-3, cx, cy+3, render.ColorWhite, render.BlendAverage)

		if view.Screenshot {
			view.Screenshot = false
			name := fmt.Sprintf("bonnie-%s.png", now.Format("20060102-150405"))
			if err := fb.SavePNG(name); err != nil {
				logger.Error("screenshot failed", zap.Error(err))
				hud.Flash("screenshot failed")
			} else {
				logger.Info("screenshot saved", zap.String("path", name))
				hud.Flash("saved " + name)
			}
		}

		// Display
		termRenderer.Render(fb)
		if err := termRenderer.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		// HUD overlay (always update FPS, render clears lines when HUD off)
		hud.UpdateFPS()
		hud.Render(width, height, view, stats)

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
