package engine

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-instanced/common"
	"github.com/Carmen-Shannon/oxy-instanced/config"
	"github.com/Carmen-Shannon/oxy-instanced/engine/input"
	"github.com/Carmen-Shannon/oxy-instanced/engine/profiler"
	"github.com/Carmen-Shannon/oxy-instanced/engine/renderer"
	"github.com/Carmen-Shannon/oxy-instanced/engine/state"
	"github.com/Carmen-Shannon/oxy-instanced/engine/window"
)

// ErrFatalGPU wraps the error that ended Run when the GPU cannot continue.
var ErrFatalGPU = errors.New("fatal gpu error")

// eventSource is the part of the window the frame loop drives.
type eventSource interface {
	SetEventCallback(callback func(input.Event))
	SetUpdateCallback(callback func())
	ProcessMessages()
	IsRunning() bool
	RequestClose()
	Close() error
}

// engine implements the Engine interface.
type engine struct {
	window   eventSource
	renderer renderer.Renderer
	state    *state.FrameState

	profiler         *profiler.Profiler
	profilingEnabled bool

	frames int
	closed bool
}

// Engine runs the instanced grid demo: one window, one renderer and one frame state,
// driven by the window's single-threaded message loop with update and render as its redraw step.
type Engine interface {
	// Run polls window events, updates and renders until the window closes.
	// It must be called from the goroutine that created the engine.
	//
	// Returns:
	//   - error: nil on a normal close, or an error wrapping ErrFatalGPU
	Run() error

	// Close releases the frame state resources, then the renderer, then the window.
	// Safe to call more than once.
	//
	// Returns:
	//   - error: error from closing the window
	Close() error

	// State returns the frame state driven by the loop.
	State() *state.FrameState

	// Frames returns the number of frames presented by Run.
	Frames() int
}

var _ Engine = &engine{}

// New builds the window, the renderer and every GPU resource of the demo from cfg.
// Adapter or device acquisition failures inside the renderer panic, as the caller cannot
// recover from them.
//
// Parameters:
//   - cfg: a validated configuration
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the ready engine
//   - error: error if any startup step fails; partial resources are released
func New(cfg config.Config, options ...EngineBuilderOption) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &engine{profilingEnabled: cfg.Log.Profile}
	for _, opt := range options {
		opt(e)
	}

	win, err := window.NewWindow(windowOptions(cfg)...)
	if err != nil {
		return nil, err
	}
	e.window = win

	r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win, rendererOptions(cfg)...)
	if err != nil {
		_ = win.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	e.renderer = r

	fs, err := buildScene(cfg, r, win.Width(), win.Height())
	if err != nil {
		r.Release()
		_ = win.Close()
		return nil, err
	}
	e.state = fs

	if e.profilingEnabled {
		e.profiler = profiler.NewProfiler()
	}
	e.window.SetEventCallback(e.handleEvent)

	common.Logger().Info("engine ready",
		"width", win.Width(),
		"height", win.Height(),
		"instances", fs.Instances().Len(),
		"shape", fs.Shape().String(),
		"texture", fs.TextureKind().String(),
	)
	return e, nil
}

func (e *engine) State() *state.FrameState {
	return e.state
}

func (e *engine) Frames() int {
	return e.frames
}

func (e *engine) Run() error {
	var fatal error
	e.window.SetUpdateCallback(func() {
		if fatal = e.frame(); fatal != nil {
			e.window.RequestClose()
		}
	})
	defer e.window.SetUpdateCallback(nil)

	e.window.ProcessMessages()
	if fatal != nil {
		return fatal
	}
	common.Logger().Info("window closed", "frames", e.frames)
	return nil
}

// frame runs one update and render after the window delivered its events.
func (e *engine) frame() error {
	e.state.Update()
	if err := e.handleRenderError(e.state.Render()); err != nil {
		return err
	}
	if e.profiler != nil {
		e.profiler.Tick()
	}
	return nil
}

// handleEvent routes a window event: resizes reconfigure the surface, close requests stop the
// loop and everything else is offered to the frame state.
func (e *engine) handleEvent(ev input.Event) {
	switch ev.Kind {
	case input.Resized:
		if err := e.state.Resize(ev.Width, ev.Height); err != nil {
			common.Logger().Warn("resize failed", "width", ev.Width, "height", ev.Height, "error", err)
		}
	case input.CloseRequested:
		e.window.RequestClose()
	default:
		e.state.Input(ev)
	}
}

// handleRenderError decides whether the loop survives a Render result. A lost surface is
// reconfigured at the current size and running out of memory is fatal. Anything else skips
// the frame, logged at debug for the recoverable surface errors and at warn otherwise.
func (e *engine) handleRenderError(err error) error {
	switch {
	case err == nil:
		e.frames++
		return nil
	case errors.Is(err, renderer.ErrOutOfMemory):
		common.Logger().Error("render failed", "error", err)
		return fmt.Errorf("%w: %w", ErrFatalGPU, err)
	case errors.Is(err, renderer.ErrSurfaceLost):
		w, h := e.state.Size()
		common.Logger().Warn("surface lost, reconfiguring", "width", w, "height", h)
		if rerr := e.state.Resize(w, h); rerr != nil {
			common.Logger().Warn("surface reconfigure failed", "error", rerr)
		}
	case renderer.IsRecoverable(err):
		common.Logger().Debug("frame skipped", "error", err)
	default:
		common.Logger().Warn("frame failed", "error", err)
	}
	return nil
}

func (e *engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	if e.state != nil {
		e.state.Release()
	}
	if e.renderer != nil {
		e.renderer.Release()
	}
	if e.window != nil {
		if err := e.window.Close(); err != nil {
			return fmt.Errorf("failed to close window: %w", err)
		}
	}
	return nil
}
