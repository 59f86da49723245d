package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-instanced/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and translates platform input into input.Event values.
type Window interface {
	// SetUpdateCallback sets the function ProcessMessages calls once per iteration, after the
	// iteration's events were delivered. This is the redraw request.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetEventCallback sets the function receiving every translated window event.
	// Events are delivered on the thread that calls ProcessMessages.
	//
	// Parameters:
	//   - callback: function receiving the event (or nil to drop events)
	SetEventCallback(callback func(input.Event))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	IsRunning() bool

	// RequestClose marks the window for closing without destroying it.
	// The loop observes the request through IsRunning.
	RequestClose()

	// Close destroys the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was never created
	Close() error

	// ProcessMessages runs the window message loop: each iteration polls pending events without
	// blocking, then calls the update callback. Returns once the window stops running, including
	// when the update callback requests a close.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// width and height track the framebuffer size, not the window size.
	width  int
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate func()
	onEvent  func(input.Event)
}

var _ Window = &engineWindow{}

// NewWindow creates and spawns a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := w.validate(); err != nil {
		return nil, err
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

// newEngineWindow applies defaults and options without touching the platform layer.
func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "oxy-instanced",
		maxWidth:  0,
		maxHeight: 0,
		minWidth:  1,
		minHeight: 1,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) validate() error {
	if w.width <= 0 || w.height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", w.width, w.height)
	}
	if w.maxWidth > 0 && w.maxWidth < w.minWidth {
		return fmt.Errorf("window max width %d is below min width %d", w.maxWidth, w.minWidth)
	}
	if w.maxHeight > 0 && w.maxHeight < w.minHeight {
		return fmt.Errorf("window max height %d is below min height %d", w.maxHeight, w.minHeight)
	}
	return nil
}

// emit forwards an event to the registered callback and keeps the cached size current.
func (w *engineWindow) emit(ev input.Event) {
	if ev.Kind == input.Resized {
		w.width = ev.Width
		w.height = ev.Height
	}
	if w.onEvent != nil {
		w.onEvent(ev)
	}
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetEventCallback(callback func(input.Event)) {
	w.onEvent = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
