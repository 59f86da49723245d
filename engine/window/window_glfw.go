package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-instanced/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent  *engineWindow
	window  *glfw.Window
	running bool
}

// newPlatformWindow creates the GLFW window with input callbacks and stores it as the internal window.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(sizeLimit(w.minWidth), sizeLimit(w.minHeight), sizeLimit(w.maxWidth), sizeLimit(w.maxHeight))

	gw := &glfwWindow{
		parent:  w,
		window:  win,
		running: true,
	}
	w.internalWindow = gw

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if isCloseKey(key, action) {
			gw.running = false
			win.SetShouldClose(true)
			w.emit(input.Event{Kind: input.CloseRequested})
			return
		}
		if ev, ok := translateKey(key, action); ok {
			w.emit(ev)
		}
	})

	// GLFW reports the cursor in screen coordinates; events carry framebuffer pixels so they
	// share units with Resized.
	win.SetCursorPosCallback(func(gwin *glfw.Window, xpos, ypos float64) {
		winWidth, winHeight := gwin.GetSize()
		fbWidth, fbHeight := gwin.GetFramebufferSize()
		sx, sy := framebufferScale(fbWidth, fbHeight, winWidth, winHeight)
		w.emit(input.CursorAt(xpos*sx, ypos*sy))
	})

	// Framebuffer size is used instead of window size; they differ on high-DPI displays
	// and the surface must be configured in pixels.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.emit(input.ResizedTo(width, height))
	})

	win.SetCloseCallback(func(_ *glfw.Window) {
		gw.running = false
		w.emit(input.Event{Kind: input.CloseRequested})
	})

	fbWidth, fbHeight := win.GetFramebufferSize()
	w.width = fbWidth
	w.height = fbHeight

	return nil
}

// translateKey maps a GLFW key action to a key event. Repeats count as presses.
//
// Parameters:
//   - key: the GLFW key
//   - action: the GLFW action
//
// Returns:
//   - input.Event: the translated event
//   - bool: false for keys GLFW could not identify or unknown actions
func translateKey(key glfw.Key, action glfw.Action) (input.Event, bool) {
	if key == glfw.KeyUnknown {
		return input.Event{}, false
	}
	switch action {
	case glfw.Press, glfw.Repeat:
		return input.KeyPressed(uint32(key)), true
	case glfw.Release:
		return input.KeyReleased(uint32(key)), true
	}
	return input.Event{}, false
}

func isCloseKey(key glfw.Key, action glfw.Action) bool {
	return key == glfw.KeyEscape && action == glfw.Press
}

// framebufferScale returns the framebuffer-to-window size ratio on each axis.
// An axis with an unknown (non-positive) size scales by 1.
//
// Parameters:
//   - fbWidth, fbHeight: framebuffer size in pixels
//   - winWidth, winHeight: window size in screen coordinates
//
// Returns:
//   - float64: horizontal scale
//   - float64: vertical scale
func framebufferScale(fbWidth, fbHeight, winWidth, winHeight int) (float64, float64) {
	sx, sy := 1.0, 1.0
	if fbWidth > 0 && winWidth > 0 {
		sx = float64(fbWidth) / float64(winWidth)
	}
	if fbHeight > 0 && winHeight > 0 {
		sy = float64(fbHeight) / float64(winHeight)
	}
	return sx, sy
}

// sizeLimit converts an unset (non-positive) limit to glfw.DontCare.
func sizeLimit(v int) int {
	if v <= 0 {
		return glfw.DontCare
	}
	return v
}

// platformGetSurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	if w.internalWindow == nil {
		return nil
	}
	gw := w.internalWindow.(*glfwWindow)
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

// platformIsRunningCheck returns false if the internal window is nil, the running flag is
// cleared, or GLFW reports ShouldClose.
func platformIsRunningCheck(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	gw := w.internalWindow.(*glfwWindow)
	return gw.running && !gw.window.ShouldClose()
}

func platformRequestClose(w *engineWindow) {
	if w.internalWindow == nil {
		return
	}
	gw := w.internalWindow.(*glfwWindow)
	gw.running = false
	gw.window.SetShouldClose(true)
}

// platformCloseWindow destroys the GLFW window and terminates the GLFW library.
//
// Parameters:
//   - w: the engineWindow to close
//
// Returns:
//   - error: error if the window is not initialized
func platformCloseWindow(w *engineWindow) error {
	if w.internalWindow == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw := w.internalWindow.(*glfwWindow)
	gw.running = false
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	glfw.Terminate()
	w.internalWindow = nil
	return nil
}

// platformProcessMessages polls GLFW for pending events without blocking and reports whether
// the window is still running.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func platformProcessMessages(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
