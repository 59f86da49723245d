// Package input defines the platform-neutral window events consumed by the frame loop.
package input

import "fmt"

// EventKind identifies the type of a window event.
type EventKind int

const (
	// KeyDown is emitted when a key is pressed or auto-repeats.
	KeyDown EventKind = iota
	// KeyUp is emitted when a key is released.
	KeyUp
	// CursorMoved is emitted when the cursor moves inside the window. X and Y are in window pixels.
	CursorMoved
	// Resized is emitted when the framebuffer size changes. Width and Height may be zero while minimized.
	Resized
	// CloseRequested is emitted when the user asks the window to close.
	CloseRequested
)

func (k EventKind) String() string {
	switch k {
	case KeyDown:
		return "KeyDown"
	case KeyUp:
		return "KeyUp"
	case CursorMoved:
		return "CursorMoved"
	case Resized:
		return "Resized"
	case CloseRequested:
		return "CloseRequested"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a single window event. Only the fields relevant to Kind are set.
type Event struct {
	Kind EventKind
	// Key is the virtual key code (see common key codes) for KeyDown and KeyUp.
	Key uint32
	// X and Y are the cursor position for CursorMoved.
	X, Y float64
	// Width and Height are the new framebuffer size for Resized.
	Width, Height int
}

// KeyPressed builds a KeyDown event.
func KeyPressed(key uint32) Event { return Event{Kind: KeyDown, Key: key} }

// KeyReleased builds a KeyUp event.
func KeyReleased(key uint32) Event { return Event{Kind: KeyUp, Key: key} }

// CursorAt builds a CursorMoved event.
func CursorAt(x, y float64) Event { return Event{Kind: CursorMoved, X: x, Y: y} }

// ResizedTo builds a Resized event.
func ResizedTo(width, height int) Event { return Event{Kind: Resized, Width: width, Height: height} }
