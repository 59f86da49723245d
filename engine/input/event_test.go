package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventConstructors(t *testing.T) {
	assert.Equal(t, Event{Kind: KeyDown, Key: 32}, KeyPressed(32))
	assert.Equal(t, Event{Kind: KeyUp, Key: 87}, KeyReleased(87))
	assert.Equal(t, Event{Kind: CursorMoved, X: 1.5, Y: 2}, CursorAt(1.5, 2))
	assert.Equal(t, Event{Kind: Resized, Width: 800, Height: 600}, ResizedTo(800, 600))
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "CursorMoved", CursorMoved.String())
	assert.Equal(t, "CloseRequested", CloseRequested.String())
	assert.Equal(t, "EventKind(42)", EventKind(42).String())
}
