package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-instanced/common"
	"github.com/Carmen-Shannon/oxy-instanced/engine/input"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func distance(c Camera) float32 {
	return c.Target().Sub(c.Eye()).Len()
}

func TestProcessEventLatchesMovementKeys(t *testing.T) {
	cc := NewCameraController()

	keys := []struct {
		key                          uint32
		forward, backward, left, rgt bool
	}{
		{common.KeyW, true, false, false, false},
		{common.KeyUp, true, false, false, false},
		{common.KeyS, false, true, false, false},
		{common.KeyDown, false, true, false, false},
		{common.KeyA, false, false, true, false},
		{common.KeyLeft, false, false, true, false},
		{common.KeyD, false, false, false, true},
		{common.KeyRight, false, false, false, true},
	}
	for _, k := range keys {
		assert.True(t, cc.ProcessEvent(input.KeyPressed(k.key)))
		f, b, l, r := cc.Pressed()
		assert.Equal(t, k.forward, f, "key %d", k.key)
		assert.Equal(t, k.backward, b, "key %d", k.key)
		assert.Equal(t, k.left, l, "key %d", k.key)
		assert.Equal(t, k.rgt, r, "key %d", k.key)

		assert.True(t, cc.ProcessEvent(input.KeyReleased(k.key)))
		f, b, l, r = cc.Pressed()
		assert.False(t, f || b || l || r)
	}
}

func TestProcessEventIgnoresUnrelatedEvents(t *testing.T) {
	cc := NewCameraController()
	assert.False(t, cc.ProcessEvent(input.KeyPressed(common.KeySpace)))
	assert.False(t, cc.ProcessEvent(input.KeyPressed(common.KeyQ)))
	assert.False(t, cc.ProcessEvent(input.CursorAt(10, 10)))
	assert.False(t, cc.ProcessEvent(input.ResizedTo(10, 10)))
	f, b, l, r := cc.Pressed()
	assert.False(t, f || b || l || r)
}

func TestForwardMovesBySpeed(t *testing.T) {
	c := NewCamera()
	cc := NewCameraController()
	cc.ProcessEvent(input.KeyPressed(common.KeyW))

	cc.UpdateCamera(c)

	assert.InDelta(t, math32.Sqrt(5)-0.2, distance(c), 1e-5)
}

func TestForwardClampsAtMinDistance(t *testing.T) {
	c := NewCamera(WithEye(mgl32.Vec3{0, 0, 1.1}))
	cc := NewCameraController()
	cc.ProcessEvent(input.KeyPressed(common.KeyW))

	for range 5 {
		cc.UpdateCamera(c)
		assert.InDelta(t, 1.0, distance(c), 1e-5)
	}
	assert.InDelta(t, 1.0, c.Eye().Z(), 1e-5)
}

func TestForwardNeverCrossesMinDistance(t *testing.T) {
	starts := []float32{1, 1.5, 2.37, 10}
	speeds := []float32{0.01, 0.2, 0.5}
	for _, start := range starts {
		for _, speed := range speeds {
			c := NewCamera(WithEye(mgl32.Vec3{0, 0, start}))
			cc := NewCameraController(WithSpeed(speed))
			cc.ProcessEvent(input.KeyPressed(common.KeyUp))
			for range 100 {
				cc.UpdateCamera(c)
				assert.GreaterOrEqual(t, distance(c), float32(1.0)-1e-5)
			}
		}
	}
}

func TestBackwardIsUnclamped(t *testing.T) {
	c := NewCamera()
	cc := NewCameraController()
	cc.ProcessEvent(input.KeyPressed(common.KeyS))

	for i := 1; i <= 10; i++ {
		cc.UpdateCamera(c)
		assert.InDelta(t, math32.Sqrt(5)+0.2*float32(i), distance(c), 1e-4)
	}
}

func TestOrbitPreservesDistance(t *testing.T) {
	for _, key := range []uint32{common.KeyA, common.KeyD, common.KeyLeft, common.KeyRight} {
		c := NewCamera()
		cc := NewCameraController()
		cc.ProcessEvent(input.KeyPressed(key))
		start := c.Eye()
		for range 50 {
			cc.UpdateCamera(c)
			assert.InDelta(t, math32.Sqrt(5), distance(c), 1e-4)
		}
		assert.False(t, start.ApproxEqualThreshold(c.Eye(), 1e-3), "key %d should move the eye", key)
	}
}

func TestOrbitDirections(t *testing.T) {
	// From +Z looking at the origin with +Y up, right is +X.
	c := NewCamera(WithEye(mgl32.Vec3{0, 0, 2}))
	cc := NewCameraController()
	cc.ProcessEvent(input.KeyPressed(common.KeyD))
	cc.UpdateCamera(c)
	assert.Less(t, c.Eye().X(), float32(0))

	c = NewCamera(WithEye(mgl32.Vec3{0, 0, 2}))
	cc = NewCameraController()
	cc.ProcessEvent(input.KeyPressed(common.KeyA))
	cc.UpdateCamera(c)
	assert.Greater(t, c.Eye().X(), float32(0))
}

func TestLeftWinsOverRight(t *testing.T) {
	both := NewCamera()
	ccBoth := NewCameraController()
	ccBoth.ProcessEvent(input.KeyPressed(common.KeyA))
	ccBoth.ProcessEvent(input.KeyPressed(common.KeyD))
	ccBoth.UpdateCamera(both)

	left := NewCamera()
	ccLeft := NewCameraController()
	ccLeft.ProcessEvent(input.KeyPressed(common.KeyA))
	ccLeft.UpdateCamera(left)

	assert.True(t, both.Eye().ApproxEqualThreshold(left.Eye(), 1e-6))
}

func TestUpdateCameraDegenerateIsNoop(t *testing.T) {
	c := NewCamera(WithEye(mgl32.Vec3{0, 0, 0}))
	cc := NewCameraController()
	cc.ProcessEvent(input.KeyPressed(common.KeyW))
	cc.ProcessEvent(input.KeyPressed(common.KeyD))

	cc.UpdateCamera(c)

	assert.Equal(t, mgl32.Vec3{0, 0, 0}, c.Eye())
}

func TestControllerOptions(t *testing.T) {
	cc := NewCameraController(WithSpeed(0.5), WithMinDistance(2))
	assert.Equal(t, float32(0.5), cc.Speed())
	assert.Equal(t, float32(2), cc.MinDistance())
}

func TestWithMinDistanceIgnoresNonPositive(t *testing.T) {
	assert.Equal(t, float32(1), NewCameraController(WithMinDistance(0)).MinDistance())
	assert.Equal(t, float32(1), NewCameraController(WithMinDistance(-3)).MinDistance())
}

func TestForwardNeverReachesTargetWithZeroMinDistance(t *testing.T) {
	c := NewCamera(WithEye(mgl32.Vec3{0, 0, 0.1}))
	cc := NewCameraController(WithMinDistance(0))
	cc.ProcessEvent(input.KeyPressed(common.KeyW))

	cc.UpdateCamera(c)

	assert.NotEqual(t, c.Target(), c.Eye())
	vp := c.BuildViewProjection()
	assert.True(t, common.AllFinite(vp[:]...))
}
