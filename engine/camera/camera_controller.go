package camera

import (
	"github.com/Carmen-Shannon/oxy-instanced/common"
	"github.com/Carmen-Shannon/oxy-instanced/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraController turns held movement keys into camera motion. Forward and backward dolly the
// eye along the view direction; left and right orbit the eye around the target at constant
// distance. Key state is latched by ProcessEvent and applied once per frame by UpdateCamera.
type CameraController interface {
	// ProcessEvent consumes key events for W/Up, S/Down, A/Left and D/Right.
	//
	// Parameters:
	//   - ev: the window event
	//
	// Returns:
	//   - bool: true if the event changed a movement flag
	ProcessEvent(ev input.Event) bool

	// UpdateCamera applies the currently held movement keys to the camera.
	// Forward motion stops MinDistance short of the target. Backward motion is unbounded.
	// When both left and right are held, left wins.
	//
	// Parameters:
	//   - cam: the camera to move
	UpdateCamera(cam Camera)

	// Speed returns the movement step applied per UpdateCamera call.
	Speed() float32

	// MinDistance returns the closest the eye may approach the target when moving forward.
	MinDistance() float32

	// Pressed reports the latched movement flags.
	//
	// Returns:
	//   - forward, backward, left, right: true while the matching key is held
	Pressed() (forward, backward, left, right bool)
}

type cameraControllerImpl struct {
	speed       float32
	minDistance float32

	forward  bool
	backward bool
	left     bool
	right    bool
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller with speed 0.2 and minimum distance 1.0.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		speed:       0.2,
		minDistance: 1.0,
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) Speed() float32 {
	return cc.speed
}

func (cc *cameraControllerImpl) MinDistance() float32 {
	return cc.minDistance
}

func (cc *cameraControllerImpl) Pressed() (forward, backward, left, right bool) {
	return cc.forward, cc.backward, cc.left, cc.right
}

func (cc *cameraControllerImpl) ProcessEvent(ev input.Event) bool {
	var pressed bool
	switch ev.Kind {
	case input.KeyDown:
		pressed = true
	case input.KeyUp:
		pressed = false
	default:
		return false
	}

	switch ev.Key {
	case common.KeyW, common.KeyUp:
		cc.forward = pressed
	case common.KeyS, common.KeyDown:
		cc.backward = pressed
	case common.KeyA, common.KeyLeft:
		cc.left = pressed
	case common.KeyD, common.KeyRight:
		cc.right = pressed
	default:
		return false
	}
	return true
}

func (cc *cameraControllerImpl) UpdateCamera(cam Camera) {
	target := cam.Target()
	forward := target.Sub(cam.Eye())
	mag := forward.Len()
	if mag == 0 {
		return
	}
	forwardNorm := forward.Mul(1 / mag)

	if cc.forward {
		if mag-cc.speed > cc.minDistance {
			cam.SetEye(cam.Eye().Add(forwardNorm.Mul(cc.speed)))
		} else {
			cam.SetEye(target.Sub(forwardNorm.Mul(cc.minDistance)))
		}
	}
	if cc.backward {
		cam.SetEye(cam.Eye().Sub(forwardNorm.Mul(cc.speed)))
	}

	right := forwardNorm.Cross(cam.Up())

	// Both orbit branches read the same forward vector.
	forward = target.Sub(cam.Eye())
	mag = forward.Len()

	if cc.right {
		cam.SetEye(target.Sub(orbitStep(forward, right.Mul(cc.speed)).Mul(mag)))
	}
	if cc.left {
		cam.SetEye(target.Sub(orbitStep(forward, right.Mul(-cc.speed)).Mul(mag)))
	}
}

// orbitStep returns the unit direction of forward nudged sideways by offset.
// A degenerate sum leaves the direction unchanged.
func orbitStep(forward, offset mgl32.Vec3) mgl32.Vec3 {
	dir := forward.Add(offset)
	if l := dir.Len(); l > 0 {
		return dir.Mul(1 / l)
	}
	return forward.Normalize()
}
