package camera

import (
	"strconv"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-instanced/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// cameraCount is used to generate unique bind group provider labels.
var cameraCount atomic.Uint64

// OpenGLToWGPU remaps clip-space depth from the OpenGL range [-w, w] to the WebGPU range [0, w]
// (z' = 0.5z + 0.5w). X, Y and W pass through unchanged. Column-major.
var OpenGLToWGPU = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

type cameraImpl struct {
	eye    mgl32.Vec3
	target mgl32.Vec3
	up     mgl32.Vec3

	aspect float32
	fovy   float32
	near   float32
	far    float32

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera is a perspective camera looking from an eye point at a target point.
// It is owned by the frame loop and is not safe for concurrent use.
//
// Invariant: Eye and Target are never equal while the camera is in use.
type Camera interface {
	// Eye returns the world-space camera position.
	Eye() mgl32.Vec3

	// Target returns the world-space look-at point.
	Target() mgl32.Vec3

	// Up returns the up vector used to orient the view.
	Up() mgl32.Vec3

	// Aspect returns the viewport aspect ratio (width / height).
	Aspect() float32

	// Fovy returns the vertical field of view in radians.
	Fovy() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// SetEye moves the camera.
	//
	// Parameters:
	//   - eye: the new world-space position
	SetEye(eye mgl32.Vec3)

	// SetTarget changes the look-at point.
	//
	// Parameters:
	//   - target: the new world-space look-at point
	SetTarget(target mgl32.Vec3)

	// SetUp changes the up vector.
	//
	// Parameters:
	//   - up: the new up vector
	SetUp(up mgl32.Vec3)

	// SetAspect sets the aspect ratio. Called on every non-zero surface resize.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// SetFovy sets the vertical field of view.
	//
	// Parameters:
	//   - fovy: vertical field of view in radians
	SetFovy(fovy float32)

	// BuildViewProjection computes OpenGLToWGPU * Perspective * LookAt for the current state.
	// The result maps world space to WebGPU clip space.
	//
	// Returns:
	//   - mgl32.Mat4: the clip-corrected view-projection matrix, column-major
	BuildViewProjection() mgl32.Mat4

	// Uniform packs BuildViewProjection into the GPU uniform layout.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform ready for Marshal
	Uniform() GPUCameraUniform

	// BindGroupProvider returns the provider holding the camera's uniform buffer and bind group.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	BindGroupProvider() bind_group_provider.BindGroupProvider
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera at eye (0, 1, 2) looking at the origin with +Y up,
// a 45 degree vertical field of view, aspect 1 and clip planes 0.1 / 100.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		eye:    mgl32.Vec3{0, 1, 2},
		target: mgl32.Vec3{0, 0, 0},
		up:     mgl32.Vec3{0, 1, 0},
		aspect: 1.0,
		fovy:   mgl32.DegToRad(45),
		near:   0.1,
		far:    100.0,
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"camera_" + strconv.FormatUint(cameraCount.Add(1)-1, 10),
		),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Eye() mgl32.Vec3 {
	return c.eye
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	return c.target
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	return c.up
}

func (c *cameraImpl) Aspect() float32 {
	return c.aspect
}

func (c *cameraImpl) Fovy() float32 {
	return c.fovy
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) SetEye(eye mgl32.Vec3) {
	c.eye = eye
}

func (c *cameraImpl) SetTarget(target mgl32.Vec3) {
	c.target = target
}

func (c *cameraImpl) SetUp(up mgl32.Vec3) {
	c.up = up
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.aspect = aspect
}

func (c *cameraImpl) SetFovy(fovy float32) {
	c.fovy = fovy
}

func (c *cameraImpl) BuildViewProjection() mgl32.Mat4 {
	view := mgl32.LookAtV(c.eye, c.target, c.up)
	proj := mgl32.Perspective(c.fovy, c.aspect, c.near, c.far)
	return OpenGLToWGPU.Mul4(proj).Mul4(view)
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	return GPUCameraUniform{ViewProj: c.BuildViewProjection()}
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return c.bindGroupProvider
}
