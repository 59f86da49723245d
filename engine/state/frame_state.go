// Package state owns the per-frame simulation and draw state of the instanced grid demo.
package state

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-instanced/common"
	"github.com/Carmen-Shannon/oxy-instanced/engine/camera"
	"github.com/Carmen-Shannon/oxy-instanced/engine/geometry"
	"github.com/Carmen-Shannon/oxy-instanced/engine/input"
	"github.com/Carmen-Shannon/oxy-instanced/engine/instance"
	"github.com/Carmen-Shannon/oxy-instanced/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-instanced/engine/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// GPU is the part of the renderer the frame loop drives.
type GPU interface {
	Resize(width, height int) error
	WriteBuffers(writes []bind_group_provider.BufferWrite) error
	BeginFrame(clear wgpu.Color) error
	DrawCall(pipelineKey string, meshProvider, instanceProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error
	EndFrame() error
	Present()
}

// Phase is the position of the frame state in its update/render cycle.
type Phase int

const (
	// PhaseIdle is the state before the first Update and after a failed Render.
	PhaseIdle Phase = iota
	// PhaseUpdated means CPU state is recomputed and waiting to be drawn.
	PhaseUpdated
	// PhaseSubmitted means the last frame was submitted and presented.
	PhaseSubmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseUpdated:
		return "updated"
	case PhaseSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// DefaultClearColor is the background before the cursor first moves.
var DefaultClearColor = wgpu.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0}

// FrameState ties the camera, the instance grid and the selected geometry and texture to one
// indexed, instanced draw per frame. It is not safe for concurrent use; the frame loop owns it.
type FrameState struct {
	gpu GPU

	camera     camera.Camera
	controller camera.CameraController
	instances  instance.InstanceSet
	geometries geometry.GeometryLibrary
	textures   texture.TextureSet

	pipelineKey   string
	textureGroup  int
	cameraGroup   int
	cameraBinding int

	width      int
	height     int
	clearColor wgpu.Color

	shape       geometry.Shape
	textureKind texture.Kind
	phase       Phase

	cameraUniform camera.GPUCameraUniform
	cameraDirty   bool
	instanceDirty bool
}

// NewFrameState creates the frame state. Components not supplied through options are created
// with their defaults; the default texture set decodes the embedded images.
//
// Parameters:
//   - gpu: the renderer the frame loop draws with
//   - options: functional options to configure the frame state
//
// Returns:
//   - *FrameState: the new frame state, in PhaseIdle with both buffers dirty
//   - error: error if the default textures fail to decode or the layout is inconsistent
func NewFrameState(gpu GPU, options ...FrameStateOption) (*FrameState, error) {
	if gpu == nil {
		return nil, errors.New("frame state requires a gpu")
	}
	fs := &FrameState{
		gpu:          gpu,
		pipelineKey:  "instanced",
		textureGroup: 0,
		cameraGroup:  1,
		clearColor:   DefaultClearColor,
		shape:        geometry.Square,
		textureKind:  texture.Diffuse,
		phase:        PhaseIdle,
	}
	for _, option := range options {
		option(fs)
	}

	if fs.textureGroup == fs.cameraGroup || fs.textureGroup < 0 || fs.cameraGroup < 0 || max(fs.textureGroup, fs.cameraGroup) > 1 {
		return nil, fmt.Errorf("texture group %d and camera group %d must be 0 and 1 in some order", fs.textureGroup, fs.cameraGroup)
	}
	if fs.camera == nil {
		fs.camera = camera.NewCamera()
	}
	if fs.controller == nil {
		fs.controller = camera.NewCameraController()
	}
	if fs.instances == nil {
		fs.instances = instance.NewInstanceSet()
	}
	if fs.geometries == nil {
		fs.geometries = geometry.NewGeometryLibrary()
	}
	if fs.textures == nil {
		textures, err := texture.NewTextureSet()
		if err != nil {
			return nil, fmt.Errorf("failed to create texture set: %w", err)
		}
		fs.textures = textures
	}
	if fs.width > 0 && fs.height > 0 {
		fs.camera.SetAspect(float32(fs.width) / float32(fs.height))
	}

	fs.cameraUniform = fs.camera.Uniform()
	fs.cameraDirty = true
	fs.instanceDirty = true
	return fs, nil
}

// Resize records a new surface size, reconfigures the GPU surface and updates the camera
// aspect ratio. A zero dimension (a minimized window) is ignored.
//
// Parameters:
//   - width: new surface width in pixels
//   - height: new surface height in pixels
//
// Returns:
//   - error: error from reconfiguring the surface
func (fs *FrameState) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	fs.width = width
	fs.height = height
	fs.camera.SetAspect(float32(width) / float32(height))
	if err := fs.gpu.Resize(width, height); err != nil {
		return fmt.Errorf("failed to resize surface to %dx%d: %w", width, height, err)
	}
	common.Logger().Debug("surface resized", "width", width, "height", height)
	return nil
}

// Input offers ev to the camera controller, then handles cursor moves and the Space toggle.
//
// Parameters:
//   - ev: the window event
//
// Returns:
//   - bool: true if the event was consumed
func (fs *FrameState) Input(ev input.Event) bool {
	if fs.controller.ProcessEvent(ev) {
		return true
	}

	switch {
	case ev.Kind == input.CursorMoved:
		fs.setClearFromCursor(ev.X, ev.Y)
		return true
	case ev.Kind == input.KeyDown && ev.Key == common.KeySpace:
		fs.shape = fs.shape.Next()
		fs.textureKind = fs.textureKind.Next()
		common.Logger().Info("toggled draw selection", "shape", fs.shape.String(), "texture", fs.textureKind.String())
		return true
	}
	return false
}

func (fs *FrameState) setClearFromCursor(x, y float64) {
	if fs.width <= 0 || fs.height <= 0 {
		return
	}
	r := common.Clamp01(float32(x / float64(fs.width)))
	g := common.Clamp01(float32(y / float64(fs.height)))
	fs.clearColor = wgpu.Color{R: float64(r), G: float64(g), B: float64((r + g) / 2), A: 1}
}

// Update advances the simulation by one frame: spins every instance, moves the camera by the
// held keys and recomputes the camera uniform. Both GPU buffers become dirty.
func (fs *FrameState) Update() {
	fs.instances.Spin()
	fs.controller.UpdateCamera(fs.camera)
	fs.cameraUniform = fs.camera.Uniform()
	fs.cameraDirty = true
	fs.instanceDirty = true
	fs.phase = PhaseUpdated
}

// Render uploads dirty buffers and draws the grid with the selected geometry and texture.
// On failure the phase returns to PhaseIdle and the error is returned wrapped; surface
// errors keep their renderer sentinel (ErrSurfaceLost, ErrSurfaceOutdated, ErrSurfaceTimeout,
// ErrOutOfMemory) in the chain.
//
// Returns:
//   - error: nil once the frame is presented
func (fs *FrameState) Render() error {
	if err := fs.render(); err != nil {
		fs.phase = PhaseIdle
		return err
	}
	fs.phase = PhaseSubmitted
	return nil
}

func (fs *FrameState) render() error {
	geom := fs.geometries.Geometry(fs.shape)
	if geom == nil {
		return fmt.Errorf("no geometry for shape %s", fs.shape)
	}
	tex := fs.textures.Texture(fs.textureKind)
	if tex == nil {
		return fmt.Errorf("no texture of kind %s", fs.textureKind)
	}

	if writes := fs.pendingWrites(); len(writes) > 0 {
		if err := fs.gpu.WriteBuffers(writes); err != nil {
			return fmt.Errorf("failed to upload frame buffers: %w", err)
		}
		fs.cameraDirty = false
		fs.instanceDirty = false
	}

	if err := fs.gpu.BeginFrame(fs.clearColor); err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}

	bindGroups := make([]bind_group_provider.BindGroupProvider, 2)
	bindGroups[fs.textureGroup] = tex.BindGroupProvider()
	bindGroups[fs.cameraGroup] = fs.camera.BindGroupProvider()

	drawErr := fs.gpu.DrawCall(
		fs.pipelineKey,
		geom.BindGroupProvider(),
		fs.instances.BindGroupProvider(),
		uint32(fs.instances.Len()),
		bindGroups,
	)
	if drawErr != nil {
		drawErr = fmt.Errorf("failed to draw %s with %s: %w", fs.shape, fs.textureKind, drawErr)
	}

	// The pass is closed and the image presented even after a failed draw, so the
	// surface image is not held into the next frame.
	if err := fs.gpu.EndFrame(); err != nil {
		return errors.Join(drawErr, fmt.Errorf("failed to submit frame: %w", err))
	}
	fs.gpu.Present()
	return drawErr
}

func (fs *FrameState) pendingWrites() []bind_group_provider.BufferWrite {
	var writes []bind_group_provider.BufferWrite
	if fs.cameraDirty {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: fs.camera.BindGroupProvider(),
			Target:   bind_group_provider.TargetBinding,
			Binding:  fs.cameraBinding,
			Data:     fs.cameraUniform.Marshal(),
		})
	}
	if fs.instanceDirty {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: fs.instances.BindGroupProvider(),
			Target:   bind_group_provider.TargetVertex,
			Data:     fs.instances.Marshal(),
		})
	}
	return writes
}

// Release frees GPU resources of every provider the frame state owns, textures first and the
// camera last.
func (fs *FrameState) Release() {
	fs.textures.Release()
	fs.geometries.Release()
	fs.instances.BindGroupProvider().Release()
	fs.camera.BindGroupProvider().Release()
	fs.phase = PhaseIdle
}

// Size returns the last non-zero surface size.
func (fs *FrameState) Size() (width, height int) {
	return fs.width, fs.height
}

func (fs *FrameState) ClearColor() wgpu.Color {
	return fs.clearColor
}

func (fs *FrameState) Shape() geometry.Shape {
	return fs.shape
}

func (fs *FrameState) TextureKind() texture.Kind {
	return fs.textureKind
}

func (fs *FrameState) Camera() camera.Camera {
	return fs.camera
}

func (fs *FrameState) Controller() camera.CameraController {
	return fs.controller
}

func (fs *FrameState) Instances() instance.InstanceSet {
	return fs.instances
}

func (fs *FrameState) Geometries() geometry.GeometryLibrary {
	return fs.geometries
}

func (fs *FrameState) Textures() texture.TextureSet {
	return fs.textures
}

func (fs *FrameState) PipelineKey() string {
	return fs.pipelineKey
}

func (fs *FrameState) Phase() Phase {
	return fs.phase
}
