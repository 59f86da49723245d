package state

import (
	"github.com/Carmen-Shannon/oxy-instanced/engine/camera"
	"github.com/Carmen-Shannon/oxy-instanced/engine/geometry"
	"github.com/Carmen-Shannon/oxy-instanced/engine/instance"
	"github.com/Carmen-Shannon/oxy-instanced/engine/texture"
)

// FrameStateOption is a functional option for configuring a FrameState.
type FrameStateOption func(*FrameState)

// WithCamera sets the camera the frame state drives.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - FrameStateOption: option function to apply
func WithCamera(cam camera.Camera) FrameStateOption {
	return func(fs *FrameState) {
		fs.camera = cam
	}
}

// WithCameraController sets the controller that receives input before the frame state.
//
// Parameters:
//   - controller: the camera controller
//
// Returns:
//   - FrameStateOption: option function to apply
func WithCameraController(controller camera.CameraController) FrameStateOption {
	return func(fs *FrameState) {
		fs.controller = controller
	}
}

// WithInstanceSet sets the instance grid.
func WithInstanceSet(instances instance.InstanceSet) FrameStateOption {
	return func(fs *FrameState) {
		fs.instances = instances
	}
}

// WithGeometryLibrary sets the meshes the Space toggle selects between.
func WithGeometryLibrary(geometries geometry.GeometryLibrary) FrameStateOption {
	return func(fs *FrameState) {
		fs.geometries = geometries
	}
}

// WithTextureSet sets the textures the Space toggle selects between.
func WithTextureSet(textures texture.TextureSet) FrameStateOption {
	return func(fs *FrameState) {
		fs.textures = textures
	}
}

// WithPipelineKey sets the key of the registered render pipeline used by every draw.
func WithPipelineKey(key string) FrameStateOption {
	return func(fs *FrameState) {
		fs.pipelineKey = key
	}
}

// WithSize sets the initial surface size and the camera aspect ratio.
//
// Parameters:
//   - width: surface width in pixels
//   - height: surface height in pixels
//
// Returns:
//   - FrameStateOption: option function to apply
func WithSize(width, height int) FrameStateOption {
	return func(fs *FrameState) {
		fs.width = width
		fs.height = height
	}
}

// WithBindGroupSlots sets the bind group indices the pipeline layout assigns to the texture
// and the camera. Defaults are 0 and 1.
//
// Parameters:
//   - textureGroup: group index of the texture bind group
//   - cameraGroup: group index of the camera bind group
//
// Returns:
//   - FrameStateOption: option function to apply
func WithBindGroupSlots(textureGroup, cameraGroup int) FrameStateOption {
	return func(fs *FrameState) {
		fs.textureGroup = textureGroup
		fs.cameraGroup = cameraGroup
	}
}

// WithCameraBinding sets the binding index of the camera uniform buffer within its group.
func WithCameraBinding(binding int) FrameStateOption {
	return func(fs *FrameState) {
		fs.cameraBinding = binding
	}
}
