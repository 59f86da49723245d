package renderer

import (
	"github.com/Carmen-Shannon/oxy-instanced/common"
	"github.com/Carmen-Shannon/oxy-instanced/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-instanced/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately and may tear.
	PresentModeUncapped
)

// String returns the config spelling of the mode.
func (m PresentMode) String() string {
	if m == PresentModeUncapped {
		return "uncapped"
	}
	return "vsync"
}

// MSAASampleCount is the number of samples per pixel of the main render target.
// WebGPU guarantees 1 and 4.
type MSAASampleCount uint32

const (
	// MSAAOff renders single-sampled. This is the default.
	MSAAOff MSAASampleCount = 1

	// MSAA4x renders into a 4x multisampled target resolved to the surface.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend is the set of operations a GPU backend provides to the Renderer.
type RendererBackend interface {
	// ConfigureSurface (re)configures the surface and recreates the depth and MSAA targets.
	ConfigureSurface(width, height int) error

	SetPresentMode(mode PresentMode)

	// SurfaceFormat returns the configured color format, or TextureFormatUndefined before
	// the first ConfigureSurface.
	SurfaceFormat() wgpu.TextureFormat

	RegisterRenderPipeline(p pipeline.Pipeline) error

	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	WriteBuffers(writes []bind_group_provider.BufferWrite) error

	BeginFrame(clear wgpu.Color) error
	DrawCall(p pipeline.Pipeline, meshProvider, instanceProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error
	EndFrame() error
	Present()

	// Release frees the surface targets, the surface, the device and the instance.
	Release()
}
