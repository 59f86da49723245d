package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-instanced/common"
	"github.com/Carmen-Shannon/oxy-instanced/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-instanced/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceSource is anything that can describe a presentable surface and report its size.
// The GLFW window implements it.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
}

// Renderer owns the GPU device and surface and turns pipeline descriptions, provider
// resources and per-frame draw calls into GPU work.
type Renderer interface {
	// Pipeline returns the registered pipeline with the given key, or nil.
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates GPU render pipelines and caches them by key. Keys that are
	// already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the pipeline descriptions to create
	//
	// Returns:
	//   - error: the first creation failure
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface and recreates the depth target.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	//
	// Returns:
	//   - error: an error if the depth or MSAA target could not be recreated
	Resize(width, height int) error

	// SetPresentMode changes the present mode. It takes effect on the next Resize.
	SetPresentMode(mode PresentMode)

	// SurfaceFormat returns the color format the surface was configured with.
	SurfaceFormat() wgpu.TextureFormat

	// InitMeshBuffers uploads vertex and index data and stores the buffers on the provider.
	// Passing no index data creates only a vertex buffer, which is how per-instance
	// buffers are made.
	//
	// Parameters:
	//   - provider: the provider that will own the buffers
	//   - vertexData: the vertex bytes
	//   - indexData: the uint32 index bytes, or nil
	//   - indexCount: the number of indices in indexData
	//
	// Returns:
	//   - error: an error if buffer creation or upload fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates missing uniform and storage buffers and the bind group for a
	// layout descriptor. Texture views and samplers must already be on the provider.
	//
	// Parameters:
	//   - provider: the provider that will own the bind group
	//   - descriptor: the layout of the group
	//   - bufferUsageOverrides: extra usage flags by binding, may be nil
	//   - bufferSizeOverrides: buffer sizes by binding in place of MinBindingSize, may be nil
	//
	// Returns:
	//   - error: an error if a resource is missing or creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// InitTextureView uploads RGBA pixels into an sRGB texture and stores its view at bindingKey.
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a sampler and stores it at bindingKey. Zero fields take defaults.
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers queues every write. Writes whose target buffer is missing are reported
	// and skipped.
	//
	// Parameters:
	//   - writes: the writes to queue
	//
	// Returns:
	//   - error: the joined errors of failed writes, or nil
	WriteBuffers(writes []bind_group_provider.BufferWrite) error

	// BeginFrame acquires the next surface image and begins the render pass, clearing color
	// to clear and depth to 1.0. Acquisition failures are classified into the surface
	// sentinel errors.
	BeginFrame(clear wgpu.Color) error

	// DrawCall encodes one indexed instanced draw into the current pass.
	//
	// Parameters:
	//   - pipelineKey: the registered pipeline to bind
	//   - meshProvider: vertex buffer for slot 0, index buffer and index count
	//   - instanceProvider: vertex buffer for slot 1, may be nil
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: bind groups set in slice order, so index i is group i
	//
	// Returns:
	//   - error: an error if the pipeline is unknown or no frame is in progress
	DrawCall(pipelineKey string, meshProvider, instanceProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the pass and submits the command buffer. Call Present afterwards.
	EndFrame() error

	// Present shows the submitted frame and releases the surface image.
	Present()

	// Release releases every cached pipeline and then the GPU context.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer acquires a GPU device for the surface and configures the surface at its
// current size.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - surface: the window or other surface source to present to
//   - options: functional options applied before device acquisition
//
// Returns:
//   - Renderer: the ready renderer
//   - error: an error if the surface could not be configured
func NewRenderer(backendType RendererBackendType, surface SurfaceSource, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		presentMode:   PresentModeVSync,
		msaa:          MSAAOff,
	}
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa)
	}

	r.backend.SetPresentMode(r.presentMode)
	if err := r.backend.ConfigureSurface(surface.Width(), surface.Height()); err != nil {
		r.backend.Release()
		return nil, fmt.Errorf("failed to configure surface: %w", err)
	}
	common.Logger().Info("renderer ready", "present_mode", r.presentMode.String(), "format", r.backend.SurfaceFormat())
	return r, nil
}

func (r *renderer) Resize(width, height int) error {
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		if _, exists := r.pipelineCache[p.Key()]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return err
		}
		r.pipelineCache[p.Key()] = p
	}
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferUsageOverrides, bufferSizeOverrides)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	return r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame(clear wgpu.Color) error {
	return r.backend.BeginFrame(clear)
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider, instanceProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	return r.backend.DrawCall(p, meshProvider, instanceProvider, instanceCount, bindGroups)
}

func (r *renderer) EndFrame() error {
	return r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()
	r.backend.Release()
}
