package engine

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-instanced/common"
	"github.com/Carmen-Shannon/oxy-instanced/config"
	"github.com/Carmen-Shannon/oxy-instanced/engine/camera"
	"github.com/Carmen-Shannon/oxy-instanced/engine/geometry"
	"github.com/Carmen-Shannon/oxy-instanced/engine/instance"
	"github.com/Carmen-Shannon/oxy-instanced/engine/renderer"
	"github.com/Carmen-Shannon/oxy-instanced/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-instanced/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-instanced/engine/state"
	"github.com/Carmen-Shannon/oxy-instanced/engine/texture"
	"github.com/Carmen-Shannon/oxy-instanced/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// instancedPipelineKey names the only render pipeline of the demo.
const instancedPipelineKey = "instanced"

// shaderSlots is where the instanced shaders expect each resource.
type shaderSlots struct {
	cameraGroup   int
	cameraBinding int

	textureGroup   int
	textureBinding int
	samplerBinding int
}

func windowOptions(cfg config.Config) []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
		window.WithMinSize(cfg.Window.MinWidth, cfg.Window.MinHeight),
		window.WithMaxSize(cfg.Window.MaxWidth, cfg.Window.MaxHeight),
	}
}

func rendererOptions(cfg config.Config) []renderer.RendererBuilderOption {
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(presentModeFor(cfg.Renderer.PresentMode)),
		renderer.WithMSAA(renderer.MSAASampleCount(cfg.Renderer.MSAA)),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceSoftware),
	}
}

func presentModeFor(name string) renderer.PresentMode {
	if name == renderer.PresentModeUncapped.String() {
		return renderer.PresentModeUncapped
	}
	return renderer.PresentModeVSync
}

// loadShaders parses the embedded instanced shaders. With validate set, each source is also
// compiled by naga; a failure is logged and startup continues, since wgpu validates again
// when the module is created.
func loadShaders(validate bool) (vs, fs shader.Shader, err error) {
	vs, err = shader.NewShader(instancedPipelineKey+"_vs", shader.ShaderTypeVertex, instancedVertexSource)
	if err != nil {
		return nil, nil, err
	}
	fs, err = shader.NewShader(instancedPipelineKey+"_fs", shader.ShaderTypeFragment, instancedFragmentSource)
	if err != nil {
		return nil, nil, err
	}
	if validate {
		for _, s := range []shader.Shader{vs, fs} {
			if verr := s.Validate(); verr != nil {
				common.Logger().Warn("shader validation failed", "shader", s.Key(), "error", verr)
			}
		}
	}
	return vs, fs, nil
}

// resolveSlots reads the camera and texture bind points from the shader annotations.
func resolveSlots(vs, fs shader.Shader) (shaderSlots, error) {
	var slots shaderSlots
	found := false
	for _, decl := range vs.Declarations() {
		if decl.Type == shader.AnnotationTypeBindingGroup && decl.Args[2] == shader.AnnotationArgCamera {
			slots.cameraGroup, slots.cameraBinding = *decl.Group, *decl.Binding
			found = true
			break
		}
	}
	if !found {
		return slots, fmt.Errorf("shader %q declares no camera uniform", vs.Key())
	}

	group, binding, ok := fs.BindingOf(shader.AnnotationArgTexture, shader.AnnotationArgDiffuseTexture)
	if !ok {
		return slots, fmt.Errorf("shader %q declares no diffuse texture", fs.Key())
	}
	samplerGroup, samplerBinding, ok := fs.BindingOf(shader.AnnotationArgTexture, shader.AnnotationArgDiffuseSampler)
	if !ok {
		return slots, fmt.Errorf("shader %q declares no diffuse sampler", fs.Key())
	}
	if samplerGroup != group {
		return slots, fmt.Errorf("diffuse texture (group %d) and sampler (group %d) must share a bind group", group, samplerGroup)
	}
	slots.textureGroup, slots.textureBinding, slots.samplerBinding = group, binding, samplerBinding
	return slots, nil
}

func newCamera(cfg config.Config, width, height int) camera.Camera {
	options := []camera.CameraBuilderOption{
		camera.WithEye(mgl32.Vec3(cfg.Camera.Eye)),
		camera.WithTarget(mgl32.Vec3(cfg.Camera.Target)),
		camera.WithUp(mgl32.Vec3(cfg.Camera.Up)),
		camera.WithFovy(mgl32.DegToRad(cfg.Camera.FovyDegrees)),
		camera.WithNear(cfg.Camera.Near),
		camera.WithFar(cfg.Camera.Far),
	}
	if width > 0 && height > 0 {
		options = append(options, camera.WithAspect(float32(width)/float32(height)))
	}
	return camera.NewCamera(options...)
}

// buildScene creates the demo's CPU state and uploads every GPU resource it draws with.
func buildScene(cfg config.Config, r renderer.Renderer, width, height int) (*state.FrameState, error) {
	vs, fs, err := loadShaders(cfg.Renderer.ValidateShaders)
	if err != nil {
		return nil, err
	}
	slots, err := resolveSlots(vs, fs)
	if err != nil {
		return nil, err
	}

	p := pipeline.NewPipeline(instancedPipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
	)
	if err := r.RegisterPipelines(p); err != nil {
		return nil, fmt.Errorf("failed to register pipeline: %w", err)
	}

	textures, err := texture.NewTextureSet()
	if err != nil {
		return nil, err
	}

	frameState, err := state.NewFrameState(r,
		state.WithCamera(newCamera(cfg, width, height)),
		state.WithCameraController(camera.NewCameraController(
			camera.WithSpeed(cfg.Controller.Speed),
			camera.WithMinDistance(cfg.Controller.MinDistance),
		)),
		state.WithInstanceSet(instance.NewInstanceSet(
			instance.WithGridSize(cfg.Grid.Rows, cfg.Grid.Cols),
			instance.WithTilt(cfg.Grid.TiltDegrees),
			instance.WithSpinDelta(cfg.Grid.SpinDegrees),
		)),
		state.WithGeometryLibrary(geometry.NewGeometryLibrary()),
		state.WithTextureSet(textures),
		state.WithPipelineKey(instancedPipelineKey),
		state.WithSize(width, height),
		state.WithBindGroupSlots(slots.textureGroup, slots.cameraGroup),
		state.WithCameraBinding(slots.cameraBinding),
	)
	if err != nil {
		return nil, err
	}

	if err := uploadResources(r, frameState, vs, fs, slots); err != nil {
		frameState.Release()
		return nil, err
	}
	return frameState, nil
}

// uploadResources creates the mesh, instance, camera and texture GPU objects.
func uploadResources(r renderer.Renderer, fs *state.FrameState, vsh, fsh shader.Shader, slots shaderSlots) error {
	for _, shape := range fs.Geometries().Shapes() {
		g := fs.Geometries().Geometry(shape)
		if err := r.InitMeshBuffers(g.BindGroupProvider(), g.MarshalVertices(), g.MarshalIndices(), g.IndexCount()); err != nil {
			return fmt.Errorf("failed to upload %s mesh: %w", shape, err)
		}
	}

	instances := fs.Instances()
	if err := r.InitMeshBuffers(instances.BindGroupProvider(), instances.Marshal(), nil, 0); err != nil {
		return fmt.Errorf("failed to upload instances: %w", err)
	}

	cam := fs.Camera()
	uniform := cam.Uniform()
	if err := r.InitBindGroup(
		cam.BindGroupProvider(),
		vsh.BindGroupLayoutDescriptor(slots.cameraGroup),
		nil,
		map[int]uint64{slots.cameraBinding: uint64(uniform.Size())},
	); err != nil {
		return fmt.Errorf("failed to create camera bind group: %w", err)
	}

	textureLayout := fsh.BindGroupLayoutDescriptor(slots.textureGroup)
	for _, kind := range fs.Textures().Kinds() {
		tex := fs.Textures().Texture(kind)
		provider := tex.BindGroupProvider()
		if err := r.InitTextureView(provider, slots.textureBinding, tex.Staging()); err != nil {
			return fmt.Errorf("failed to upload %s texture: %w", kind, err)
		}
		if err := r.InitSampler(provider, slots.samplerBinding, tex.Sampler()); err != nil {
			return fmt.Errorf("failed to create %s sampler: %w", kind, err)
		}
		if err := r.InitBindGroup(provider, textureLayout, nil, nil); err != nil {
			return fmt.Errorf("failed to create %s texture bind group: %w", kind, err)
		}
	}
	return nil
}
