package state

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-instanced/common"
	"github.com/Carmen-Shannon/oxy-instanced/engine/camera"
	"github.com/Carmen-Shannon/oxy-instanced/engine/geometry"
	"github.com/Carmen-Shannon/oxy-instanced/engine/input"
	"github.com/Carmen-Shannon/oxy-instanced/engine/renderer"
	"github.com/Carmen-Shannon/oxy-instanced/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-instanced/engine/texture"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawRecord struct {
	pipelineKey   string
	mesh          bind_group_provider.BindGroupProvider
	instances     bind_group_provider.BindGroupProvider
	indexCount    int
	instanceCount uint32
	bindGroups    []bind_group_provider.BindGroupProvider
}

// recordingGPU records every call in order and fails on demand.
type recordingGPU struct {
	calls   []string
	resizes [][2]int
	writes  [][]bind_group_provider.BufferWrite
	clears  []wgpu.Color
	draws   []drawRecord

	beginErr error
	drawErr  error
	endErr   error
}

var _ GPU = &recordingGPU{}

func (g *recordingGPU) Resize(width, height int) error {
	g.calls = append(g.calls, "Resize")
	g.resizes = append(g.resizes, [2]int{width, height})
	return nil
}

func (g *recordingGPU) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	g.calls = append(g.calls, "WriteBuffers")
	g.writes = append(g.writes, writes)
	return nil
}

func (g *recordingGPU) BeginFrame(clear wgpu.Color) error {
	g.calls = append(g.calls, "BeginFrame")
	g.clears = append(g.clears, clear)
	return g.beginErr
}

func (g *recordingGPU) DrawCall(pipelineKey string, meshProvider, instanceProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	g.calls = append(g.calls, "DrawCall")
	g.draws = append(g.draws, drawRecord{
		pipelineKey:   pipelineKey,
		mesh:          meshProvider,
		instances:     instanceProvider,
		indexCount:    meshProvider.IndexCount(),
		instanceCount: instanceCount,
		bindGroups:    bindGroups,
	})
	return g.drawErr
}

func (g *recordingGPU) EndFrame() error {
	g.calls = append(g.calls, "EndFrame")
	return g.endErr
}

func (g *recordingGPU) Present() {
	g.calls = append(g.calls, "Present")
}

var sharedTextures texture.TextureSet

func testTextures(t *testing.T) texture.TextureSet {
	t.Helper()
	if sharedTextures == nil {
		set, err := texture.NewTextureSet()
		require.NoError(t, err)
		sharedTextures = set
	}
	return sharedTextures
}

func newTestState(t *testing.T, options ...FrameStateOption) (*FrameState, *recordingGPU) {
	t.Helper()
	gpu := &recordingGPU{}
	options = append([]FrameStateOption{WithTextureSet(testTextures(t)), WithSize(800, 600)}, options...)
	fs, err := NewFrameState(gpu, options...)
	require.NoError(t, err)
	return fs, gpu
}

func TestNewFrameState_Defaults(t *testing.T) {
	fs, _ := newTestState(t)

	assert.Equal(t, PhaseIdle, fs.Phase())
	assert.Equal(t, geometry.Square, fs.Shape())
	assert.Equal(t, texture.Diffuse, fs.TextureKind())
	assert.Equal(t, DefaultClearColor, fs.ClearColor())
	assert.Equal(t, "instanced", fs.PipelineKey())
	assert.Equal(t, 100, fs.Instances().Len())
	assert.InDelta(t, 800.0/600.0, fs.Camera().Aspect(), 1e-6)

	w, h := fs.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestNewFrameState_RequiresGPU(t *testing.T) {
	_, err := NewFrameState(nil)
	assert.Error(t, err)
}

func TestNewFrameState_RejectsBadBindGroupSlots(t *testing.T) {
	for _, slots := range [][2]int{{0, 0}, {1, 1}, {0, 2}, {-1, 0}} {
		_, err := NewFrameState(&recordingGPU{}, WithTextureSet(testTextures(t)), WithBindGroupSlots(slots[0], slots[1]))
		assert.Error(t, err, "slots %v", slots)
	}
}

func TestResize_ZeroDimensionIsNoOp(t *testing.T) {
	fs, gpu := newTestState(t)
	aspect := fs.Camera().Aspect()

	require.NoError(t, fs.Resize(0, 480))
	require.NoError(t, fs.Resize(640, 0))

	w, h := fs.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Equal(t, aspect, fs.Camera().Aspect())
	assert.Empty(t, gpu.calls)
}

func TestResize_UpdatesSizeAndAspect(t *testing.T) {
	fs, gpu := newTestState(t)

	require.NoError(t, fs.Resize(1000, 500))

	w, h := fs.Size()
	assert.Equal(t, 1000, w)
	assert.Equal(t, 500, h)
	assert.InDelta(t, 2.0, fs.Camera().Aspect(), 1e-6)
	assert.Equal(t, [][2]int{{1000, 500}}, gpu.resizes)
}

func TestInput_SpaceTogglesParity(t *testing.T) {
	fs, _ := newTestState(t)

	for n := 1; n <= 6; n++ {
		assert.True(t, fs.Input(input.KeyPressed(common.KeySpace)))
		if n%2 == 1 {
			assert.Equal(t, geometry.Hexagon, fs.Shape(), "after %d presses", n)
			assert.Equal(t, texture.Noise, fs.TextureKind(), "after %d presses", n)
		} else {
			assert.Equal(t, geometry.Square, fs.Shape(), "after %d presses", n)
			assert.Equal(t, texture.Diffuse, fs.TextureKind(), "after %d presses", n)
		}
	}
}

func TestInput_SpaceReleaseIsIgnored(t *testing.T) {
	fs, _ := newTestState(t)

	assert.False(t, fs.Input(input.KeyReleased(common.KeySpace)))
	assert.Equal(t, geometry.Square, fs.Shape())
}

func TestInput_CursorSetsClearColor(t *testing.T) {
	fs, _ := newTestState(t)

	assert.True(t, fs.Input(input.CursorAt(400, 150)))

	c := fs.ClearColor()
	assert.InDelta(t, 0.5, c.R, 1e-6)
	assert.InDelta(t, 0.25, c.G, 1e-6)
	assert.InDelta(t, 0.375, c.B, 1e-6)
	assert.Equal(t, 1.0, c.A)
}

func TestInput_CursorOutsideWindowClamps(t *testing.T) {
	fs, _ := newTestState(t)

	fs.Input(input.CursorAt(-20, 5000))

	c := fs.ClearColor()
	assert.Equal(t, 0.0, c.R)
	assert.Equal(t, 1.0, c.G)
	assert.InDelta(t, 0.5, c.B, 1e-6)
}

func TestInput_MovementKeysGoToController(t *testing.T) {
	fs, _ := newTestState(t)

	assert.True(t, fs.Input(input.KeyPressed(common.KeyW)))
	forward, _, _, _ := fs.Controller().Pressed()
	assert.True(t, forward)

	assert.False(t, fs.Input(input.KeyPressed(common.KeyX)))
	assert.False(t, fs.Input(input.ResizedTo(10, 10)))
}

func TestUpdate_SetsPhaseAndSpins(t *testing.T) {
	fs, _ := newTestState(t)
	before := fs.Instances().Instances()[0].Rotation

	fs.Update()

	assert.Equal(t, PhaseUpdated, fs.Phase())
	after := fs.Instances().Instances()[0].Rotation
	assert.True(t, before.Mul(fs.Instances().SpinDelta()).ApproxEqualThreshold(after, 1e-5))
}

func TestEndToEnd_ForwardThenRender(t *testing.T) {
	fs, gpu := newTestState(t,
		WithCamera(camera.NewCamera()),
		WithCameraController(camera.NewCameraController(camera.WithSpeed(0.2))),
	)

	require.True(t, fs.Input(input.KeyPressed(common.KeyW)))
	fs.Update()
	require.NoError(t, fs.Render())

	dist := fs.Camera().Target().Sub(fs.Camera().Eye()).Len()
	assert.InDelta(t, math32.Sqrt(5)-0.2, dist, 1e-5)

	assert.Equal(t, []string{"WriteBuffers", "BeginFrame", "DrawCall", "EndFrame", "Present"}, gpu.calls)
	assert.Equal(t, PhaseSubmitted, fs.Phase())

	require.Len(t, gpu.draws, 1)
	draw := gpu.draws[0]
	assert.Equal(t, "instanced", draw.pipelineKey)
	assert.Same(t, fs.Geometries().Geometry(geometry.Square).BindGroupProvider(), draw.mesh)
	assert.Same(t, fs.Instances().BindGroupProvider(), draw.instances)
	assert.Equal(t, 6, draw.indexCount)
	assert.Equal(t, uint32(100), draw.instanceCount)
	require.Len(t, draw.bindGroups, 2)
	assert.Same(t, fs.Textures().Texture(texture.Diffuse).BindGroupProvider(), draw.bindGroups[0])
	assert.Same(t, fs.Camera().BindGroupProvider(), draw.bindGroups[1])
}

func TestRender_UploadsCameraAndInstances(t *testing.T) {
	fs, gpu := newTestState(t)
	fs.Update()

	require.NoError(t, fs.Render())

	require.Len(t, gpu.writes, 1)
	writes := gpu.writes[0]
	require.Len(t, writes, 2)

	assert.Same(t, fs.Camera().BindGroupProvider(), writes[0].Provider)
	assert.Equal(t, bind_group_provider.TargetBinding, writes[0].Target)
	assert.Equal(t, 0, writes[0].Binding)
	uniform := fs.Camera().Uniform()
	assert.Equal(t, uniform.Marshal(), writes[0].Data)

	assert.Same(t, fs.Instances().BindGroupProvider(), writes[1].Provider)
	assert.Equal(t, bind_group_provider.TargetVertex, writes[1].Target)
	assert.Len(t, writes[1].Data, 100*64)
}

func TestRender_SkipsUploadWhenClean(t *testing.T) {
	fs, gpu := newTestState(t)
	fs.Update()
	require.NoError(t, fs.Render())
	require.NoError(t, fs.Render())

	assert.Len(t, gpu.writes, 1)
	assert.Len(t, gpu.draws, 2)
}

func TestRender_DrawsToggledSelection(t *testing.T) {
	fs, gpu := newTestState(t)
	fs.Input(input.KeyPressed(common.KeySpace))
	fs.Update()

	require.NoError(t, fs.Render())

	draw := gpu.draws[0]
	assert.Same(t, fs.Geometries().Geometry(geometry.Hexagon).BindGroupProvider(), draw.mesh)
	assert.Equal(t, 18, draw.indexCount)
	assert.Same(t, fs.Textures().Texture(texture.Noise).BindGroupProvider(), draw.bindGroups[0])
}

func TestRender_SwappedBindGroupSlots(t *testing.T) {
	fs, gpu := newTestState(t, WithBindGroupSlots(1, 0))
	fs.Update()

	require.NoError(t, fs.Render())

	draw := gpu.draws[0]
	assert.Same(t, fs.Camera().BindGroupProvider(), draw.bindGroups[0])
	assert.Same(t, fs.Textures().Texture(texture.Diffuse).BindGroupProvider(), draw.bindGroups[1])
}

func TestRender_UsesCursorClearColor(t *testing.T) {
	fs, gpu := newTestState(t)
	fs.Input(input.CursorAt(800, 600))
	fs.Update()

	require.NoError(t, fs.Render())

	assert.Equal(t, wgpu.Color{R: 1, G: 1, B: 1, A: 1}, gpu.clears[0])
}

func TestRender_SurfaceErrorsReturnToIdle(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"lost", renderer.ErrSurfaceLost, renderer.ErrSurfaceLost},
		{"outdated", renderer.ErrSurfaceOutdated, renderer.ErrSurfaceOutdated},
		{"timeout", renderer.ErrSurfaceTimeout, renderer.ErrSurfaceTimeout},
		{"out of memory", renderer.ClassifySurfaceError(errors.New("OutOfMemory")), renderer.ErrOutOfMemory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, gpu := newTestState(t)
			gpu.beginErr = tt.err
			fs.Update()

			err := fs.Render()

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, PhaseIdle, fs.Phase())
			assert.Equal(t, []string{"WriteBuffers", "BeginFrame"}, gpu.calls)
		})
	}
}

func TestRender_DrawFailureStillClosesFrame(t *testing.T) {
	fs, gpu := newTestState(t)
	gpu.drawErr = errors.New("pipeline missing")
	fs.Update()

	err := fs.Render()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline missing")
	assert.Equal(t, PhaseIdle, fs.Phase())
	assert.Equal(t, []string{"WriteBuffers", "BeginFrame", "DrawCall", "EndFrame", "Present"}, gpu.calls)
}

func TestRender_EndFrameFailure(t *testing.T) {
	fs, gpu := newTestState(t)
	gpu.endErr = errors.New("finish failed")
	fs.Update()

	err := fs.Render()

	require.Error(t, err)
	assert.Equal(t, PhaseIdle, fs.Phase())
	assert.NotContains(t, gpu.calls, "Present")
}

func TestPhaseMachine(t *testing.T) {
	fs, gpu := newTestState(t)
	assert.Equal(t, PhaseIdle, fs.Phase())

	fs.Update()
	assert.Equal(t, PhaseUpdated, fs.Phase())

	require.NoError(t, fs.Render())
	assert.Equal(t, PhaseSubmitted, fs.Phase())

	fs.Update()
	assert.Equal(t, PhaseUpdated, fs.Phase())

	gpu.beginErr = renderer.ErrSurfaceTimeout
	require.Error(t, fs.Render())
	assert.Equal(t, PhaseIdle, fs.Phase())

	gpu.beginErr = nil
	fs.Update()
	require.NoError(t, fs.Render())
	assert.Equal(t, PhaseSubmitted, fs.Phase())
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "updated", PhaseUpdated.String())
	assert.Equal(t, "submitted", PhaseSubmitted.String())
	assert.Equal(t, "Phase(7)", Phase(7).String())
}

func TestRelease_ResetsPhase(t *testing.T) {
	fs, _ := newTestState(t, WithTextureSet(mustTextures(t)))
	fs.Update()

	assert.NotPanics(t, fs.Release)
	assert.Equal(t, PhaseIdle, fs.Phase())
}

func mustTextures(t *testing.T) texture.TextureSet {
	t.Helper()
	set, err := texture.NewTextureSet()
	require.NoError(t, err)
	return set
}
