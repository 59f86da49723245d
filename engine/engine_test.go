package engine

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-instanced/common"
	"github.com/Carmen-Shannon/oxy-instanced/config"
	"github.com/Carmen-Shannon/oxy-instanced/engine/geometry"
	"github.com/Carmen-Shannon/oxy-instanced/engine/input"
	"github.com/Carmen-Shannon/oxy-instanced/engine/profiler"
	"github.com/Carmen-Shannon/oxy-instanced/engine/renderer"
	"github.com/Carmen-Shannon/oxy-instanced/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-instanced/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-instanced/engine/state"
	"github.com/Carmen-Shannon/oxy-instanced/engine/texture"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedWindow delivers one batch of events per loop iteration and stops after the last batch.
type scriptedWindow struct {
	batches  [][]input.Event
	polls    int
	running  bool
	closed   int
	onEvent  func(input.Event)
	onUpdate func()
	requests int
}

func (w *scriptedWindow) SetEventCallback(callback func(input.Event)) { w.onEvent = callback }

func (w *scriptedWindow) SetUpdateCallback(callback func()) { w.onUpdate = callback }

func (w *scriptedWindow) ProcessMessages() {
	for w.running {
		if !w.poll() {
			break
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

func (w *scriptedWindow) poll() bool {
	if w.polls >= len(w.batches) {
		w.running = false
		return false
	}
	for _, ev := range w.batches[w.polls] {
		w.onEvent(ev)
	}
	w.polls++
	return w.running
}

func (w *scriptedWindow) IsRunning() bool { return w.running }

func (w *scriptedWindow) RequestClose() {
	w.requests++
	w.running = false
}

func (w *scriptedWindow) Close() error {
	w.closed++
	return nil
}

// fakeGPU fails BeginFrame with the queued errors, one per frame.
type fakeGPU struct {
	beginErrs []error
	resizes   [][2]int
	draws     int
}

func (g *fakeGPU) Resize(width, height int) error {
	g.resizes = append(g.resizes, [2]int{width, height})
	return nil
}

func (g *fakeGPU) WriteBuffers([]bind_group_provider.BufferWrite) error { return nil }

func (g *fakeGPU) BeginFrame(wgpu.Color) error {
	if len(g.beginErrs) == 0 {
		return nil
	}
	err := g.beginErrs[0]
	g.beginErrs = g.beginErrs[1:]
	return err
}

func (g *fakeGPU) DrawCall(string, bind_group_provider.BindGroupProvider, bind_group_provider.BindGroupProvider, uint32, []bind_group_provider.BindGroupProvider) error {
	g.draws++
	return nil
}

func (g *fakeGPU) EndFrame() error { return nil }

func (g *fakeGPU) Present() {}

func newTestEngine(t *testing.T, batches [][]input.Event, gpu *fakeGPU) (*engine, *scriptedWindow) {
	t.Helper()
	fs, err := state.NewFrameState(gpu, state.WithSize(800, 600))
	require.NoError(t, err)

	win := &scriptedWindow{batches: batches, running: true}
	e := &engine{window: win, state: fs}
	win.SetEventCallback(e.handleEvent)
	return e, win
}

func TestRun_DispatchesEventsAndRendersEachIteration(t *testing.T) {
	gpu := &fakeGPU{}
	e, win := newTestEngine(t, [][]input.Event{
		{input.ResizedTo(640, 480)},
		{input.KeyPressed(common.KeySpace), input.CursorAt(320, 240)},
		{input.ResizedTo(0, 0)},
	}, gpu)

	require.NoError(t, e.Run())

	assert.Equal(t, 3, e.Frames())
	assert.Equal(t, 3, gpu.draws)
	assert.Equal(t, [][2]int{{640, 480}}, gpu.resizes)
	assert.Equal(t, geometry.Hexagon, e.State().Shape())
	assert.Equal(t, texture.Noise, e.State().TextureKind())
	assert.InDelta(t, 0.5, e.State().ClearColor().R, 1e-6)
	assert.Equal(t, state.PhaseSubmitted, e.State().Phase())
	assert.Equal(t, 0, win.requests)
}

func TestRun_CloseRequestStopsLoop(t *testing.T) {
	gpu := &fakeGPU{}
	e, win := newTestEngine(t, [][]input.Event{
		{},
		{{Kind: input.CloseRequested}},
		{},
	}, gpu)

	require.NoError(t, e.Run())

	assert.Equal(t, 1, win.requests)
	assert.Equal(t, 2, win.polls)
	assert.Equal(t, 1, e.Frames())
}

func TestRun_LostSurfaceIsReconfigured(t *testing.T) {
	gpu := &fakeGPU{beginErrs: []error{renderer.ErrSurfaceLost}}
	e, _ := newTestEngine(t, [][]input.Event{{}, {}}, gpu)

	require.NoError(t, e.Run())

	assert.Equal(t, [][2]int{{800, 600}}, gpu.resizes)
	assert.Equal(t, 1, e.Frames())
}

func TestRun_RecoverableErrorsSkipFrame(t *testing.T) {
	gpu := &fakeGPU{beginErrs: []error{renderer.ErrSurfaceOutdated, renderer.ErrSurfaceTimeout, errors.New("driver hiccup")}}
	e, _ := newTestEngine(t, [][]input.Event{{}, {}, {}, {}}, gpu)

	require.NoError(t, e.Run())

	assert.Empty(t, gpu.resizes)
	assert.Equal(t, 1, e.Frames())
}

func TestRun_OutOfMemoryIsFatal(t *testing.T) {
	gpu := &fakeGPU{beginErrs: []error{renderer.ClassifySurfaceError(errors.New("Out Of Memory"))}}
	e, win := newTestEngine(t, [][]input.Event{{}, {}, {}}, gpu)

	err := e.Run()

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFatalGPU)
	assert.ErrorIs(t, err, renderer.ErrOutOfMemory)
	assert.Equal(t, 1, win.requests)
	assert.Equal(t, 1, win.polls)
	assert.Equal(t, state.PhaseIdle, e.State().Phase())
}

func TestRun_ProfilerTicks(t *testing.T) {
	e, _ := newTestEngine(t, [][]input.Event{{}, {}}, &fakeGPU{})
	e.profilingEnabled = true
	e.profiler = profiler.NewProfiler()

	require.NoError(t, e.Run())
	assert.Equal(t, 2, e.Frames())
}

func TestRun_ClearsUpdateCallbackOnReturn(t *testing.T) {
	e, win := newTestEngine(t, [][]input.Event{{}}, &fakeGPU{})

	require.NoError(t, e.Run())

	assert.Nil(t, win.onUpdate)
	assert.Equal(t, 1, e.Frames())
}

func TestRun_FramesInProgressAreSkipped(t *testing.T) {
	gpu := &fakeGPU{beginErrs: []error{renderer.ErrFrameInProgress}}
	e, win := newTestEngine(t, [][]input.Event{{}, {}}, gpu)

	require.NoError(t, e.Run())

	assert.Equal(t, 0, win.requests)
	assert.Equal(t, 1, e.Frames())
}

func TestClose_IsIdempotent(t *testing.T) {
	e, win := newTestEngine(t, nil, &fakeGPU{})

	require.NoError(t, e.Close())
	require.NoError(t, e.Close())

	assert.Equal(t, 1, win.closed)
	assert.Equal(t, state.PhaseIdle, e.State().Phase())
}

func TestLoadShaders_EmbeddedSourcesParse(t *testing.T) {
	vs, fs, err := loadShaders(false)
	require.NoError(t, err)

	assert.Equal(t, "vs_main", vs.EntryPoint())
	assert.Equal(t, "fs_main", fs.EntryPoint())

	layouts := vs.VertexLayouts()
	require.Len(t, layouts, 2)
	assert.Equal(t, uint64(20), layouts[0].ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layouts[0].StepMode)
	assert.Equal(t, uint64(64), layouts[1].ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeInstance, layouts[1].StepMode)
	assert.Len(t, layouts[1].Attributes, 4)
}

func TestResolveSlots_EmbeddedShaders(t *testing.T) {
	vs, fs, err := loadShaders(false)
	require.NoError(t, err)

	slots, err := resolveSlots(vs, fs)
	require.NoError(t, err)

	assert.Equal(t, shaderSlots{
		cameraGroup:    1,
		cameraBinding:  0,
		textureGroup:   0,
		textureBinding: 0,
		samplerBinding: 1,
	}, slots)

	cameraLayout := vs.BindGroupLayoutDescriptor(slots.cameraGroup)
	require.Len(t, cameraLayout.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, cameraLayout.Entries[0].Buffer.Type)

	textureLayout := fs.BindGroupLayoutDescriptor(slots.textureGroup)
	assert.Len(t, textureLayout.Entries, 2)
}

func TestResolveSlots_MissingDeclarations(t *testing.T) {
	bareVS, err := shader.NewShader("bare_vs", shader.ShaderTypeVertex, `
@vertex
fn vs_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`)
	require.NoError(t, err)
	bareFS, err := shader.NewShader("bare_fs", shader.ShaderTypeFragment, `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`)
	require.NoError(t, err)
	vs, fs, err := loadShaders(false)
	require.NoError(t, err)

	_, err = resolveSlots(bareVS, fs)
	assert.ErrorContains(t, err, "camera")

	_, err = resolveSlots(vs, bareFS)
	assert.ErrorContains(t, err, "diffuse texture")
}

func TestPresentModeFor(t *testing.T) {
	assert.Equal(t, renderer.PresentModeVSync, presentModeFor("vsync"))
	assert.Equal(t, renderer.PresentModeUncapped, presentModeFor("uncapped"))
	assert.Equal(t, renderer.PresentModeVSync, presentModeFor(""))
}

func TestNewCamera_FromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Camera.FovyDegrees = 90

	cam := newCamera(cfg, 1000, 500)

	assert.InDelta(t, 2.0, cam.Aspect(), 1e-6)
	assert.InDelta(t, 1.5707963, cam.Fovy(), 1e-6)
	assert.Equal(t, float32(2), cam.Eye().Z())
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Grid.Rows = 0

	_, err := New(cfg)
	assert.ErrorContains(t, err, "invalid config")
}

func TestWindowAndRendererOptions(t *testing.T) {
	cfg := config.Default()
	assert.Len(t, windowOptions(cfg), 4)
	assert.Len(t, rendererOptions(cfg), 3)
}
