package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-instanced/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShaders(t *testing.T) (shader.Shader, shader.Shader) {
	t.Helper()
	vert, err := shader.NewShader("v", shader.ShaderTypeVertex, "@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(); }")
	require.NoError(t, err)
	frag, err := shader.NewShader("f", shader.ShaderTypeFragment, "@fragment fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(); }")
	require.NoError(t, err)
	return vert, frag
}

func TestNewPipeline_Defaults(t *testing.T) {
	p := NewPipeline("instanced")

	assert.Equal(t, "instanced", p.Key())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.False(t, p.BlendEnabled())
	assert.Nil(t, p.BlendState())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	assert.Nil(t, p.RenderPipeline())
}

func TestNewPipeline_Options(t *testing.T) {
	vert, frag := testShaders(t)
	blend := &wgpu.BlendState{}
	p := NewPipeline("custom",
		WithVertexShader(vert),
		WithFragmentShader(frag),
		WithDepthTestEnabled(false),
		WithDepthWriteEnabled(false),
		WithBlendEnabled(true),
		WithBlendState(blend),
		WithCullMode(wgpu.CullModeNone),
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithFrontFace(wgpu.FrontFaceCW),
		WithWriteMask(wgpu.ColorWriteMaskRed),
	)

	assert.Same(t, vert, p.Shader(shader.ShaderTypeVertex))
	assert.Same(t, frag, p.Shader(shader.ShaderTypeFragment))
	assert.Nil(t, p.Shader(shader.ShaderType(7)))
	assert.False(t, p.DepthTestEnabled())
	assert.False(t, p.DepthWriteEnabled())
	assert.Same(t, blend, p.BlendState())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskRed, p.WriteMask())
}

func TestPipeline_Validate(t *testing.T) {
	vert, frag := testShaders(t)

	assert.NoError(t, NewPipeline("ok", WithVertexShader(vert), WithFragmentShader(frag)).Validate())
	assert.ErrorIs(t, NewPipeline("no-vert", WithFragmentShader(frag)).Validate(), ErrMissingShader)
	assert.ErrorIs(t, NewPipeline("no-frag", WithVertexShader(vert)).Validate(), ErrMissingShader)
	assert.ErrorIs(t, NewPipeline("swapped", WithVertexShader(frag), WithFragmentShader(vert)).Validate(), ErrMissingShader)
}

func TestPipeline_ReleaseWithoutGPU(t *testing.T) {
	p := NewPipeline("idle")
	assert.NotPanics(t, func() {
		p.Release()
		p.Release()
	})
}
