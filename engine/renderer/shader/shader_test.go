package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVertexSource = `//@oxy:include camera
//@oxy:include vertex
//@oxy:include instance

//@oxy:group 1 0 storage_uniform camera camera

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) tex_coords: vec2<f32>,
};

@vertex
fn vs_main(model: VertexInput, instance: InstanceInput) -> VertexOutput {
    var out: VertexOutput;
    out.tex_coords = model.tex_coords;
    out.clip_position = camera.view_proj * vec4<f32>(model.position, 1.0);
    return out;
}
`

const testFragmentSource = `//@oxy:provider 0 0 texture diffuse_texture
@group(0) @binding(0) var t_diffuse: texture_2d<f32>;
//@oxy:provider 0 1 texture diffuse_sampler
@group(0) @binding(1) var s_diffuse: sampler;

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    return textureSample(t_diffuse, s_diffuse, uv);
}
`

func TestNewShader_Vertex(t *testing.T) {
	s, err := NewShader("instanced.vert", ShaderTypeVertex, testVertexSource)
	require.NoError(t, err)

	assert.Equal(t, "instanced.vert", s.Key())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())
	assert.Equal(t, "vs_main", s.EntryPoint())
	require.NotNil(t, s.Module())
	assert.Equal(t, s.Source(), s.Module().WGSLDescriptor.Code)
	assert.Contains(t, s.Source(), "struct CameraUniform")
	assert.Contains(t, s.Source(), "var<uniform> camera: CameraUniform;")

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 2)
	assert.Equal(t, uint64(20), layouts[0].ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layouts[0].StepMode)
	assert.Equal(t, uint64(64), layouts[1].ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeInstance, layouts[1].StepMode)
	require.Len(t, layouts[1].Attributes, 4)
	assert.Equal(t, uint32(5), layouts[1].Attributes[0].ShaderLocation)
	assert.Equal(t, uint64(48), layouts[1].Attributes[3].Offset)

	cameraLayout := s.BindGroupLayoutDescriptor(1)
	require.Len(t, cameraLayout.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, cameraLayout.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(64), cameraLayout.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, cameraLayout.Entries[0].Visibility)
	assert.Empty(t, s.BindGroupLayoutDescriptor(0).Entries)

	group, ok := s.GroupOf(AnnotationArgCamera)
	assert.True(t, ok)
	assert.Equal(t, 1, group)
	_, ok = s.GroupOf(AnnotationArgTexture)
	assert.False(t, ok)
}

func TestNewShader_Fragment(t *testing.T) {
	s, err := NewShader("instanced.frag", ShaderTypeFragment, testFragmentSource)
	require.NoError(t, err)

	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Nil(t, s.VertexLayouts())
	require.Len(t, s.Declarations(), 2)

	group, ok := s.GroupOf(AnnotationArgTexture)
	assert.True(t, ok)
	assert.Equal(t, 0, group)

	group, binding, ok := s.BindingOf(AnnotationArgTexture, AnnotationArgDiffuseSampler)
	assert.True(t, ok)
	assert.Equal(t, 0, group)
	assert.Equal(t, 1, binding)

	_, _, ok = s.BindingOf(AnnotationArgCamera, AnnotationArgDiffuseSampler)
	assert.False(t, ok)

	entries := s.BindGroupLayoutDescriptors()[0].Entries
	require.Len(t, entries, 2)
	assert.Equal(t, wgpu.ShaderStageFragment, entries[0].Visibility)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, entries[1].Sampler.Type)
}

func TestNewShader_MissingEntryPoint(t *testing.T) {
	_, err := NewShader("frag-as-vert", ShaderTypeVertex, testFragmentSource)
	assert.ErrorIs(t, err, ErrNoEntryPoint)
}

func TestNewShader_BadAnnotation(t *testing.T) {
	_, err := NewShader("bad", ShaderTypeVertex, "//@oxy:include nope\n@vertex fn vs_main() {}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}

func TestShader_ValidateRejectsBrokenSource(t *testing.T) {
	s, err := NewShader("broken", ShaderTypeVertex, "@vertex fn vs_main( -> {")
	require.NoError(t, err)
	assert.Error(t, s.Validate())
}

func TestShaderType_String(t *testing.T) {
	assert.Equal(t, "vertex", ShaderTypeVertex.String())
	assert.Equal(t, "fragment", ShaderTypeFragment.String())
	assert.Equal(t, "ShaderType(9)", ShaderType(9).String())
}
