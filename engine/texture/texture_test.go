package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextureSetDecodesEmbeddedImages(t *testing.T) {
	set, err := NewTextureSet()
	require.NoError(t, err)
	assert.Equal(t, []Kind{Diffuse, Noise}, set.Kinds())

	diffuse := set.Texture(Diffuse)
	require.NotNil(t, diffuse)
	assert.Equal(t, Diffuse, diffuse.Kind())
	assert.Equal(t, uint32(128), diffuse.Staging().Width)
	assert.Equal(t, uint32(128), diffuse.Staging().Height)
	assert.Len(t, diffuse.Staging().Pixels, 128*128*4)
	assert.Equal(t, "texture_diffuse", diffuse.BindGroupProvider().Label())

	noise := set.Texture(Noise)
	require.NotNil(t, noise)
	assert.Equal(t, uint32(64), noise.Staging().Width)
	assert.Len(t, noise.Staging().Pixels, 64*64*4)
	assert.NotEqual(t, diffuse.BindGroupProvider(), noise.BindGroupProvider())
}

func TestDefaultSamplerIsLinearRepeat(t *testing.T) {
	set, err := NewTextureSet()
	require.NoError(t, err)
	s := set.Texture(Noise).Sampler()
	assert.Equal(t, wgpu.AddressModeRepeat, s.AddressModeU)
	assert.Equal(t, wgpu.AddressModeRepeat, s.AddressModeV)
	assert.Equal(t, wgpu.FilterModeLinear, s.MagFilter)
	assert.Equal(t, wgpu.FilterModeLinear, s.MinFilter)
}

func TestWithImageOverride(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 9, G: 8, B: 7, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	set, err := NewTextureSet(WithImage(Noise, "tiny.png", buf.Bytes()), WithWorkers(1))
	require.NoError(t, err)
	noise := set.Texture(Noise)
	assert.Equal(t, "tiny.png", noise.Label())
	assert.Equal(t, uint32(2), noise.Staging().Width)
	assert.Equal(t, []byte{9, 8, 7, 255}, noise.Staging().Pixels[:4])
}

func TestMalformedImageFailsStartup(t *testing.T) {
	set, err := NewTextureSet(WithImage(Diffuse, "broken.png", []byte("definitely not a png")))
	assert.Nil(t, set)
	assert.ErrorContains(t, err, "failed to load diffuse texture")
	assert.ErrorContains(t, err, "broken.png")
}

func TestKindNextAlternates(t *testing.T) {
	assert.Equal(t, Noise, Diffuse.Next())
	assert.Equal(t, Diffuse, Noise.Next())
	assert.Equal(t, "noise", Noise.String())
}
