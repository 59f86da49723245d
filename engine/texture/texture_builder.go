package texture

import "github.com/Carmen-Shannon/oxy-instanced/common"

type textureSetConfig struct {
	workers int
	sources map[Kind]common.ImageSource
	sampler common.SamplerStagingData
}

// TextureSetOption is a functional option for configuring a TextureSet.
type TextureSetOption func(*textureSetConfig)

// WithImage replaces the embedded image for a texture kind.
//
// Parameters:
//   - kind: the texture to replace
//   - name: debug name used in labels and errors
//   - data: encoded PNG, JPEG or BMP bytes
//
// Returns:
//   - TextureSetOption: functional option to override the image
func WithImage(kind Kind, name string, data []byte) TextureSetOption {
	return func(c *textureSetConfig) {
		c.sources[kind] = common.ImageSource{Name: name, Data: data}
	}
}

// WithWorkers sets how many goroutines decode images concurrently.
//
// Parameters:
//   - n: worker count, values below 1 are treated as 1
//
// Returns:
//   - TextureSetOption: functional option to set the worker count
func WithWorkers(n int) TextureSetOption {
	return func(c *textureSetConfig) {
		c.workers = max(n, 1)
	}
}

// WithSampler overrides the sampler shared by every texture in the set.
//
// Parameters:
//   - sampler: the sampler configuration
//
// Returns:
//   - TextureSetOption: functional option to set the sampler
func WithSampler(sampler common.SamplerStagingData) TextureSetOption {
	return func(c *textureSetConfig) {
		c.sampler = sampler
	}
}
