// Package texture decodes the demo's images and holds them until the renderer uploads them.
package texture

import (
	_ "embed"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-instanced/common"
	"github.com/Carmen-Shannon/oxy-instanced/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/happy-tree.png
var diffuseImage []byte

//go:embed assets/noise.bmp
var noiseImage []byte

// Kind selects one of the demo's textures.
type Kind int

const (
	// Diffuse is the photographic texture. It is the texture drawn at startup.
	Diffuse Kind = iota
	// Noise is the procedural grayscale noise texture.
	Noise
)

func (k Kind) String() string {
	switch k {
	case Diffuse:
		return "diffuse"
	case Noise:
		return "noise"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Next returns the other texture kind. Diffuse and Noise alternate.
func (k Kind) Next() Kind {
	if k == Noise {
		return Diffuse
	}
	return Noise
}

// DefaultSampler is linear filtering with repeat addressing on every axis.
var DefaultSampler = common.SamplerStagingData{
	AddressModeU: wgpu.AddressModeRepeat,
	AddressModeV: wgpu.AddressModeRepeat,
	AddressModeW: wgpu.AddressModeRepeat,
	MagFilter:    wgpu.FilterModeLinear,
	MinFilter:    wgpu.FilterModeLinear,
	MipmapFilter: wgpu.MipmapFilterModeNearest,
}

type textureImpl struct {
	kind    Kind
	label   string
	staging common.TextureStagingData
	sampler common.SamplerStagingData

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Texture is a decoded image plus its sampler configuration. It never changes after creation.
type Texture interface {
	// Kind returns which texture this is.
	Kind() Kind

	// Label returns the texture's debug name.
	Label() string

	// Staging returns the decoded RGBA pixels awaiting upload.
	Staging() common.TextureStagingData

	// Sampler returns the sampler configuration paired with the texture.
	Sampler() common.SamplerStagingData

	// BindGroupProvider returns the provider holding the GPU texture view, sampler and bind group.
	BindGroupProvider() bind_group_provider.BindGroupProvider
}

var _ Texture = &textureImpl{}

func (t *textureImpl) Kind() Kind {
	return t.kind
}

func (t *textureImpl) Label() string {
	return t.label
}

func (t *textureImpl) Staging() common.TextureStagingData {
	return t.staging
}

func (t *textureImpl) Sampler() common.SamplerStagingData {
	return t.sampler
}

func (t *textureImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return t.bindGroupProvider
}

type textureSetImpl struct {
	kinds    []Kind
	textures map[Kind]Texture
}

// TextureSet holds every texture the demo can bind.
type TextureSet interface {
	// Texture returns the texture of the given kind, or nil if unknown.
	//
	// Parameters:
	//   - kind: the texture to look up
	//
	// Returns:
	//   - Texture: the texture, or nil
	Texture(kind Kind) Texture

	// Kinds lists the available kinds in a fixed order.
	Kinds() []Kind

	// Release frees the GPU resources of every texture.
	Release()
}

var _ TextureSet = &textureSetImpl{}

// NewTextureSet decodes the diffuse and noise images. Decoding is CPU-only and runs on a
// short-lived worker pool, one task per image; the call returns once every image is decoded.
//
// Parameters:
//   - options: functional options to configure the set
//
// Returns:
//   - TextureSet: the decoded textures
//   - error: the first decode failure, if any
func NewTextureSet(options ...TextureSetOption) (TextureSet, error) {
	cfg := &textureSetConfig{
		workers: 2,
		sources: map[Kind]common.ImageSource{
			Diffuse: {Name: "happy-tree.png", Data: diffuseImage},
			Noise:   {Name: "noise.bmp", Data: noiseImage},
		},
		sampler: DefaultSampler,
	}
	for _, option := range options {
		option(cfg)
	}

	kinds := []Kind{Diffuse, Noise}
	results := make([]common.TextureStagingData, len(kinds))
	errs := make([]error, len(kinds))

	pool := worker.NewDynamicWorkerPool(cfg.workers, len(kinds), 1*time.Second)
	var wg sync.WaitGroup
	for i, kind := range kinds {
		wg.Add(1)
		src := cfg.sources[kind]
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				results[i], errs[i] = src.Decode()
				return nil, nil
			},
		})
	}
	wg.Wait()

	set := &textureSetImpl{
		kinds:    kinds,
		textures: make(map[Kind]Texture, len(kinds)),
	}
	for i, kind := range kinds {
		if errs[i] != nil {
			return nil, fmt.Errorf("failed to load %s texture: %w", kind, errs[i])
		}
		set.textures[kind] = &textureImpl{
			kind:              kind,
			label:             cfg.sources[kind].Name,
			staging:           results[i],
			sampler:           cfg.sampler,
			bindGroupProvider: bind_group_provider.NewBindGroupProvider("texture_" + kind.String()),
		}
		common.Logger().Debug("texture decoded",
			"kind", kind.String(),
			"width", results[i].Width,
			"height", results[i].Height,
		)
	}
	return set, nil
}

func (s *textureSetImpl) Texture(kind Kind) Texture {
	return s.textures[kind]
}

func (s *textureSetImpl) Kinds() []Kind {
	return s.kinds
}

func (s *textureSetImpl) Release() {
	for _, kind := range s.kinds {
		s.textures[kind].BindGroupProvider().Release()
	}
}
