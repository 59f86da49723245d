package shader

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
)

// ShaderType identifies the pipeline stage a shader module feeds.
type ShaderType int

const (
	// ShaderTypeVertex is a module with a @vertex entry point.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is a module with a @fragment entry point.
	ShaderTypeFragment
)

// String returns the lowercase stage name.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// ErrNoEntryPoint is returned when the source has no entry point for the requested stage.
var ErrNoEntryPoint = errors.New("shader has no entry point for its stage")

type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	entryPoint                 string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	vertexLayouts              []wgpu.VertexBufferLayout
	declarations               []Annotation
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader is a pre-processed WGSL module together with the pipeline metadata parsed from it.
type Shader interface {
	// Key returns the unique identifier the shader was created with.
	Key() string

	// Source returns the pre-processed WGSL source.
	Source() string

	// ShaderType returns the stage this shader feeds.
	ShaderType() ShaderType

	// EntryPoint returns the name of the stage's entry point function.
	EntryPoint() string

	// Module returns the descriptor used to create the GPU shader module.
	Module() *wgpu.ShaderModuleDescriptor

	// VertexLayouts returns the vertex buffer layouts ordered by buffer slot. Fragment shaders
	// return nil.
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptor returns the layout descriptor for a group, or an empty
	// descriptor if the shader declares nothing in that group.
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors returns all layout descriptors keyed by group index.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// Declarations returns the group and provider annotations found in the source.
	Declarations() []Annotation

	// GroupOf finds the bind group bound to a struct type or provider identity.
	//
	// Parameters:
	//   - arg: a struct type such as AnnotationArgCamera, or a provider identity such as AnnotationArgTexture
	//
	// Returns:
	//   - int: the group index
	//   - bool: false if no declaration matches
	GroupOf(arg AnnotationArg) (int, bool)

	// BindingOf finds the group and binding of a provider binding with the given role.
	//
	// Parameters:
	//   - identity: the provider identity
	//   - role: the binding role within the provider
	//
	// Returns:
	//   - int: the group index
	//   - int: the binding index
	//   - bool: false if no declaration matches
	BindingOf(identity, role AnnotationArg) (int, int, bool)

	// Validate compiles the source with the naga WGSL front end.
	//
	// Returns:
	//   - error: the compiler error, or nil if the source compiled
	Validate() error
}

var _ Shader = &shader{}

// NewShader pre-processes WGSL source and parses its entry point, vertex layouts and bind
// group layouts.
//
// Parameters:
//   - key: a unique identifier used for labels and pipeline lookups
//   - shaderType: the stage the source is written for
//   - source: WGSL source, possibly containing @oxy: annotations
//
// Returns:
//   - Shader: the parsed shader
//   - error: an annotation error, or ErrNoEntryPoint if the stage's entry point is missing
func NewShader(key string, shaderType ShaderType, source string) (Shader, error) {
	pp := NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("failed to pre-process shader %q: %w", key, err)
	}

	entryPoint := parseEntryPoint(processed, shaderType)
	if entryPoint == "" {
		return nil, fmt.Errorf("shader %q (%s): %w", key, shaderType, ErrNoEntryPoint)
	}

	s := &shader{
		key:          key,
		source:       processed,
		shaderType:   shaderType,
		entryPoint:   entryPoint,
		declarations: pp.Declarations(),
		module: &wgpu.ShaderModuleDescriptor{
			Label:          key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: processed},
		},
	}

	visibility := wgpu.ShaderStageFragment
	if shaderType == ShaderTypeVertex {
		visibility = wgpu.ShaderStageVertex
		s.vertexLayouts = parseVertexLayouts(processed)
	}
	s.bindGroupLayoutDescriptors = parseBindGroupLayouts(processed, visibility)
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}

func (s *shader) GroupOf(arg AnnotationArg) (int, bool) {
	for _, decl := range s.declarations {
		switch decl.Type {
		case AnnotationTypeBindingGroup:
			if decl.Args[2] == arg {
				return *decl.Group, true
			}
		case AnnotationTypeProvider:
			if decl.Args[0] == arg {
				return *decl.Group, true
			}
		}
	}
	return 0, false
}

func (s *shader) BindingOf(identity, role AnnotationArg) (int, int, bool) {
	for _, decl := range s.declarations {
		if decl.Type != AnnotationTypeProvider || len(decl.Args) < 2 {
			continue
		}
		if decl.Args[0] == identity && decl.Args[1] == role {
			return *decl.Group, *decl.Binding, true
		}
	}
	return 0, 0, false
}

func (s *shader) Validate() error {
	if _, err := naga.Compile(s.source); err != nil {
		return fmt.Errorf("shader %q failed validation: %w", s.key, err)
	}
	return nil
}
