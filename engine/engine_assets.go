package engine

import _ "embed"

// instancedVertexSource draws one textured mesh per instance with the camera uniform.
//
//go:embed assets/shaders/instanced.vert.wgsl
var instancedVertexSource string

//go:embed assets/shaders/instanced.frag.wgsl
var instancedFragmentSource string
