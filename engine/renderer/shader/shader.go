package shader

import (
	"fmt"
	"log"

	"github.com/cogentcore/webgpu/wgpu"
)

// shader is the implementation of the Shader interface.
type shader struct {
	key          string
	source       string
	declarations []Annotation
	bindings     map[string][2]int
}

// Shader is a pre-processed WGSL module ready for pipeline creation.
type Shader interface {
	// Key returns the shader's label.
	Key() string

	// Source returns the processed WGSL source.
	Source() string

	// Module returns a descriptor for device.CreateShaderModule.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the module descriptor
	Module() *wgpu.ShaderModuleDescriptor

	// Binding looks up the group and binding generated for a variable name.
	//
	// Parameters:
	//   - varName: the variable name from an @oxy:group annotation
	//
	// Returns:
	//   - group, binding: the indices
	//   - bool: false if no declaration names varName
	Binding(varName string) (group, binding int, ok bool)

	// Declarations returns the binding declarations in source order.
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader pre-processes source with pp.
//
// Parameters:
//   - key: the shader label
//   - source: the raw WGSL source
//   - pp: the pre-processor holding the struct registry
//
// Returns:
//   - Shader: the processed shader
//   - error: an annotation error
func NewShader(key, source string, pp PreProcessor) (Shader, error) {
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("pre-processing %s: %w", key, err)
	}
	s := &shader{
		key:          key,
		source:       processed,
		declarations: append([]Annotation(nil), pp.Declarations()...),
		bindings:     make(map[string][2]int),
	}
	for _, d := range s.declarations {
		s.bindings[string(d.Args[1])] = [2]int{*d.Group, *d.Binding}
	}
	log.Printf("[Shader] %s: %d bindings", key, len(s.bindings))
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return &wgpu.ShaderModuleDescriptor{
		Label:          s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: s.source},
	}
}

func (s *shader) Binding(varName string) (int, int, bool) {
	b, ok := s.bindings[varName]
	return b[0], b[1], ok
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}
