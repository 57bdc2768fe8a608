package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lampStruct = `struct Lamp {
    position: vec3<f32>,
    range: f32,
};`

func testPreProcessor() PreProcessor {
	return NewPreProcessor(
		WithStruct("lamp", "Lamp", lampStruct+"\n"),
		WithStruct("globals", "Globals", "struct Globals {\n    time: f32,\n};"),
	)
}

func TestProcessExpandsAnnotations(t *testing.T) {
	src := strings.Join([]string{
		"//@oxy:include lamp",
		"//@oxy:include globals",
		"// @oxy:include lamp",
		"//@oxy:group 0 0 uniform globals globals",
		"//@oxy:group 0 1 storage_read lamps array<lamp>",
		"fn main() {}",
	}, "\n")

	pp := testPreProcessor()
	out, err := pp.Process(src)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "struct Lamp {"))
	assert.Contains(t, out, "struct Globals {")
	assert.Contains(t, out, "@group(0) @binding(0) var<uniform> globals: Globals;")
	assert.Contains(t, out, "@group(0) @binding(1) var<storage, read> lamps: array<Lamp>;")
	assert.Contains(t, out, "fn main() {}")
	assert.NotContains(t, out, "@oxy:")

	decl := pp.Declarations()
	require.Len(t, decl, 2)
	assert.Equal(t, AnnotationArg("globals"), decl[0].Args[1])
	assert.Equal(t, 1, *decl[1].Binding)
}

func TestProcessErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"empty", "//@oxy:", "empty"},
		{"unknown kind", "//@oxy:provider 0 0 x", "unknown @oxy annotation"},
		{"unknown include", "//@oxy:include camera", "unknown struct type"},
		{"include arity", "//@oxy:include", "exactly one argument"},
		{"group arity", "//@oxy:group 0 0 uniform frame", "requires group"},
		{"bad group", "//@oxy:group x 0 uniform g globals", "invalid group"},
		{"bad binding", "//@oxy:group 0 -1 uniform g globals", "invalid binding"},
		{"address space", "//@oxy:group 0 0 push g globals", "unknown address space"},
		{"unknown type", "//@oxy:group 0 0 uniform g array<frame>", "unknown struct type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testPreProcessor().Process("fn a() {}\n" + tt.line)
			require.Error(t, err)
			assert.ErrorContains(t, err, "line 2")
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestAnnotationOutsideCommentIsIgnored(t *testing.T) {
	out, err := testPreProcessor().Process(`let s = "@oxy:include lamp";`)
	require.NoError(t, err)
	assert.Equal(t, `let s = "@oxy:include lamp";`, out)
}

func TestNewShader(t *testing.T) {
	s, err := NewShader("test.wgsl", "//@oxy:include globals\n//@oxy:group 1 2 uniform globals globals", testPreProcessor())
	require.NoError(t, err)

	group, binding, ok := s.Binding("globals")
	assert.True(t, ok)
	assert.Equal(t, 1, group)
	assert.Equal(t, 2, binding)
	_, _, ok = s.Binding("missing")
	assert.False(t, ok)

	mod := s.Module()
	assert.Equal(t, "test.wgsl", mod.Label)
	assert.Equal(t, s.Source(), mod.WGSLDescriptor.Code)

	_, err = NewShader("bad.wgsl", "//@oxy:include nope", testPreProcessor())
	assert.ErrorContains(t, err, "pre-processing bad.wgsl")
}
