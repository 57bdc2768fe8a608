package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapacity(t *testing.T) {
	tests := []struct {
		size, want uint64
	}{
		{0, 0},
		{4, 8},
		{100, 128},
		{1000, 1252},
	}
	for _, tt := range tests {
		got := Capacity(tt.size)
		assert.Equal(t, tt.want, got, "size %d", tt.size)
		assert.GreaterOrEqual(t, got, tt.size)
		assert.Zero(t, got%4)
	}
}

func TestEmptyProvider(t *testing.T) {
	p := NewBindGroupProvider("Frame")
	assert.Equal(t, "Frame", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.BindGroupLayout())
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.VertexBuffer())
	assert.Nil(t, p.IndexBuffer())

	p.Release()
	p.Release()
}

func TestWriteAllSkipsMissingTargets(t *testing.T) {
	p := NewBindGroupProvider("Frame")
	n := WriteAll(nil,
		BufferWrite{Provider: p, Binding: 0, Data: []byte{1, 2, 3, 4}},
		BufferWrite{Provider: nil, Binding: 0, Data: []byte{1}},
		BufferWrite{Provider: p, Binding: 1},
	)
	assert.Zero(t, n)
}
