package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/Carmen-Shannon/oxy-city/engine/camera"
	"github.com/Carmen-Shannon/oxy-city/engine/layout"
	"github.com/Carmen-Shannon/oxy-city/engine/scene"
	"github.com/Carmen-Shannon/oxy-city/engine/traffic"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nightDocument(t *testing.T) Document {
	t.Helper()
	s := scene.NewScene(layout.NewGenerator(layout.WithQuiet(true)), scene.WithTheme(common.ThemeNight))
	start := time.Date(2026, 1, 1, 21, 0, 0, 0, time.UTC)
	s.Update(start)
	s.Update(start.Add(3 * time.Second))
	return NewDocument(s, camera.NewCamera())
}

func TestNewDocumentCapturesScene(t *testing.T) {
	doc := nightDocument(t)
	tables := layout.DefaultTables()

	assert.Equal(t, FormatVersion, doc.Version)
	assert.Equal(t, common.ThemeNight, doc.Theme)
	assert.NotEmpty(t, doc.Objects)
	// Ambient, directional, centre point and one per lamp.
	assert.Len(t, doc.Lights, 3+len(tables.Lamps))
	assert.Equal(t, "ambient", doc.Lights[0].Type)
	require.Len(t, doc.Signals, len(tables.TrafficLights))
	for _, s := range doc.Signals {
		assert.Equal(t, traffic.SignalYellow, s)
	}
	assert.Equal(t, camera.DefaultTarget, doc.Camera.Target)
	assert.InDelta(t, camera.DefaultFov, doc.Camera.Fov, 1e-6)
}

func TestEncodeDecode(t *testing.T) {
	doc := nightDocument(t)

	tests := []struct {
		name string
		opts Options
	}{
		{"plain", Options{}},
		{"indented", Options{Indent: true}},
		{"zstd", Options{Zstd: true}},
		{"zstd fastest", Options{Zstd: true, Level: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, doc, tt.opts))
			assert.Equal(t, tt.opts.Zstd, bytes.HasPrefix(buf.Bytes(), zstdMagic))

			got, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, doc, got)
		})
	}
}

func TestZstdIsSmaller(t *testing.T) {
	doc := nightDocument(t)
	var plain, packed bytes.Buffer
	require.NoError(t, Encode(&plain, doc, Options{}))
	require.NoError(t, Encode(&packed, doc, Options{Zstd: true}))
	assert.Less(t, packed.Len(), plain.Len()/4)
}

func TestValidateAcceptsEncodedDocuments(t *testing.T) {
	doc := nightDocument(t)
	for _, opts := range []Options{{}, {Zstd: true}} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, doc, opts))
		assert.NoError(t, Validate(buf.Bytes()), "zstd=%v", opts.Zstd)
	}
}

func TestValidateRejectsSchemaViolations(t *testing.T) {
	doc := nightDocument(t)
	doc.Objects[0].Material.Opacity = 2

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc, Options{}))

	err := Validate(buf.Bytes())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)
	var ve *jsonschema.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestValidateRejectsWrongVersion(t *testing.T) {
	doc := nightDocument(t)
	doc.Version = 7
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc, Options{}))
	assert.ErrorIs(t, Validate(buf.Bytes()), ErrSchema)

	_, err := Decode(bytes.NewReader(buf.Bytes()))
	assert.ErrorContains(t, err, "unsupported scene document version 7")
}

func TestMalformedInputIsNotASchemaError(t *testing.T) {
	err := Validate([]byte("{not json"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSchema))

	_, err = Decode(strings.NewReader(""))
	assert.Error(t, err)
}

func TestSchemaIsEmbedded(t *testing.T) {
	assert.Contains(t, Schema(), `"objects"`)
	_, err := compiledSchema()
	assert.NoError(t, err)
}
