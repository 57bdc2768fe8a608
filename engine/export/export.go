// Package export writes and reads scene dumps: the generated object set plus the camera
// and lighting needed to reproduce a view, as JSON optionally wrapped in zstd.
package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-city/common"
	"github.com/Carmen-Shannon/oxy-city/engine/camera"
	"github.com/Carmen-Shannon/oxy-city/engine/light"
	"github.com/Carmen-Shannon/oxy-city/engine/scene"
	so "github.com/Carmen-Shannon/oxy-city/engine/scene_object"
	"github.com/Carmen-Shannon/oxy-city/engine/traffic"
	"github.com/klauspost/compress/zstd"
)

// FormatVersion is written to every Document and checked by the schema.
const FormatVersion = 1

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// CameraInfo is the view a dump was taken from.
type CameraInfo struct {
	Eye    common.Vec3        `json:"eye"`
	Target common.Vec3        `json:"target"`
	Fov    float32            `json:"fov"`
	State  camera.CameraState `json:"state"`
}

// Document is one scene dump.
type Document struct {
	Version int              `json:"version"`
	Theme   common.Theme     `json:"theme"`
	Camera  CameraInfo       `json:"camera"`
	Clear   common.Color     `json:"clear"`
	Lights  []light.Snapshot `json:"lights"`
	Signals []traffic.Signal `json:"signals,omitempty"`
	Objects []so.SceneObject `json:"objects"`
}

// Options controls how a Document is encoded.
type Options struct {
	// Zstd compresses the JSON with zstd.
	Zstd bool
	// Indent pretty-prints the JSON.
	Indent bool
	// Level is the zstd encoder level; zero means zstd.SpeedDefault.
	Level zstd.EncoderLevel
}

// NewDocument captures the scene and camera as they are now.
//
// Parameters:
//   - s: the scene
//   - cam: the camera
//
// Returns:
//   - Document: the dump
func NewDocument(s scene.Scene, cam camera.Camera) Document {
	cam.Update()
	ctrl := cam.Controller()
	tx, ty, tz := ctrl.Target()

	rig := s.Lights()
	lights := make([]light.Snapshot, 0, 2+len(rig.Points))
	for _, l := range append([]light.Light{rig.Ambient, rig.Directional}, rig.Points...) {
		if l != nil {
			lights = append(lights, light.SnapshotOf(l))
		}
	}

	return Document{
		Version: FormatVersion,
		Theme:   s.Theme(),
		Camera: CameraInfo{
			Eye:    cam.Eye(),
			Target: common.V3(tx, ty, tz),
			Fov:    cam.Fov(),
			State:  ctrl.State(),
		},
		Clear:   s.ClearColor(),
		Lights:  lights,
		Signals: s.Signals(),
		Objects: s.Objects(),
	}
}

// Encode writes doc to w as JSON, compressed when opts.Zstd is set.
//
// Parameters:
//   - w: the destination
//   - doc: the document to write
//   - opts: encoding options
//
// Returns:
//   - error: an encoding or write error
func Encode(w io.Writer, doc Document, opts Options) error {
	if !opts.Zstd {
		return encodeJSON(w, doc, opts.Indent)
	}

	level := opts.Level
	if level == 0 {
		level = zstd.SpeedDefault
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(level))
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	if err := encodeJSON(enc, doc, opts.Indent); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flushing zstd stream: %w", err)
	}
	return nil
}

func encodeJSON(w io.Writer, doc Document, indent bool) error {
	je := json.NewEncoder(w)
	if indent {
		je.SetIndent("", "  ")
	}
	if err := je.Encode(doc); err != nil {
		return fmt.Errorf("encoding scene document: %w", err)
	}
	return nil
}

// Decode reads a Document written by Encode. Compressed input is detected by the zstd
// frame magic.
//
// Parameters:
//   - r: the source
//
// Returns:
//   - Document: the decoded dump
//   - error: a decompression or decoding error
func Decode(r io.Reader) (Document, error) {
	var doc Document
	body, closeFn, err := open(r)
	if err != nil {
		return doc, err
	}
	defer closeFn()

	if err := json.NewDecoder(body).Decode(&doc); err != nil {
		return doc, fmt.Errorf("decoding scene document: %w", err)
	}
	if doc.Version != FormatVersion {
		return doc, fmt.Errorf("unsupported scene document version %d (want %d)", doc.Version, FormatVersion)
	}
	return doc, nil
}

// open returns a reader over the JSON body of r, unwrapping zstd when present.
func open(r io.Reader) (io.Reader, func(), error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, nil, fmt.Errorf("reading scene document: %w", err)
	}
	if !bytes.Equal(head, zstdMagic) {
		return br, func() {}, nil
	}
	dec, err := zstd.NewReader(br)
	if err != nil {
		return nil, nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	return dec, dec.Close, nil
}
