package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrSchema is returned by Validate when a document parses but violates the schema.
// The returned error also wraps the *jsonschema.ValidationError with the details.
var ErrSchema = errors.New("scene document does not match schema")

//go:embed schema/city.schema.json
var schemaSource string

const schemaURL = "city.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString(schemaURL, schemaSource)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compiling scene schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// Schema returns the JSON Schema scene dumps are validated against.
func Schema() string {
	return schemaSource
}

// Validate checks an encoded document, plain or zstd, against the scene schema.
//
// Parameters:
//   - data: the encoded document
//
// Returns:
//   - error: nil if valid; ErrSchema wrapping the violation; or a decoding error
func Validate(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}

	body, closeFn, err := open(bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer closeFn()

	raw, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("reading scene document: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("parsing scene document: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return nil
}
