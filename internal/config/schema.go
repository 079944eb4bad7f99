package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON string

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("config.schema.json", schemaJSON)
})

// checkSchema validates the JSON form of a merged settings map.
func checkSchema(raw []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var instance any
	if err := dec.Decode(&instance); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		return schemaErrors(err)
	}
	return nil
}

// schemaErrors flattens a schema failure into one ValidationError per
// leaf cause.
func schemaErrors(err error) ValidationErrors {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return ValidationErrors{{Message: err.Error()}}
	}

	var out ValidationErrors
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, ValidationError{Path: pointerPath(e.InstanceLocation), Message: e.Message})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return out
}

// pointerPath turns a JSON pointer such as "/bindings/0/keys" into
// "bindings.0.keys".
func pointerPath(ptr string) string {
	return strings.ReplaceAll(strings.TrimPrefix(ptr, "/"), "/", ".")
}
