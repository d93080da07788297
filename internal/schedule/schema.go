package schedule

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schedule.schema.json
var schemaJSON []byte

const schemaURL = "schedule.schema.json"

var (
	compiledSchema *jsonschema.Schema
	compileErr     error
	compileOnce    sync.Once
)

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// SchemaJSON returns the JSON Schema describing a serialized ParsedSchedule
func SchemaJSON() []byte {
	return append([]byte(nil), schemaJSON...)
}

// ValidateJSON checks that data is a well-formed serialized ParsedSchedule
func ValidateJSON(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal schedule: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("schedule does not match schema: %w", err)
	}
	return nil
}

// DecodeJSON validates data against the schema and decodes it
func DecodeJSON(data []byte) (*ParsedSchedule, error) {
	if err := ValidateJSON(data); err != nil {
		return nil, err
	}

	var s ParsedSchedule
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	return &s, nil
}
