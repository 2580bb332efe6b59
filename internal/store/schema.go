package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const recordSchemaURL = "schema://initiation/progress.json"

// recordSchema describes the persisted progress record.
var recordSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"current_gate": map[string]any{
			"type":    "integer",
			"minimum": 1,
			"maximum": 10,
		},
		"completed_gates": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "integer", "minimum": 1, "maximum": 9},
			"uniqueItems": true,
			"maxItems":    9,
		},
		"attempts": map[string]any{
			"type": "object",
			"propertyNames": map[string]any{
				"pattern": "^gate_[1-9]$",
			},
			"additionalProperties": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"submitted": map[string]any{"type": "string"},
						"correct":   map[string]any{"type": "boolean"},
						"timestamp": map[string]any{"type": "string"},
					},
					"required":             []any{"submitted", "correct", "timestamp"},
					"additionalProperties": false,
				},
			},
		},
		"awaiting_host": map[string]any{"type": "boolean"},
		"game_complete": map[string]any{"type": "boolean"},
	},
	"required":             []any{"current_gate", "completed_gates", "attempts", "awaiting_host", "game_complete"},
	"additionalProperties": false,
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// validateRecord checks raw JSON against the progress record schema.
func validateRecord(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := getCompiledSchema()
	if err != nil {
		return fmt.Errorf("compile record schema: %w", err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func getCompiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a parsed JSON value; round-trip the Go literal.
		defBytes, err := json.Marshal(recordSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(recordSchemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(recordSchemaURL)
	})
	return compiledSchema, compileErr
}
