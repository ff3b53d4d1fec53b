package dataset

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// predictedSchema describes the §6 wire shape of a predicted record: a
// nullable-entry robot selection and an ordered action plan whose per-step
// actions map each robot to an [action_type, target...] string array. The
// screen is deliberately structural only; content problems (orphan robots,
// empty steps) are the normalizer's job.
const predictedSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "task_id": {"type": "string"},
    "robot_selection": {
      "type": "array",
      "items": {"type": ["string", "null"]}
    },
    "action_plan": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "step": {"type": "integer"},
          "actions": {
            "type": "object",
            "additionalProperties": {
              "type": "array",
              "items": {"type": "string"},
              "minItems": 1
            }
          }
        },
        "required": ["actions"]
      }
    }
  },
  "required": ["robot_selection", "action_plan"]
}`

var (
	compileOnce      sync.Once
	compiledSchema   *jsonschema.Schema
	compileSchemaErr error
)

func predictedRecordSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var schemaValue any
		if err := json.Unmarshal([]byte(predictedSchema), &schemaValue); err != nil {
			compileSchemaErr = fmt.Errorf("dataset: parse embedded schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("predicted.json", schemaValue); err != nil {
			compileSchemaErr = fmt.Errorf("dataset: add schema resource: %w", err)
			return
		}
		compiledSchema, compileSchemaErr = compiler.Compile("predicted.json")
	})
	return compiledSchema, compileSchemaErr
}

// ValidatePredicted checks a raw predicted record against the wire schema.
func ValidatePredicted(raw []byte) error {
	schema, err := predictedRecordSchema()
	if err != nil {
		return err
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("not valid JSON: %w", err)
	}
	return schema.Validate(value)
}
