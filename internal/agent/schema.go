package agent

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrSchemaValidation = errors.New("schema_validation_failed")

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	SchemaAction      = "action.schema.json"
	SchemaIntent      = "intent.schema.json"
	SchemaChatter     = "chatter.schema.json"
	SchemaChatterEval = "chatter_eval.schema.json"
)

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

func compileSchemas() (map[string]*jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		names := []string{SchemaAction, SchemaIntent, SchemaChatter, SchemaChatterEval}
		for _, name := range names {
			data, err := schemaFS.ReadFile("schemas/" + name)
			if err != nil {
				schemasErr = err
				return
			}
			if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
				schemasErr = fmt.Errorf("add schema %s: %w", name, err)
				return
			}
		}
		out := make(map[string]*jsonschema.Schema, len(names))
		for _, name := range names {
			s, err := compiler.Compile(name)
			if err != nil {
				schemasErr = fmt.Errorf("compile schema %s: %w", name, err)
				return
			}
			out[name] = s
		}
		schemas = out
	})
	return schemas, schemasErr
}

// CheckSchema validates a decoded reply against one of the embedded schemas.
func CheckSchema(name string, obj map[string]any) error {
	all, err := compileSchemas()
	if err != nil {
		return err
	}
	s, ok := all[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}
	if err := s.Validate(any(obj)); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	return nil
}
