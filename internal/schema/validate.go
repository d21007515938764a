// Package schema provides JSON schema validation for trydeps configuration files.
package schema

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	schemafs "trydeps/schema"
)

var (
	configSchema *jsonschema.Schema
	compileOnce  sync.Once
	compileErr   error
)

// compileConfigSchema compiles the embedded schema once.
func compileConfigSchema() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()

		configData, err := schemafs.FS.ReadFile("config.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("read config schema: %w", err)
			return
		}

		configDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(configData))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal config schema: %w", err)
			return
		}

		if err := compiler.AddResource("config.schema.json", configDoc); err != nil {
			compileErr = fmt.Errorf("add config schema resource: %w", err)
			return
		}

		configSchema, err = compiler.Compile("config.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("compile config schema: %w", err)
		}
	})

	return compileErr
}

// ValidateConfig validates JSON data against the config schema.
func ValidateConfig(data []byte) error {
	if err := compileConfigSchema(); err != nil {
		return err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if err := configSchema.Validate(doc); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}
	return nil
}
