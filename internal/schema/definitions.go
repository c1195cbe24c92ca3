package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// definitionsFile is the YAML shape for external schema definitions:
//
//	schemas:
//	  customs_declaration:
//	    - name: declaration_number
//	      kind: identifier
//	      required: true
//	      constraint: {kind: pattern, pattern: "^[A-Z0-9-]+$"}
type definitionsFile struct {
	Schemas map[DocumentType][]FieldSpec `yaml:"schemas"`
}

// LoadDefinitions builds a registry from a YAML definitions file merged
// over the built-in defaults. A type present in the file replaces the
// built-in schema of the same name wholesale.
func LoadDefinitions(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema definitions %s: %w", path, err)
	}

	var file definitionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse schema definitions %s: %w", path, err)
	}
	if len(file.Schemas) == 0 {
		return nil, fmt.Errorf("schema definitions %s: no schemas defined", path)
	}

	defs := defaultDefinitions()
	for dt, fields := range file.Schemas {
		defs[dt] = fields
	}
	return NewRegistry(defs)
}
