// Package schema parses YAML type-definition files for script packages.
package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind literals accepted in a type definition.
const (
	KindClass     = "class"
	KindStruct    = "struct"
	KindInterface = "interface"
)

// File is one parsed type-definition document.
type File struct {
	Package string `yaml:"package"`
	Types   []Type `yaml:"types"`
}

// Type describes a single script-defined type.
type Type struct {
	Name       string     `yaml:"name"`
	Kind       string     `yaml:"kind"`
	Prefix     string     `yaml:"prefix,omitempty"`
	Super      string     `yaml:"super,omitempty"`
	Size       int        `yaml:"size,omitempty"`
	Alignment  int        `yaml:"alignment,omitempty"`
	Ops        *Ops       `yaml:"ops,omitempty"`
	Interfaces []string   `yaml:"interfaces,omitempty"`
	Properties []Property `yaml:"properties,omitempty"`
	Functions  []Function `yaml:"functions,omitempty"`
}

// Ops overrides the structural layout of a struct with custom
// native operations (size and alignment as compiled, not as declared).
type Ops struct {
	Size      int `yaml:"size"`
	Alignment int `yaml:"alignment"`
}

// Property describes a data member.
type Property struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Offset     int    `yaml:"offset,omitempty"`
	Deprecated bool   `yaml:"deprecated,omitempty"`
}

// Function describes a callable member.
type Function struct {
	Name   string  `yaml:"name"`
	Params []Param `yaml:"params,omitempty"`
}

// Param describes one function parameter. Default, when non-empty,
// is the literal used when the caller omits the argument.
type Param struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Default string `yaml:"default,omitempty"`
}

// ParseError provides detailed information about definition failures.
type ParseError struct {
	File    string // File name where error occurred
	Type    string // Type name, if known
	Message string // Description of the error
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	where := e.File
	if e.Type != "" {
		where = fmt.Sprintf("%s (type %s)", e.File, e.Type)
	}
	if e.Err != nil {
		return fmt.Sprintf("schema: %s: %s: %v", where, e.Message, e.Err)
	}
	return fmt.Sprintf("schema: %s: %s", where, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes and validates a type-definition document.
// The filename is used for diagnostics only.
func Parse(data []byte, filename string) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &ParseError{File: filename, Message: "invalid YAML", Err: err}
	}

	if err := f.validate(filename); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate(filename string) error {
	seen := make(map[string]bool, len(f.Types))

	for i := range f.Types {
		t := &f.Types[i]
		if t.Name == "" {
			return &ParseError{File: filename, Message: fmt.Sprintf("type #%d has no name", i)}
		}
		if seen[t.Name] {
			return &ParseError{File: filename, Type: t.Name, Message: "duplicate type name"}
		}
		seen[t.Name] = true

		switch t.Kind {
		case KindClass, KindStruct, KindInterface:
		case "":
			return &ParseError{File: filename, Type: t.Name, Message: "missing kind"}
		default:
			return &ParseError{File: filename, Type: t.Name, Message: fmt.Sprintf("unknown kind %q", t.Kind)}
		}

		if len(t.Prefix) > 1 {
			return &ParseError{File: filename, Type: t.Name, Message: fmt.Sprintf("prefix %q must be a single character", t.Prefix)}
		}
		if t.Kind == KindStruct && len(t.Functions) > 0 {
			return &ParseError{File: filename, Type: t.Name, Message: "structs cannot declare functions"}
		}
		if t.Kind == KindInterface && t.Super != "" {
			return &ParseError{File: filename, Type: t.Name, Message: "interfaces cannot declare a super type"}
		}
		if t.Ops != nil && t.Ops.Alignment <= 0 {
			return &ParseError{File: filename, Type: t.Name, Message: "ops.alignment must be positive"}
		}

		props := make(map[string]bool, len(t.Properties))
		for _, p := range t.Properties {
			if p.Name == "" {
				return &ParseError{File: filename, Type: t.Name, Message: "property with no name"}
			}
			if props[p.Name] {
				return &ParseError{File: filename, Type: t.Name, Message: fmt.Sprintf("duplicate property %q", p.Name)}
			}
			props[p.Name] = true
		}

		funcs := make(map[string]bool, len(t.Functions))
		for _, fn := range t.Functions {
			if fn.Name == "" {
				return &ParseError{File: filename, Type: t.Name, Message: "function with no name"}
			}
			if funcs[fn.Name] {
				return &ParseError{File: filename, Type: t.Name, Message: fmt.Sprintf("duplicate function %q", fn.Name)}
			}
			funcs[fn.Name] = true
		}
	}

	return nil
}
