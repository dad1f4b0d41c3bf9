package tool

import (
	"fmt"
	"math"
	"slices"
)

// ParamType enumerates the wire types a tool parameter may declare.
type ParamType string

const (
	TypeString      ParamType = "string"
	TypeInteger     ParamType = "integer"
	TypeNumber      ParamType = "number"
	TypeBoolean     ParamType = "boolean"
	TypeStringArray ParamType = "string_array"
	TypeObjectArray ParamType = "object_array"
)

// Param describes one named tool parameter.
type Param struct {
	Name        string
	Description string
	Type        ParamType
	Required    bool
	// Enum restricts a string parameter to the listed values.
	Enum []string
}

// Schema is the full parameter schema of a tool.
type Schema struct {
	Params []Param
}

// Validate checks args against the schema. It returns a
// *ValidationError naming the first violation found: a missing required
// field, an unknown field, a type mismatch, or a value outside the
// enumerated choices.
func (s Schema) Validate(args map[string]any) error {
	byName := make(map[string]*Param, len(s.Params))
	for i := range s.Params {
		byName[s.Params[i].Name] = &s.Params[i]
	}

	for name := range args {
		if _, ok := byName[name]; !ok {
			return &ValidationError{Field: name, Reason: "unexpected argument"}
		}
	}

	for i := range s.Params {
		p := &s.Params[i]
		v, present := args[p.Name]
		if !present {
			if p.Required {
				return &ValidationError{Field: p.Name, Reason: "required argument missing"}
			}
			continue
		}
		if err := p.check(v); err != nil {
			return err
		}
	}
	return nil
}

// check validates a single value against the parameter. JSON decoding
// yields float64 for every number, so integer parameters accept any
// float64 with an integral value.
func (p *Param) check(v any) error {
	switch p.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return &ValidationError{Field: p.Name, Reason: fmt.Sprintf("expected string, got %T", v)}
		}
		if len(p.Enum) > 0 && !slices.Contains(p.Enum, s) {
			return &ValidationError{Field: p.Name, Reason: fmt.Sprintf("%q is not one of %v", s, p.Enum)}
		}
	case TypeInteger:
		switch n := v.(type) {
		case int:
		case int64:
		case float64:
			if n != math.Trunc(n) {
				return &ValidationError{Field: p.Name, Reason: fmt.Sprintf("expected integer, got %v", n)}
			}
		default:
			return &ValidationError{Field: p.Name, Reason: fmt.Sprintf("expected integer, got %T", v)}
		}
	case TypeNumber:
		switch v.(type) {
		case int, int64, float64:
		default:
			return &ValidationError{Field: p.Name, Reason: fmt.Sprintf("expected number, got %T", v)}
		}
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			return &ValidationError{Field: p.Name, Reason: fmt.Sprintf("expected boolean, got %T", v)}
		}
	case TypeStringArray:
		switch a := v.(type) {
		case []string:
		case []any:
			for _, item := range a {
				if _, ok := item.(string); !ok {
					return &ValidationError{Field: p.Name, Reason: fmt.Sprintf("expected string element, got %T", item)}
				}
			}
		default:
			return &ValidationError{Field: p.Name, Reason: fmt.Sprintf("expected array of strings, got %T", v)}
		}
	case TypeObjectArray:
		a, ok := v.([]any)
		if !ok {
			return &ValidationError{Field: p.Name, Reason: fmt.Sprintf("expected array of objects, got %T", v)}
		}
		for _, item := range a {
			if _, ok := item.(map[string]any); !ok {
				return &ValidationError{Field: p.Name, Reason: fmt.Sprintf("expected object element, got %T", item)}
			}
		}
	default:
		return &ValidationError{Field: p.Name, Reason: fmt.Sprintf("unsupported parameter type %q", p.Type)}
	}
	return nil
}
