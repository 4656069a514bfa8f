// Package catalog holds the static registry of predefined, parameterized
// data-access operations exposed to the question router. Operations are
// registered once at startup and shared read-only across requests; each name
// maps to exactly one SQL template.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

var ErrNotFound = errors.New("catalog: operation not found")

// ErrNotImplemented marks an operation name that passed matching but has no
// registered SQL builder. Distinct from ErrNotFound at the matching stage.
var ErrNotImplemented = errors.New("catalog: operation not implemented")

type ParamType string

const (
	ParamString  ParamType = "string"
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
)

type Parameter struct {
	Name        string    `json:"name"`
	Type        ParamType `json:"type"`
	Required    bool      `json:"required"`
	Description string    `json:"description"`
	Default     any       `json:"default,omitempty"`
}

type Operation struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Parameters  []Parameter `json:"parameters"`
	Examples    []string    `json:"examples"`
}

// SQLBuilder renders the operation's statement from typed, defaulted
// parameter values.
type SQLBuilder func(params map[string]any) (string, error)

type Registry struct {
	ops      map[string]Operation
	builders map[string]SQLBuilder
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{
		ops:      map[string]Operation{},
		builders: map[string]SQLBuilder{},
	}
}

func (r *Registry) Register(op Operation, build SQLBuilder) error {
	name := strings.TrimSpace(op.Name)
	if name == "" {
		return fmt.Errorf("operation name is required")
	}
	if _, exists := r.ops[name]; exists {
		return fmt.Errorf("duplicate operation %q", name)
	}
	r.ops[name] = op
	if build != nil {
		r.builders[name] = build
	}
	r.order = append(r.order, name)
	return nil
}

func (r *Registry) Lookup(name string) (Operation, bool) {
	op, ok := r.ops[strings.TrimSpace(name)]
	return op, ok
}

// List returns operations in registration order.
func (r *Registry) List() []Operation {
	ops := make([]Operation, 0, len(r.order))
	for _, name := range r.order {
		ops = append(ops, r.ops[name])
	}
	return ops
}

func (r *Registry) Len() int {
	return len(r.order)
}

// BuildSQL renders the statement for a matched operation. Parameters must
// already be coerced and defaulted; optional parameters may be absent.
func (r *Registry) BuildSQL(name string, params map[string]any) (string, error) {
	if _, ok := r.ops[name]; !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	build, ok := r.builders[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotImplemented, name)
	}
	return build(params)
}

// CoerceValue converts a raw extracted value into the parameter's declared
// type. Numbers normalize to float64, matching JSON decoding.
func CoerceValue(paramType ParamType, raw any) (any, error) {
	switch paramType {
	case ParamString:
		switch typed := raw.(type) {
		case string:
			return typed, nil
		case float64:
			return strconv.FormatFloat(typed, 'f', -1, 64), nil
		case bool:
			return strconv.FormatBool(typed), nil
		default:
			return nil, fmt.Errorf("cannot coerce %T to string", raw)
		}
	case ParamNumber:
		switch typed := raw.(type) {
		case float64:
			return typed, nil
		case int:
			return float64(typed), nil
		case int64:
			return float64(typed), nil
		case string:
			value, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
			if err != nil {
				return nil, fmt.Errorf("cannot coerce %q to number", typed)
			}
			return value, nil
		default:
			return nil, fmt.Errorf("cannot coerce %T to number", raw)
		}
	case ParamBoolean:
		switch typed := raw.(type) {
		case bool:
			return typed, nil
		case string:
			value, err := strconv.ParseBool(strings.TrimSpace(typed))
			if err != nil {
				return nil, fmt.Errorf("cannot coerce %q to boolean", typed)
			}
			return value, nil
		default:
			return nil, fmt.Errorf("cannot coerce %T to boolean", raw)
		}
	default:
		return nil, fmt.Errorf("unknown parameter type %q", paramType)
	}
}

// ApplyDefaults injects declared defaults for parameters absent from the
// extracted mapping. The input map is not mutated.
func (op Operation) ApplyDefaults(params map[string]any) map[string]any {
	merged := make(map[string]any, len(params)+len(op.Parameters))
	for key, value := range params {
		merged[key] = value
	}
	for _, param := range op.Parameters {
		if _, present := merged[param.Name]; present {
			continue
		}
		if param.Default != nil {
			merged[param.Name] = param.Default
		}
	}
	return merged
}

// MissingRequired lists required parameters with neither an extracted value
// nor a default, sorted for stable messages.
func (op Operation) MissingRequired(params map[string]any) []string {
	var missing []string
	for _, param := range op.Parameters {
		if !param.Required {
			continue
		}
		if _, present := params[param.Name]; !present {
			missing = append(missing, param.Name)
		}
	}
	sort.Strings(missing)
	return missing
}

// Template value helpers shared by SQL builders.

func intParam(params map[string]any, name string, fallback int) int {
	raw, ok := params[name]
	if !ok {
		return fallback
	}
	switch typed := raw.(type) {
	case float64:
		return int(math.Round(typed))
	case int:
		return typed
	case int64:
		return int(typed)
	default:
		return fallback
	}
}

func stringParam(params map[string]any, name string) (string, bool) {
	raw, ok := params[name]
	if !ok {
		return "", false
	}
	value, ok := raw.(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func quoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
