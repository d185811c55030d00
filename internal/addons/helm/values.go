package helm

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Values represents helm chart values as a map.
type Values map[string]any

// Merge combines multiple Values maps with later maps taking precedence.
// The inputs are never modified; the result is a new map.
func Merge(valueMaps ...Values) Values {
	result := make(Values)
	for _, m := range valueMaps {
		for k, v := range m {
			result[k] = v
		}
	}
	return result
}

// DeepMerge combines multiple Values maps recursively. Nested maps are merged
// key by key, while slices and scalars from later maps replace earlier ones.
// The inputs are never modified.
func DeepMerge(valueMaps ...Values) Values {
	result := make(Values)
	for _, m := range valueMaps {
		result = deepMerge(result, m)
	}
	return result
}

func deepMerge(dst, src Values) Values {
	out := make(Values, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		srcMap := toValuesMap(v)
		dstMap := toValuesMap(out[k])
		if srcMap != nil && dstMap != nil {
			out[k] = deepMerge(dstMap, srcMap)
			continue
		}
		out[k] = v
	}
	return out
}

// MergeCustomValues deep merges user supplied values over the built values.
// A nil or empty custom map returns the built values unchanged.
func MergeCustomValues(built Values, custom map[string]any) Values {
	if len(custom) == 0 {
		return built
	}
	return DeepMerge(built, Values(custom))
}

// DeepCopy returns a copy of v that shares no maps or slices with it.
func (v Values) DeepCopy() Values {
	if v == nil {
		return nil
	}
	return deepCopyValue(v).(Values)
}

func deepCopyValue(in any) any {
	switch t := in.(type) {
	case Values:
		out := make(Values, len(t))
		for k, v := range t {
			out[k] = deepCopyValue(v)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = deepCopyValue(v)
		}
		return out
	case []Values:
		out := make([]Values, len(t))
		for i, v := range t {
			out[i] = deepCopyValue(v).(Values)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = deepCopyValue(v)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return in
	}
}

// ToMap converts Values into plain nested map[string]any and []any, the
// shape the Helm engine and the Kubernetes decoders expect.
func (v Values) ToMap() map[string]any {
	if v == nil {
		return map[string]any{}
	}
	return toPlain(v).(map[string]any)
}

func toPlain(in any) any {
	switch t := in.(type) {
	case Values:
		return toPlain(map[string]any(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = toPlain(v)
		}
		return out
	case []Values:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = toPlain(v)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = toPlain(v)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = v
		}
		return out
	default:
		return in
	}
}

// toValuesMap returns v as Values if it is a map, otherwise nil.
func toValuesMap(v any) Values {
	switch m := v.(type) {
	case Values:
		return m
	case map[string]any:
		return Values(m)
	default:
		return nil
	}
}

// ToYAML converts values to YAML bytes.
func (v Values) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(v.ToMap()); err != nil {
		return nil, fmt.Errorf("failed to encode values to YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode values to YAML: %w", err)
	}

	return buf.Bytes(), nil
}

// FromYAML parses YAML bytes into Values.
func FromYAML(data []byte) (Values, error) {
	var values Values
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse YAML values: %w", err)
	}
	if values == nil {
		values = Values{}
	}
	return values, nil
}
