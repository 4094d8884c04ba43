package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// YAMLSource reads configuration from a YAML document whose top-level
// mappings are the sections.
type YAMLSource struct {
	sections map[string]map[string]any
}

// LoadYAMLFile reads and parses the YAML configuration document at path.
func LoadYAMLFile(path string) (*YAMLSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configuration file: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML parses a YAML configuration document.
func ParseYAML(data []byte) (*YAMLSource, error) {
	sections := make(map[string]map[string]any)
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("%w: parse YAML: %v", ErrConfiguration, err)
	}
	return &YAMLSource{sections: sections}, nil
}

// RequiredSection returns the named top-level section.
func (s *YAMLSource) RequiredSection(name string) (Section, error) {
	values, ok := s.sections[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing required section %q", ErrConfiguration, name)
	}
	return &yamlSection{name: name, values: values}, nil
}

type yamlSection struct {
	name   string
	values map[string]any
}

func (s *yamlSection) String(key string) (string, bool) {
	value, ok := s.values[key]
	if !ok {
		return "", false
	}
	return scalarString(value)
}

func (s *yamlSection) RequiredString(key string) (string, error) {
	value, ok := s.String(key)
	if !ok {
		return "", fmt.Errorf("%w: section %q is missing required key %q", ErrConfiguration, s.name, key)
	}
	return value, nil
}

func (s *yamlSection) RequiredBool(key string) (bool, error) {
	raw, ok := s.values[key]
	if !ok {
		return false, fmt.Errorf("%w: section %q is missing required key %q", ErrConfiguration, s.name, key)
	}
	if b, ok := raw.(bool); ok {
		return b, nil
	}
	text, ok := scalarString(raw)
	if ok {
		if b, err := strconv.ParseBool(text); err == nil {
			return b, nil
		}
	}
	return false, fmt.Errorf("%w: key %q in section %q has non-boolean value %v", ErrConfiguration, key, s.name, raw)
}

func (s *yamlSection) KeyValuePairs(key string) map[string]string {
	return s.stringMap(key)
}

func (s *yamlSection) Map(key string) map[string]string {
	return s.stringMap(key)
}

func (s *yamlSection) stringMap(key string) map[string]string {
	out := make(map[string]string)
	nested, ok := s.values[key].(map[string]any)
	if !ok {
		return out
	}
	for name, value := range nested {
		if text, ok := scalarString(value); ok {
			out[name] = text
		}
	}
	return out
}

// scalarString renders a YAML scalar as its string form. Mappings,
// sequences, and null are not scalars.
func scalarString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	default:
		return "", false
	}
}
