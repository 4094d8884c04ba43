package config

import (
	"fmt"
	"strconv"
)

// MemorySource is an in-memory Source used by tests and embedders that
// assemble configuration programmatically.
type MemorySource struct {
	Sections map[string]*MemorySection
}

// MemorySection holds one section's scalar values and nested mappings.
type MemorySection struct {
	Name   string
	Values map[string]string
	Nested map[string]map[string]string
}

// RequiredSection returns the named section.
func (s *MemorySource) RequiredSection(name string) (Section, error) {
	section, ok := s.Sections[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing required section %q", ErrConfiguration, name)
	}
	if section.Name == "" {
		section.Name = name
	}
	return section, nil
}

func (s *MemorySection) String(key string) (string, bool) {
	value, ok := s.Values[key]
	return value, ok
}

func (s *MemorySection) RequiredString(key string) (string, error) {
	value, ok := s.Values[key]
	if !ok {
		return "", fmt.Errorf("%w: section %q is missing required key %q", ErrConfiguration, s.Name, key)
	}
	return value, nil
}

func (s *MemorySection) RequiredBool(key string) (bool, error) {
	value, ok := s.Values[key]
	if !ok {
		return false, fmt.Errorf("%w: section %q is missing required key %q", ErrConfiguration, s.Name, key)
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: key %q in section %q has non-boolean value %q", ErrConfiguration, key, s.Name, value)
	}
	return b, nil
}

func (s *MemorySection) KeyValuePairs(key string) map[string]string {
	return s.nested(key)
}

func (s *MemorySection) Map(key string) map[string]string {
	return s.nested(key)
}

func (s *MemorySection) nested(key string) map[string]string {
	out := make(map[string]string, len(s.Nested[key]))
	for name, value := range s.Nested[key] {
		out[name] = value
	}
	return out
}
