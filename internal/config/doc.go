// Package config exposes the host configuration document through the
// Source and Section lookup operations. Implementations backed by
// different document formats (YAML files, in-memory maps for tests) are
// interchangeable; callers never see the underlying format.
package config
