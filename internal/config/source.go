package config

// Source provides read access to a loaded configuration document.
type Source interface {
	// RequiredSection returns the named top-level section, or an error
	// wrapping ErrConfiguration when the section is absent.
	RequiredSection(name string) (Section, error)
}

// Section provides typed lookups within one configuration section.
// Required lookups fail with an error wrapping ErrConfiguration; optional
// lookups report presence through their second return value.
type Section interface {
	String(key string) (string, bool)
	RequiredString(key string) (string, error)
	RequiredBool(key string) (bool, error)

	// KeyValuePairs returns the name/value pairs declared under key, or an
	// empty map when the key is absent.
	KeyValuePairs(key string) map[string]string

	// Map returns the mapping declared under key. Lookups on the returned
	// map are strict: probing a missing name yields the zero value and
	// never creates an entry.
	Map(key string) map[string]string
}
