package options

import "os"

// Environment supplies process-wide environment variables. Tests inject
// deterministic implementations instead of touching real process state.
type Environment interface {
	LookupEnv(name string) (string, bool)
}

// OSEnvironment reads the real process environment.
type OSEnvironment struct{}

// LookupEnv reports the named variable's value and presence.
func (OSEnvironment) LookupEnv(name string) (string, bool) {
	return os.LookupEnv(name)
}
