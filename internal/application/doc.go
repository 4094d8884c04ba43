// Package application wires the host together: it resolves the options
// bundle from the configuration source and environment, then runs the
// selected hosting model, keeping the main package focused on CLI
// parsing and signal handling.
package application
