// Package launcher builds and supervises the target application process
// according to the resolved options: out-of-process hosting launches a
// supervised child, in-process hosting replaces the host's own process
// image.
package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"
	"unicode"

	"github.com/hostbridge/hostshim/internal/options"
)

// Command builds the child invocation for out-of-process hosting.
// Entries in declaredEnv override inherited variables of the same name.
func Command(ctx context.Context, opts options.Options, declaredEnv map[string]string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, opts.ProcessPath, SplitArguments(opts.Arguments)...)
	cmd.Env = mergeEnv(os.Environ(), declaredEnv)
	return cmd
}

// ExecInProcess replaces the current process image with the target
// application. It only returns on failure.
func ExecInProcess(opts options.Options, declaredEnv map[string]string) error {
	path, err := exec.LookPath(opts.ProcessPath)
	if err != nil {
		return fmt.Errorf("locate process path: %w", err)
	}

	argv := append([]string{path}, SplitArguments(opts.Arguments)...)
	if err := syscall.Exec(path, argv, mergeEnv(os.Environ(), declaredEnv)); err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}
	return nil
}

// SplitArguments splits a command line on whitespace; double quotes
// group a single argument. Full shell quoting is intentionally not
// supported.
func SplitArguments(commandLine string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false
	pending := false

	for _, r := range commandLine {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			pending = true
		case unicode.IsSpace(r) && !inQuotes:
			if pending {
				args = append(args, current.String())
				current.Reset()
				pending = false
			}
		default:
			current.WriteRune(r)
			pending = true
		}
	}
	if pending {
		args = append(args, current.String())
	}
	return args
}

func mergeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}

	merged := make([]string, 0, len(base)+len(overrides))
	for _, entry := range base {
		name, _, _ := strings.Cut(entry, "=")
		if _, shadowed := overrides[name]; shadowed {
			continue
		}
		merged = append(merged, entry)
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		merged = append(merged, name+"="+overrides[name])
	}
	return merged
}
