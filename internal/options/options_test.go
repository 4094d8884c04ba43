package options

import (
	"errors"
	"strings"
	"testing"

	"github.com/hostbridge/hostshim/internal/config"
)

type fakeEnv map[string]string

func (e fakeEnv) LookupEnv(name string) (string, bool) {
	value, ok := e[name]
	return value, ok
}

// validSource builds a minimal valid aspNetCore section; mutate adjusts
// it per test case.
func validSource(mutate func(*config.MemorySection)) *config.MemorySource {
	section := &config.MemorySection{
		Values: map[string]string{
			"hostingModel":            "outofprocess",
			"processPath":             "dotnet",
			"arguments":               "app.dll",
			"stdoutLogEnabled":        "true",
			"stdoutLogFile":           "log.txt",
			"disableStartupErrorPage": "false",
		},
		Nested: map[string]map[string]string{},
	}
	if mutate != nil {
		mutate(section)
	}
	return &config.MemorySource{
		Sections: map[string]*config.MemorySection{"aspNetCore": section},
	}
}

func TestResolveHostingModel(t *testing.T) {
	cases := []struct {
		value string
		want  HostingModel
	}{
		{"", OutOfProcess},
		{"outofprocess", OutOfProcess},
		{"OutOfProcess", OutOfProcess},
		{"OUTOFPROCESS", OutOfProcess},
		{"inprocess", InProcess},
		{"InProcess", InProcess},
		{"INPROCESS", InProcess},
	}

	for _, tc := range cases {
		t.Run("value "+tc.value, func(t *testing.T) {
			source := validSource(func(s *config.MemorySection) {
				s.Values["hostingModel"] = tc.value
			})
			opts, err := Resolve(source, fakeEnv{})
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if opts.HostingModel != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, opts.HostingModel)
			}
		})
	}

	t.Run("key omitted entirely", func(t *testing.T) {
		source := validSource(func(s *config.MemorySection) {
			delete(s.Values, "hostingModel")
		})
		opts, err := Resolve(source, fakeEnv{})
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if opts.HostingModel != OutOfProcess {
			t.Fatalf("expected OutOfProcess default, got %v", opts.HostingModel)
		}
	})
}

func TestResolveUnknownHostingModel(t *testing.T) {
	source := validSource(func(s *config.MemorySection) {
		s.Values["hostingModel"] = "foo"
	})

	_, err := Resolve(source, fakeEnv{})
	if !errors.Is(err, config.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	for _, fragment := range []string{"foo", "inprocess", "outofprocess"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected error message to contain %q, got %q", fragment, err)
		}
	}
}

func TestResolveHandlerVersion(t *testing.T) {
	t.Run("out-of-process reads handler settings", func(t *testing.T) {
		source := validSource(func(s *config.MemorySection) {
			s.Nested["handlerSettings"] = map[string]string{"handlerVersion": "2.1"}
		})
		opts, err := Resolve(source, fakeEnv{})
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if opts.HandlerVersion != "2.1" {
			t.Fatalf("expected handler version 2.1, got %q", opts.HandlerVersion)
		}
	})

	t.Run("absent setting resolves to empty", func(t *testing.T) {
		opts, err := Resolve(validSource(nil), fakeEnv{})
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if opts.HandlerVersion != "" {
			t.Fatalf("expected empty handler version, got %q", opts.HandlerVersion)
		}
	})

	t.Run("in-process ignores handler settings", func(t *testing.T) {
		source := validSource(func(s *config.MemorySection) {
			s.Values["hostingModel"] = "inprocess"
			s.Nested["handlerSettings"] = map[string]string{"handlerVersion": "2.1"}
		})
		opts, err := Resolve(source, fakeEnv{})
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if opts.HandlerVersion != "" {
			t.Fatalf("expected empty handler version for in-process, got %q", opts.HandlerVersion)
		}
	})
}

func TestResolveLaunchParameters(t *testing.T) {
	t.Run("process path echoed verbatim", func(t *testing.T) {
		opts, err := Resolve(validSource(nil), fakeEnv{})
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if opts.ProcessPath != "dotnet" {
			t.Fatalf("unexpected process path: %q", opts.ProcessPath)
		}
		if opts.Arguments != "app.dll" {
			t.Fatalf("unexpected arguments: %q", opts.Arguments)
		}
	})

	t.Run("missing process path fails", func(t *testing.T) {
		source := validSource(func(s *config.MemorySection) {
			delete(s.Values, "processPath")
		})
		_, err := Resolve(source, fakeEnv{})
		if !errors.Is(err, config.ErrConfiguration) {
			t.Fatalf("expected ErrConfiguration, got %v", err)
		}
		if !strings.Contains(err.Error(), "processPath") {
			t.Fatalf("expected error to name processPath, got %q", err)
		}
	})

	t.Run("missing arguments use the built-in default", func(t *testing.T) {
		source := validSource(func(s *config.MemorySection) {
			delete(s.Values, "arguments")
		})
		opts, err := Resolve(source, fakeEnv{})
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if opts.Arguments != DefaultArguments {
			t.Fatalf("expected default arguments, got %q", opts.Arguments)
		}
	})
}

func TestResolveRequiredFlags(t *testing.T) {
	for _, key := range []string{"stdoutLogEnabled", "stdoutLogFile", "disableStartupErrorPage"} {
		t.Run("missing "+key, func(t *testing.T) {
			source := validSource(func(s *config.MemorySection) {
				delete(s.Values, key)
			})
			_, err := Resolve(source, fakeEnv{})
			if !errors.Is(err, config.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
			if !strings.Contains(err.Error(), key) {
				t.Fatalf("expected error to name %q, got %q", key, err)
			}
		})
	}

	t.Run("non-boolean flag fails", func(t *testing.T) {
		source := validSource(func(s *config.MemorySection) {
			s.Values["stdoutLogEnabled"] = "always"
		})
		_, err := Resolve(source, fakeEnv{})
		if !errors.Is(err, config.ErrConfiguration) {
			t.Fatalf("expected ErrConfiguration, got %v", err)
		}
	})
}

func TestResolveMissingSection(t *testing.T) {
	source := &config.MemorySource{Sections: map[string]*config.MemorySection{}}
	if _, err := Resolve(source, fakeEnv{}); !errors.Is(err, config.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestShowDetailedErrors(t *testing.T) {
	cases := []struct {
		name     string
		env      fakeEnv
		declared map[string]string
		want     bool
	}{
		{"nothing set", fakeEnv{}, nil, false},
		{"os detailed errors true", fakeEnv{"ASPNETCORE_DETAILEDERRORS": "true"}, nil, true},
		{"os detailed errors 1", fakeEnv{"ASPNETCORE_DETAILEDERRORS": "1"}, nil, true},
		{"os detailed errors mixed case", fakeEnv{"ASPNETCORE_DETAILEDERRORS": "TRUE"}, nil, true},
		{"os detailed errors 0", fakeEnv{"ASPNETCORE_DETAILEDERRORS": "0"}, nil, false},
		{"os aspnetcore development", fakeEnv{"ASPNETCORE_ENVIRONMENT": "Development"}, nil, true},
		{"os aspnetcore development lowercase", fakeEnv{"ASPNETCORE_ENVIRONMENT": "development"}, nil, true},
		{"os aspnetcore staging", fakeEnv{"ASPNETCORE_ENVIRONMENT": "Staging"}, nil, false},
		{"os dotnet development", fakeEnv{"DOTNET_ENVIRONMENT": "DEVELOPMENT"}, nil, true},
		{"declared detailed errors", fakeEnv{}, map[string]string{"ASPNETCORE_DETAILEDERRORS": "true"}, true},
		{"declared aspnetcore development", fakeEnv{}, map[string]string{"ASPNETCORE_ENVIRONMENT": "Development"}, true},
		{"declared dotnet development", fakeEnv{}, map[string]string{"DOTNET_ENVIRONMENT": "development"}, true},
		{"declared staging", fakeEnv{}, map[string]string{"ASPNETCORE_ENVIRONMENT": "Staging", "DOTNET_ENVIRONMENT": "Production"}, false},
		{"either source wins", fakeEnv{"ASPNETCORE_ENVIRONMENT": "Production"}, map[string]string{"DOTNET_ENVIRONMENT": "Development"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			source := validSource(func(s *config.MemorySection) {
				if tc.declared != nil {
					s.Nested["environmentVariables"] = tc.declared
				}
			})
			opts, err := Resolve(source, tc.env)
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if opts.ShowDetailedErrors != tc.want {
				t.Fatalf("expected ShowDetailedErrors=%v, got %v", tc.want, opts.ShowDetailedErrors)
			}
		})
	}
}

func TestResolveScenarios(t *testing.T) {
	t.Run("in-process development via declared environment", func(t *testing.T) {
		source := validSource(func(s *config.MemorySection) {
			s.Values["hostingModel"] = "inprocess"
			delete(s.Values, "arguments")
			s.Nested["environmentVariables"] = map[string]string{"ASPNETCORE_ENVIRONMENT": "Development"}
		})

		opts, err := Resolve(source, fakeEnv{})
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if opts.HostingModel != InProcess {
			t.Fatalf("expected InProcess, got %v", opts.HostingModel)
		}
		if opts.HandlerVersion != "" {
			t.Fatalf("expected empty handler version, got %q", opts.HandlerVersion)
		}
		if opts.Arguments != DefaultArguments {
			t.Fatalf("expected default arguments, got %q", opts.Arguments)
		}
		if !opts.ShowDetailedErrors {
			t.Fatalf("expected detailed errors enabled")
		}
		if !opts.StdoutLogEnabled || opts.StdoutLogFile != "log.txt" || opts.DisableStartupErrorPage {
			t.Fatalf("unexpected flags: %+v", opts)
		}
	})

	t.Run("hosting model omitted with handler version", func(t *testing.T) {
		source := validSource(func(s *config.MemorySection) {
			delete(s.Values, "hostingModel")
			s.Values["processPath"] = "w3wp"
			s.Nested["handlerSettings"] = map[string]string{"handlerVersion": "1.0"}
		})

		opts, err := Resolve(source, fakeEnv{})
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if opts.HostingModel != OutOfProcess {
			t.Fatalf("expected OutOfProcess, got %v", opts.HostingModel)
		}
		if opts.HandlerVersion != "1.0" {
			t.Fatalf("expected handler version 1.0, got %q", opts.HandlerVersion)
		}
		if opts.ProcessPath != "w3wp" {
			t.Fatalf("unexpected process path: %q", opts.ProcessPath)
		}
	})
}

func TestDeclaredEnvironment(t *testing.T) {
	source := validSource(func(s *config.MemorySection) {
		s.Nested["environmentVariables"] = map[string]string{"APP_MODE": "shim"}
	})

	if got := DeclaredEnvironment(source); got["APP_MODE"] != "shim" {
		t.Fatalf("unexpected declared environment: %v", got)
	}

	empty := &config.MemorySource{Sections: map[string]*config.MemorySection{}}
	if got := DeclaredEnvironment(empty); len(got) != 0 {
		t.Fatalf("expected empty map for a missing section, got %v", got)
	}
}
