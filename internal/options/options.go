// Package options resolves the immutable options bundle that governs how
// the host launches and supervises the target application: hosting model,
// process invocation, stdout logging, and error-page behaviour. It is the
// single merge point between the aspNetCore configuration section and the
// overlapping environment-variable signals.
package options

import (
	"fmt"
	"strings"

	"github.com/hostbridge/hostshim/internal/config"
)

const (
	sectionName = "aspNetCore"

	keyHostingModel            = "hostingModel"
	keyHandlerSettings         = "handlerSettings"
	keyHandlerVersion          = "handlerVersion"
	keyProcessPath             = "processPath"
	keyArguments               = "arguments"
	keyStdoutLogEnabled        = "stdoutLogEnabled"
	keyStdoutLogFile           = "stdoutLogFile"
	keyDisableStartupErrorPage = "disableStartupErrorPage"
	keyEnvironmentVariables    = "environmentVariables"

	modelOutOfProcess = "outofprocess"
	modelInProcess    = "inprocess"
)

// DefaultArguments is the built-in command line used when the
// configuration omits the arguments key.
const DefaultArguments = ""

// Resolve assembles the options bundle from the required aspNetCore
// section and the ambient environment. It either returns a fully valid
// value or fails with an error wrapping config.ErrConfiguration; no
// partially resolved value is ever exposed.
func Resolve(source config.Source, env Environment) (Options, error) {
	section, err := source.RequiredSection(sectionName)
	if err != nil {
		return Options{}, err
	}

	var opts Options

	model, _ := section.String(keyHostingModel)
	switch {
	case model == "" || strings.EqualFold(model, modelOutOfProcess):
		opts.HostingModel = OutOfProcess
	case strings.EqualFold(model, modelInProcess):
		opts.HostingModel = InProcess
	default:
		return Options{}, fmt.Errorf(
			"%w: unknown hosting model %q, specify either hostingModel=%q or hostingModel=%q",
			config.ErrConfiguration, model, modelInProcess, modelOutOfProcess)
	}

	if opts.HostingModel == OutOfProcess {
		opts.HandlerVersion = section.KeyValuePairs(keyHandlerSettings)[keyHandlerVersion]
	}

	if opts.ProcessPath, err = section.RequiredString(keyProcessPath); err != nil {
		return Options{}, err
	}
	if args, ok := section.String(keyArguments); ok {
		opts.Arguments = args
	} else {
		opts.Arguments = DefaultArguments
	}
	if opts.StdoutLogEnabled, err = section.RequiredBool(keyStdoutLogEnabled); err != nil {
		return Options{}, err
	}
	if opts.StdoutLogFile, err = section.RequiredString(keyStdoutLogFile); err != nil {
		return Options{}, err
	}
	if opts.DisableStartupErrorPage, err = section.RequiredBool(keyDisableStartupErrorPage); err != nil {
		return Options{}, err
	}

	opts.ShowDetailedErrors = detailedErrorsEnabled(section, env)

	return opts, nil
}

// DeclaredEnvironment returns the environment variables declared in the
// aspNetCore configuration section, to be applied to the launched child.
// Absence of the section or key yields an empty map, never an error.
func DeclaredEnvironment(source config.Source) map[string]string {
	section, err := source.RequiredSection(sectionName)
	if err != nil {
		return map[string]string{}
	}
	return section.Map(keyEnvironmentVariables)
}

// detailedErrorsEnabled derives the detailed-errors flag from three
// signals, each the OR of the OS environment and the configuration-
// declared environment map. Missing values contribute false; this
// derivation never fails.
func detailedErrorsEnabled(section config.Section, env Environment) bool {
	declared := section.Map(keyEnvironmentVariables)

	detailed := isEnabled(envValue(env, "ASPNETCORE_DETAILEDERRORS")) ||
		isEnabled(declared["ASPNETCORE_DETAILEDERRORS"])
	aspnetDevelopment := isDevelopment(envValue(env, "ASPNETCORE_ENVIRONMENT")) ||
		isDevelopment(declared["ASPNETCORE_ENVIRONMENT"])
	dotnetDevelopment := isDevelopment(envValue(env, "DOTNET_ENVIRONMENT")) ||
		isDevelopment(declared["DOTNET_ENVIRONMENT"])

	return detailed || aspnetDevelopment || dotnetDevelopment
}

func envValue(env Environment, name string) string {
	value, _ := env.LookupEnv(name)
	return value
}

func isEnabled(value string) bool {
	return strings.EqualFold(value, "1") || strings.EqualFold(value, "true")
}

// isDevelopment matches only the exact literal "Development"; no other
// environment name ever enables detailed errors.
func isDevelopment(value string) bool {
	return strings.EqualFold(value, "Development")
}
