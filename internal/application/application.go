package application

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/hostbridge/hostshim/internal/config"
	"github.com/hostbridge/hostshim/internal/errorpage"
	"github.com/hostbridge/hostshim/internal/launcher"
	"github.com/hostbridge/hostshim/internal/logging"
	"github.com/hostbridge/hostshim/internal/options"
)

// App holds the resolved options and the dependencies needed to run the
// selected hosting model.
type App struct {
	opts        options.Options
	declaredEnv map[string]string
	logger      *zap.Logger

	rapidFails   int
	errorPageOut io.Writer
}

// Option configures App behaviour.
type Option func(*App)

// WithRapidFails overrides the permitted child launches per minute.
func WithRapidFails(perMinute int) Option {
	return func(a *App) {
		a.rapidFails = perMinute
	}
}

// WithErrorPageOutput redirects the startup error page, primarily for tests.
func WithErrorPageOutput(w io.Writer) Option {
	return func(a *App) {
		a.errorPageOut = w
	}
}

// New resolves the options bundle and prepares the host. Resolution
// failures surface immediately; nothing is launched until Run.
func New(source config.Source, env options.Environment, logger *zap.Logger, settings ...Option) (*App, error) {
	resolved, err := options.Resolve(source, env)
	if err != nil {
		return nil, fmt.Errorf("resolve host options: %w", err)
	}

	app := &App{
		opts:         resolved,
		declaredEnv:  options.DeclaredEnvironment(source),
		logger:       logger,
		errorPageOut: os.Stderr,
	}
	for _, apply := range settings {
		apply(app)
	}
	return app, nil
}

// Options returns the resolved options bundle.
func (a *App) Options() options.Options {
	return a.opts
}

// Run executes the hosting model until ctx is cancelled or the target
// application can no longer be kept running. Startup failures emit the
// error page unless disabled by configuration.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("hosting target application",
		zap.String("hostingModel", a.opts.HostingModel.String()),
		zap.String("processPath", a.opts.ProcessPath),
		zap.Bool("showDetailedErrors", a.opts.ShowDetailedErrors),
	)

	if a.opts.HostingModel == options.InProcess {
		// Exec only returns when replacing the process image failed.
		err := launcher.ExecInProcess(a.opts, a.declaredEnv)
		a.reportStartupFailure(err)
		return err
	}

	supervisorSettings := []launcher.SupervisorOption{}
	if a.rapidFails > 0 {
		supervisorSettings = append(supervisorSettings, launcher.WithRapidFails(a.rapidFails))
	}

	if a.opts.StdoutLogEnabled {
		path := logging.StdoutLogPath(a.opts.StdoutLogFile, time.Now(), os.Getpid())
		file, err := logging.OpenStdoutLog(path)
		if err != nil {
			return fmt.Errorf("prepare stdout log: %w", err)
		}
		defer func() {
			_ = file.Close()
		}()
		a.logger.Info("capturing child stdout", zap.String("file", path))
		supervisorSettings = append(supervisorSettings, launcher.WithOutput(file))
	}

	supervisor := launcher.NewSupervisor(a.opts, a.declaredEnv, a.logger, supervisorSettings...)
	if err := supervisor.Run(ctx); err != nil {
		a.reportStartupFailure(err)
		return err
	}
	return nil
}

func (a *App) reportStartupFailure(err error) {
	if a.opts.DisableStartupErrorPage {
		return
	}
	if renderErr := errorpage.Render(a.errorPageOut, a.opts.ShowDetailedErrors, err); renderErr != nil {
		a.logger.Warn("failed to render startup error page", zap.Error(renderErr))
	}
}
