package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/hostbridge/hostshim/internal/options"
)

// ErrRapidFail indicates the child exited too often and supervision gave up.
var ErrRapidFail = errors.New("child process failed too rapidly")

// Supervisor keeps the out-of-process child running: it relaunches the
// child whenever it exits, until the context is cancelled or rapid-fail
// protection trips.
type Supervisor struct {
	opts        options.Options
	declaredEnv map[string]string
	logger      *zap.Logger
	throttle    restartThrottle
	output      io.Writer
}

// SupervisorOption configures Supervisor behaviour.
type SupervisorOption func(*Supervisor)

// WithRapidFails overrides the permitted child launches per minute.
func WithRapidFails(perMinute int) SupervisorOption {
	return func(s *Supervisor) {
		s.throttle = newRapidFailThrottle(perMinute)
	}
}

// WithOutput redirects the child's stdout and stderr, typically to the
// stdout log file.
func WithOutput(w io.Writer) SupervisorOption {
	return func(s *Supervisor) {
		s.output = w
	}
}

// NewSupervisor constructs a Supervisor for the resolved options.
func NewSupervisor(opts options.Options, declaredEnv map[string]string, logger *zap.Logger, settings ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		opts:        opts,
		declaredEnv: declaredEnv,
		logger:      logger,
		throttle:    newRapidFailThrottle(defaultRapidFailsPerMinute),
	}
	for _, apply := range settings {
		apply(s)
	}
	return s
}

// Run launches and supervises the child until ctx is cancelled. It
// returns nil on cancellation, a launch error when the child cannot be
// started, and ErrRapidFail when restarts exhaust the throttle.
func (s *Supervisor) Run(ctx context.Context) error {
	for {
		if !s.throttle.Allow() {
			return fmt.Errorf("%w: %s", ErrRapidFail, s.opts.ProcessPath)
		}

		cmd := Command(ctx, s.opts, s.declaredEnv)
		if s.output != nil {
			cmd.Stdout = s.output
			cmd.Stderr = s.output
		} else {
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
		}

		s.logger.Info("launching child process",
			zap.String("path", s.opts.ProcessPath),
			zap.String("arguments", s.opts.Arguments),
		)

		if err := cmd.Start(); err != nil {
			return fmt.Errorf("start %s: %w", s.opts.ProcessPath, err)
		}

		err := cmd.Wait()
		if ctx.Err() != nil {
			s.logger.Info("supervision cancelled", zap.Int("pid", cmd.Process.Pid))
			return nil
		}
		if err != nil {
			s.logger.Warn("child process exited", zap.Int("pid", cmd.Process.Pid), zap.Error(err))
		} else {
			s.logger.Warn("child process exited cleanly", zap.Int("pid", cmd.Process.Pid))
		}
	}
}
