package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/hostbridge/hostshim/internal/application"
	"github.com/hostbridge/hostshim/internal/config"
	"github.com/hostbridge/hostshim/internal/logging"
	"github.com/hostbridge/hostshim/internal/options"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("hostshim", "Host process shim - resolves hosting options and launches the target application")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").Required().String()
	rapidFailsFlag := kingpinApp.Flag("rapid-fails", "Permitted child launches per minute before supervision gives up").Default("0").Int()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	source, err := config.LoadYAMLFile(*configFile)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	settings := []application.Option{}
	if *rapidFailsFlag > 0 {
		settings = append(settings, application.WithRapidFails(*rapidFailsFlag))
	}

	app, err := application.New(source, options.OSEnvironment{}, logger, settings...)
	if err != nil {
		logger.Fatal("failed to resolve host options", zap.Error(err))
	}

	ctx := watchSignals(context.Background(), logger)
	if err := app.Run(ctx); err != nil {
		logger.Fatal("host terminated", zap.Error(err))
	}
}

// watchSignals cancels the returned context when the host receives an
// interrupt or termination signal.
func watchSignals(parent context.Context, logger *zap.Logger) context.Context {
	ctx, cancel := context.WithCancel(parent)

	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		logger.Info("shutting down host", zap.String("signal", sig.String()))
		cancel()
	}()

	return ctx
}
