package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/person-directory/internal/server"
	"github.com/iota-uz/person-directory/modules/frontend"
	"github.com/iota-uz/person-directory/modules/frontend/services"
	"github.com/iota-uz/person-directory/pkg/application"
	"github.com/iota-uz/person-directory/pkg/configuration"
	"github.com/iota-uz/person-directory/pkg/logging"
)

func newRootCmd(conf *configuration.FrontendConfiguration) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:           "frontend",
		Short:         "Frontend gateway: HTML views over the person service",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), conf)
		},
	}
	if err := configuration.BindFlags(cmd.Flags(), conf); err != nil {
		return nil, err
	}
	return cmd, nil
}

func runServe(ctx context.Context, conf *configuration.FrontendConfiguration) error {
	if err := conf.Setup(); err != nil {
		return err
	}
	logger := conf.Logger()

	if conf.OpenTelemetry.Enabled {
		cleanup := logging.SetupTracing(ctx, conf.OpenTelemetry.ServiceName, conf.OpenTelemetry.CollectorURL)
		defer cleanup()
		logger.Info("OpenTelemetry tracing enabled, exporting to " + conf.OpenTelemetry.CollectorURL)
	}

	app := application.New(&application.ApplicationOptions{Logger: logger})
	if err := application.Load(app, frontend.NewModule(frontend.ModuleOptions{
		PersonURL:       conf.PersonURL,
		Timeout:         conf.UpstreamTimeout,
		Policy:          services.FailurePolicy(conf.UpstreamFailurePolicy),
		RequestIDHeader: conf.RequestIDHeader,
	})); err != nil {
		return errors.Wrap(err, "load modules")
	}

	serverInstance, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: &conf.Configuration,
		Application:   app,
		Service:       "frontend",
	})
	if err != nil {
		return errors.Wrap(err, "create server")
	}
	logger.WithFields(logrus.Fields{
		"person-url": conf.PersonURL,
		"policy":     conf.UpstreamFailurePolicy,
	}).Infof("Listening on: %s", conf.SocketAddress())
	return serverInstance.Start(conf.SocketAddress())
}

func Execute() {
	conf := &configuration.FrontendConfiguration{}
	if err := configuration.Load(conf); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	cmd, err := newRootCmd(conf)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	err = cmd.Execute()
	conf.Unload()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
