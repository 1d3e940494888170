package main

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/iota-uz/person-directory/internal/server"
	personmodule "github.com/iota-uz/person-directory/modules/person"
	"github.com/iota-uz/person-directory/pkg/application"
	"github.com/iota-uz/person-directory/pkg/configuration"
	"github.com/iota-uz/person-directory/pkg/logging"
)

func runServe(ctx context.Context, conf *configuration.PersonConfiguration) error {
	if err := conf.Setup(); err != nil {
		return err
	}
	logger := conf.Logger()

	if conf.OpenTelemetry.Enabled {
		cleanup := logging.SetupTracing(ctx, conf.OpenTelemetry.ServiceName, conf.OpenTelemetry.CollectorURL)
		defer cleanup()
		logger.Info("OpenTelemetry tracing enabled, exporting to " + conf.OpenTelemetry.CollectorURL)
	}

	st, err := openStore(ctx, &conf.Database)
	if err != nil {
		return err
	}
	defer st.close()

	app := application.New(&application.ApplicationOptions{Logger: logger})
	if err := application.Load(app, personmodule.NewModule(personmodule.ModuleOptions{
		Repository:   st.repo,
		Driver:       conf.Database.Driver,
		ReadyTimeout: conf.ReadyTimeout,
	})); err != nil {
		return errors.Wrap(err, "load modules")
	}

	if conf.Migrate {
		if err := migrateUp(ctx, app, &conf.Database); err != nil {
			return err
		}
	}

	serverInstance, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: &conf.Configuration,
		Application:   app,
		Service:       "person",
	})
	if err != nil {
		return errors.Wrap(err, "create server")
	}
	logger.WithField("driver", conf.Database.Driver).Infof("Listening on: %s", conf.SocketAddress())
	return serverInstance.Start(conf.SocketAddress())
}
