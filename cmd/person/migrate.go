package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/iota-uz/person-directory/modules/person/infrastructure/persistence"
	"github.com/iota-uz/person-directory/pkg/application"
	"github.com/iota-uz/person-directory/pkg/configuration"
)

func newMigrateCmd(conf *configuration.PersonConfiguration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the person schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrations(cmd.Context(), conf, migrateUp)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrations(cmd.Context(), conf, migrateDown)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print applied and pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrations(cmd.Context(), conf, migrateStatus)
			},
		},
	)
	return cmd
}

type migrationFunc func(ctx context.Context, app application.Application, db *configuration.DatabaseOptions) error

func withMigrations(ctx context.Context, conf *configuration.PersonConfiguration, fn migrationFunc) error {
	if err := conf.Setup(); err != nil {
		return err
	}
	schema, err := persistence.SchemaFS(conf.Database.Driver)
	if err != nil {
		return err
	}
	app := application.New(&application.ApplicationOptions{Logger: conf.Logger()})
	app.Migrations().RegisterSchema("person", schema)
	return fn(ctx, app, &conf.Database)
}

func migrateUp(ctx context.Context, app application.Application, db *configuration.DatabaseOptions) error {
	sqlDB, err := openMigrationDB(db)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err := app.Migrations().Up(ctx, sqlDB, db.Driver); err != nil {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}

func migrateDown(ctx context.Context, app application.Application, db *configuration.DatabaseOptions) error {
	sqlDB, err := openMigrationDB(db)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	if err := app.Migrations().Down(ctx, sqlDB, db.Driver); err != nil {
		return errors.Wrap(err, "roll back migration")
	}
	return nil
}

func migrateStatus(ctx context.Context, app application.Application, db *configuration.DatabaseOptions) error {
	sqlDB, err := openMigrationDB(db)
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	statuses, err := app.Migrations().Status(ctx, sqlDB, db.Driver)
	if err != nil {
		return errors.Wrap(err, "read migration status")
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tFILE")
	for _, s := range statuses {
		applied := "-"
		if !s.AppliedAt.IsZero() {
			applied = s.AppliedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Source.Version, s.State, applied, s.Source.Path)
	}
	return tw.Flush()
}
