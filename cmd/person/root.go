package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iota-uz/person-directory/pkg/configuration"
)

func newRootCmd(conf *configuration.PersonConfiguration) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:           "person",
		Short:         "Person service: create and list persons over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), conf)
		},
	}
	if err := configuration.BindFlags(cmd.PersistentFlags(), conf); err != nil {
		return nil, err
	}

	cmd.AddCommand(newMigrateCmd(conf))
	return cmd, nil
}

func Execute() {
	conf := &configuration.PersonConfiguration{}
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
