package main

import (
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/app"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/config"
)

// cli holds the services opened for the running command.
type cli struct {
	app *app.App
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "docctl",
		Short:         "Manage fee notes and capital-increase reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			c.app, err = app.New(cmd.Context(), cfg)

			return err
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if c.app == nil {
				return nil
			}

			return c.app.Close()
		},
	}

	root.AddCommand(
		c.validateCmd(),
		c.importCmd(),
		c.listCmd(),
		c.clientsCmd(),
		c.nextNumberCmd(),
		c.renumberCmd(),
		c.checkCmd(),
		c.exportCmd(),
	)

	return root
}
