package main

import (
	"github.com/spf13/cobra"

	"channelchat/internal/app/db"
	"channelchat/internal/configs"
)

func newMigrateCmd(load func() (*configs.AppConfig, error)) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back or inspect the database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{db.MigrateUp, db.MigrateDown, db.MigrateStatus},
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			command := db.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}
			return db.Migrate(cfg.DatabaseDSN, command)
		},
	}
}
