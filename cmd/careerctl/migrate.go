package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			url, err := a.databaseURL()
			if err != nil {
				return err
			}
			dir := a.v.GetString("migrations_dir")
			if err := a.migrate(url, dir); err != nil {
				return fmt.Errorf("running migrations from %s: %w", dir, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("Migrations applied"))
			printField(cmd.OutOrStdout(), "Source", dir)
			return nil
		},
	}
	cmd.Flags().String("migrations-dir", "migrations", "directory holding the SQL migration files")
	bindFlags(a.v, cmd.Flags().Lookup("migrations-dir"))
	return cmd
}
