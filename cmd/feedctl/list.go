package main

import (
	"github.com/spf13/cobra"
)

func listCommand(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the section's updates and their reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, closeAll, err := d.openSession(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer closeAll()

			return printFeed(d.out, session.Feed(), session.Author())
		},
	}
}
