package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func reviewCommand(d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Add, edit or remove reviews on an update",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add UPDATE_ID TEXT",
			Short: "Add a review to an update",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				session, closeAll, err := d.openSession(cmd.Context(), false)
				if err != nil {
					return err
				}
				defer closeAll()

				rv, err := session.SubmitReview(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(d.out, "added review %s\n", rv.ID)
				return err
			},
		},
		&cobra.Command{
			Use:   "edit UPDATE_ID REVIEW_ID TEXT",
			Short: "Replace the text of your review",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				session, closeAll, err := d.openSession(cmd.Context(), false)
				if err != nil {
					return err
				}
				defer closeAll()

				rv, err := session.EditReview(cmd.Context(), args[0], args[1], args[2])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(d.out, "edited review %s\n", rv.ID)
				return err
			},
		},
		&cobra.Command{
			Use:     "rm UPDATE_ID REVIEW_ID",
			Aliases: []string{"remove"},
			Short:   "Remove your review",
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				session, closeAll, err := d.openSession(cmd.Context(), false)
				if err != nil {
					return err
				}
				defer closeAll()

				if err := session.RemoveReview(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				_, err = fmt.Fprintf(d.out, "removed review %s\n", args[1])
				return err
			},
		},
	)

	return cmd
}
