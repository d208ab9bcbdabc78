package main

import (
	"fmt"
	"path/filepath"

	"sitefeed/internal/feed"

	"github.com/spf13/cobra"
)

func publishCommand(d *deps) *cobra.Command {
	var (
		title       string
		description string
		images      []string
		imageURLs   []string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Post a new update to the section",
		Long: "Post a new update. Local --image files are uploaded first; " +
			"--image-url values are posted as they are. The feed is reloaded after the post.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(images) > 0 && len(imageURLs) > 0 {
				return fmt.Errorf("use either --image or --image-url, not both")
			}

			session, closeAll, err := d.openSession(cmd.Context(), len(images) > 0)
			if err != nil {
				return err
			}
			defer closeAll()

			if len(images) > 0 {
				draft := feed.Draft{Title: title, Description: description}
				for _, p := range images {
					draft.Images = append(draft.Images, feed.LocalImage{Key: filepath.Base(p), Path: p})
				}
				err = session.Publish(cmd.Context(), draft)
			} else {
				err = session.PostUpdate(cmd.Context(), feed.NewUpdate{
					Title:       title,
					Description: description,
					ImageURLs:   imageURLs,
				})
			}
			if err != nil {
				return err
			}

			return printFeed(d.out, session.Feed(), session.Author())
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Update title")
	cmd.Flags().StringVar(&description, "description", "", "Update description")
	cmd.Flags().StringSliceVar(&images, "image", nil, "Local image file to upload (repeatable)")
	cmd.Flags().StringSliceVar(&imageURLs, "image-url", nil, "Already hosted image URL (repeatable)")

	return cmd
}
