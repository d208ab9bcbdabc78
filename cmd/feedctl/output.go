package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"sitefeed/internal/domain/reviews"
	"sitefeed/internal/feed"
)

var cmdStderr io.Writer = os.Stderr

func printFeed(w io.Writer, f feed.Feed, author feed.Author) error {
	if f.DocumentID == "" {
		_, err := fmt.Fprintln(w, "no updates yet")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t(document %s)\n", f.Name, f.DocumentID)
	for _, e := range f.Updates {
		fmt.Fprintf(tw, "\n[%s]\t%s\t%s\n", e.ID, e.Title, e.CreatedAt.Format("2006-01-02 15:04"))
		if e.Description != "" {
			fmt.Fprintf(tw, "\t%s\n", e.Description)
		}
		for _, img := range e.Images {
			fmt.Fprintf(tw, "\timage\t%s\n", img)
		}
		if e.Reviews == nil {
			fmt.Fprintf(tw, "\treviews\tunavailable\n")
			continue
		}
		for _, rv := range e.Reviews {
			printReviewLine(tw, rv, author)
		}
	}
	return tw.Flush()
}

func printReviewLine(w io.Writer, rv reviews.Review, author feed.Author) {
	mark := ""
	if author.Owns(rv) {
		mark = " *"
	}
	name := strings.TrimSpace(rv.FirstName + " " + rv.LastName)
	fmt.Fprintf(w, "\t%s%s\t%s: %s\n", rv.ID, mark, name, rv.Review)
}
