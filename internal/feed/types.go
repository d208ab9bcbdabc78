package feed

import (
	"sitefeed/internal/domain/reviews"
	"sitefeed/internal/domain/updates"
)

// Author is the viewing user. Its ID is compared with ReviewEntry.UserID to
// decide whether edit and delete controls are offered.
type Author struct {
	ID        string
	FirstName string
	LastName  string
}

func (a Author) Authenticated() bool { return a.ID != "" }

// Owns reports whether the author wrote rv.
func (a Author) Owns(rv reviews.Review) bool {
	return a.Authenticated() && a.ID == rv.UserID
}

// LocalImage is an image picked on the device and not uploaded yet. Key is the
// local identifier progress is reported under.
type LocalImage struct {
	Key  string `validate:"required"`
	Path string `validate:"required"`
}

// Draft is a new update whose images still live on the device.
type Draft struct {
	Title       string       `validate:"notblank"`
	Description string       `validate:"max=5000"`
	Images      []LocalImage `validate:"required,min=1,dive"`
}

// NewUpdate is a new update whose images are already hosted.
type NewUpdate struct {
	Title       string   `validate:"notblank"`
	Description string   `validate:"max=5000"`
	ImageURLs   []string `validate:"required,min=1,dive,required"`
}

// Feed is a rendered copy of the reconciled state. DocumentID is empty when the
// section has no document yet.
type Feed struct {
	DocumentID string
	Name       string
	Updates    []updates.Entry
}

// Review returns the review with reviewID on update updateID.
func (f Feed) Review(updateID, reviewID string) (reviews.Review, bool) {
	for _, e := range f.Updates {
		if e.ID != updateID {
			continue
		}
		for _, rv := range e.Reviews {
			if rv.ID == reviewID {
				return rv, true
			}
		}
	}
	return reviews.Review{}, false
}
