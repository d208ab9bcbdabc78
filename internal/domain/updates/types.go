package updates

import (
	"errors"
	"time"

	"sitefeed/internal/domain/reviews"
)

var (
	ErrNotFound          = errors.New("update not found")
	QueryTimeoutDuration = time.Second * 5
)

// SectionType tags what kind of property a feed belongs to.
type SectionType string

const (
	SectionProject  SectionType = "project"
	SectionBuilding SectionType = "building"
	SectionFlat     SectionType = "flat"
)

func (t SectionType) Valid() bool {
	switch t {
	case SectionProject, SectionBuilding, SectionFlat:
		return true
	}
	return false
}

// Document is the feed container for one section. It is created by the first
// update posted for that section.
type Document struct {
	ID          string      `json:"id"`
	SectionID   string      `json:"sectionId"`
	SectionType SectionType `json:"updateSectionType"`
	Name        string      `json:"name"`
	Updates     []Entry     `json:"updates"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Entry is one posted construction update. Reviews is nil until loaded.
type Entry struct {
	ID          string           `json:"id"`
	Images      []string         `json:"images"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Reviews     []reviews.Review `json:"reviews,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// NewEntry is the body of one update inside a post request.
type NewEntry struct {
	Images      []string `json:"images" validate:"required,min=1,dive,required"`
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
}

// Post is the body of POST /api/review-and-update/update.
type Post struct {
	SectionType SectionType `json:"updateSectionType" validate:"required,sectiontype"`
	SectionID   string      `json:"sectionId" validate:"required"`
	Name        string      `json:"name" validate:"required,max=200"`
	Updates     []NewEntry  `json:"updates" validate:"required,min=1,dive"`
}
