package reviews

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("review not found")
	ErrNotOwner          = errors.New("review belongs to another user")
	QueryTimeoutDuration = time.Second * 5
)

// Review is one feedback comment attached to an update entry. The author name is
// a snapshot taken when the review was created.
type Review struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId,omitempty"`
	UpdateID   string    `json:"updateId,omitempty"`
	UserID     string    `json:"userId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Review     string    `json:"review"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Body is the request body shared by create and edit.
type Body struct {
	UserID    string `json:"userId" validate:"required"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Review    string `json:"review" validate:"required,max=2000"`
}
