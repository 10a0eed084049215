package utils

import "github.com/google/uuid"

// NewID returns a random identifier used as the _id of every document.
func NewID() string {
	return uuid.New().String()
}
