// Package library is loaded by the analyzer tests.
package library

import "time"

// Book is the root record.
type Book struct {
	ID        int64              `json:"id"`
	Title     string             `json:"title"`
	Subtitle  *string            `json:"subtitle"`
	Status    Status             `json:"status"`
	Author    Author             `json:"author"`
	Reviews   []Review           `json:"reviews"`
	Ratings   map[string]float64 `json:"ratings,omitempty"`
	Published time.Time          `json:"published"`
	ReadTime  time.Duration      `json:"read_time" crown:"optional"`
	Notes     any                `json:"notes"`
	Secret    string             `json:"-"`
	internal  int
}

// Author writes books.
type Author struct {
	Name string
	Born int `crown:"optional"`
}

// Review is a reader opinion.
type Review struct {
	Stars  uint8   `json:"stars"`
	Author *Author `json:"author"`
}

// Status is a publication state.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
)

// Shelf has fields no schema can express.
type Shelf struct {
	Books   chan Book
	ByTitle map[string]Book
}
