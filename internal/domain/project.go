package domain

import (
	"fmt"
	"strings"
	"time"
)

// Word-count limits shared by projects and tasks. Counts are
// whitespace-delimited token counts, not character counts.
const (
	NameMaxWords        = 30
	DescriptionMaxWords = 150
)

// Project is a named container that owns zero or more tasks.
// ID and CreatedAt are assigned by the store on creation and are
// immutable thereafter. Name is case-insensitively unique.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewProject creates an unpersisted Project with the given name and
// optional description. Both are stored trimmed; the store assigns
// identity and creation time.
func NewProject(name, description string) (*Project, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	if name == "" {
		return nil, NewValidationError("name", "must not be empty")
	}
	if err := CheckWordCount("name", name, NameMaxWords); err != nil {
		return nil, err
	}
	if err := CheckWordCount("description", description, DescriptionMaxWords); err != nil {
		return nil, err
	}

	return &Project{
		Name:        name,
		Description: description,
	}, nil
}

// WordCount returns the number of whitespace-delimited tokens in s.
// This is the authoritative sizing rule for names, titles and
// descriptions; it is not a linguistic word count.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// CheckWordCount returns a ValidationError if s exceeds max words.
func CheckWordCount(field, s string, max int) error {
	if WordCount(s) > max {
		return &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("must be at most %d words", max),
		}
	}
	return nil
}
