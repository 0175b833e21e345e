package model

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	MinTitleLen = 10
	MaxTitleLen = 150
	MinBodyLen  = 50
	MaxBodyLen  = 300
)

const (
	FieldTitle = "title"
	FieldBody  = "body"
)

var ErrInvalidPost = errors.New("invalid post")

// ValidationError names the first field that failed validation.
type ValidationError struct {
	Field string
	Min   int
	Max   int
	Len   int
}

func (e *ValidationError) Error() string {
	name := "Title"
	if e.Field == FieldBody {
		name = "Body"
	}
	return fmt.Sprintf("%s must be between %d and %d characters", name, e.Min, e.Max)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidPost
}

// ValidatePost accepts the input iff the title has 10 to 150 characters and
// the body 50 to 300. The title is checked first.
func ValidatePost(in PostInput) error {
	if n := utf8.RuneCountInString(in.Title); n < MinTitleLen || n > MaxTitleLen {
		return &ValidationError{Field: FieldTitle, Min: MinTitleLen, Max: MaxTitleLen, Len: n}
	}
	if n := utf8.RuneCountInString(in.Body); n < MinBodyLen || n > MaxBodyLen {
		return &ValidationError{Field: FieldBody, Min: MinBodyLen, Max: MaxBodyLen, Len: n}
	}
	return nil
}

// CanSubmit is the boolean form of ValidatePost.
func CanSubmit(in PostInput) bool {
	return ValidatePost(in) == nil
}
