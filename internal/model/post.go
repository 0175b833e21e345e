// Package model defines the post entity shared by the client, the store and the dev server.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PostID is the server-assigned identifier of a post.
//
// Servers disagree on the wire type: json-server and jsonplaceholder use
// numbers, others use strings. PostID accepts both and re-encodes purely
// numeric ids as numbers.
type PostID string

func (id PostID) String() string {
	return string(id)
}

// IsNumeric reports whether the id is a base-10 integer in canonical form.
func (id PostID) IsNumeric() bool {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil && strconv.FormatInt(n, 10) == string(id)
}

// IsPathSegment reports whether the id can stand alone as one segment of a
// URL path or object key.
func (id PostID) IsPathSegment() bool {
	s := string(id)
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

func (id PostID) MarshalJSON() ([]byte, error) {
	if id.IsNumeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *PostID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid post id: %w", err)
		}
		*id = PostID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid post id %s: %w", data, err)
	}
	*id = PostID(canonicalNumber(n))
	return nil
}

// canonicalNumber rewrites integral numbers such as 1.0 or 1e3 in base-10
// integer form so they address the same post as 1 or 1000.
func canonicalNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return n.String()
	}
	return strconv.FormatInt(int64(f), 10)
}

type Post struct {
	ID    PostID `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Input returns the editable fields of the post.
func (p Post) Input() PostInput {
	return PostInput{Title: p.Title, Body: p.Body}
}

// PostInput is the request body for create and update.
type PostInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Draft is an unsaved copy of a post's fields held by the view while
// editing. ID is empty for a post that has not been created yet.
type Draft struct {
	ID    PostID
	Title string
	Body  string
}

// DraftOf snapshots p for editing.
func DraftOf(p Post) Draft {
	return Draft{ID: p.ID, Title: p.Title, Body: p.Body}
}

func (d Draft) Input() PostInput {
	return PostInput{Title: d.Title, Body: d.Body}
}

func (d Draft) IsEmpty() bool {
	return d.Title == "" && d.Body == ""
}
