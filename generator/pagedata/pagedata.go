// Package pagedata computes the title and description of a page from the fields it declares.
package pagedata

import "strings"

const (
	SiteName = "Advent of Code 2025"
	Author   = "Jeff Horton"
)

// Fields are the declared fields of a page that titles and descriptions are derived from.
type Fields struct {
	Title       string
	Header      string
	Day         int
	Description string
}

// Title returns the explicit title of the page, or else the header followed by the site name and
// the author, separated by " | ".
func Title(f Fields) string {
	if f.Title != "" {
		return f.Title
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{f.Header, SiteName, Author} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " | ")
}

// Description returns the explicit description of the page. Pages for a day that have a header get
// a generated description. All other pages have none.
func Description(f Fields) (string, bool) {
	if f.Description != "" {
		return f.Description, true
	}
	if f.Day != 0 && f.Header != "" {
		return "A walkthrough of my solution for " + SiteName + " - " + f.Header, true
	}
	return "", false
}
