// Package solutions derives the list of solved days from the solution sources.
//
// Every solution lives in a file day_N.rs whose first line links the puzzle:
//
//	//! This is my solution for [Advent of Code - Day 1: _Secret Entrance_](https://adventofcode.com/2025/day/1)
//
// The title and the puzzle URL are taken from that line. A missing or malformed line is not an
// error, the day is listed without a title and puzzle URL.
package solutions

import (
	"cmp"
	"fmt"
	"io/fs"
	"log"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

const (
	DefaultDocumentationURL = "/advent_of_code_2025/day_%d/index.html"
	DefaultSourceURL        = "https://github.com/kamioftea/advent-of-code-2025/blob/main/src/day_%d.rs"
)

// Link labels, in the order they are listed.
const (
	Puzzle        = "Puzzle"
	WriteUp       = "Write Up"
	Documentation = "Documentation"
	Source        = "Source"
)

// Day is a single solved day.
type Day struct {
	Day   int
	Title string
	Links Links
}

type Link struct {
	Label string
	URL   string
}

// Links is an ordered list of links.
type Links []Link

// Get returns the URL of the link with the given label.
func (l Links) Get(label string) (string, bool) {
	for _, link := range l {
		if link.Label == label {
			return link.URL, true
		}
	}
	return "", false
}

// URL is like [Links.Get] but returns an empty string for a missing link, for use in templates.
func (l Links) URL(label string) string {
	url, _ := l.Get(label)
	return url
}

// PostIndex maps a day to the URL of its write-up.
type PostIndex map[int]string

type Option func(*options)

type options struct {
	docURL, srcURL string
}

// WithDocumentationURL sets the pattern for documentation links. The pattern is a format string
// with a single %d for the day.
func WithDocumentationURL(pattern string) Option {
	return func(o *options) {
		o.docURL = pattern
	}
}

// WithSourceURL sets the pattern for source links. The pattern is a format string with a single %d
// for the day.
func WithSourceURL(pattern string) Option {
	return func(o *options) {
		o.srcURL = pattern
	}
}

var (
	filenameRe = regexp.MustCompile(`^day_(\d+)\.rs$`)
	headerRe   = regexp.MustCompile(`\[Advent of Code - Day \d+: _([^_]+)_\]\(([^)]+)\)`)
)

// Derive lists the solutions in dir and returns them ordered by day. posts provides the write-up
// for each day, if there is one.
func Derive(dir string, posts PostIndex, opts ...Option) ([]Day, error) {
	return DeriveFS(os.DirFS(dir), posts, opts...)
}

// DeriveFS is like [Derive] but reads the solutions from the root of fsys. A solution that can't be
// read fails the whole derivation.
func DeriveFS(fsys fs.FS, posts PostIndex, opts ...Option) ([]Day, error) {
	o := options{
		docURL: DefaultDocumentationURL,
		srcURL: DefaultSourceURL,
	}
	for _, opt := range opts {
		opt(&o)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("listing solutions: %v", err)
	}

	var days []Day
	for _, entry := range entries {
		day, ok := DayFromFilename(entry.Name())
		if !ok || !entry.Type().IsRegular() {
			continue
		}

		b, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading solution: %v", err)
		}

		title, puzzleURL, ok := ParseHeader(firstLine(string(b)))
		if !ok {
			log.Printf("%s: first line has no puzzle link", entry.Name())
		}

		links := Links{{Puzzle, puzzleURL}}
		if url := posts[day]; url != "" {
			links = append(links, Link{WriteUp, url})
		}
		links = append(links,
			Link{Documentation, fmt.Sprintf(o.docURL, day)},
			Link{Source, fmt.Sprintf(o.srcURL, day)},
		)

		days = append(days, Day{
			Day:   day,
			Title: title,
			Links: links,
		})
	}

	slices.SortFunc(days, func(a, b Day) int {
		return cmp.Compare(a.Day, b.Day)
	})
	return days, nil
}

// DayFromFilename returns the day of a solution file named day_N.rs.
func DayFromFilename(name string) (int, bool) {
	m := filenameRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil || day <= 0 {
		return 0, false
	}
	return day, true
}

// ParseHeader extracts the puzzle title and URL from a line containing a link of the form
//
//	[Advent of Code - Day N: _Title_](URL)
func ParseHeader(line string) (title, url string, ok bool) {
	m := headerRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}
