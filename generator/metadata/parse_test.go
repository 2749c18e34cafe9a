package metadata

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/site"
)

func TestParse(t *testing.T) {
	dec1 := time.Date(2025, time.December, 1, 0, 0, 0, 0, tz)
	dec2 := time.Date(2025, time.December, 2, 0, 0, 0, 0, tz)

	tests := []struct {
		name string
		in   string
		meta *site.Metadata
		rest string
	}{
		{
			name: "empty",
			in:   "",
			meta: &site.Metadata{},
			rest: "",
		},
		{
			name: "header only",
			in:   "# Day 1: Secret Entrance\n",
			meta: &site.Metadata{
				Header: "Day 1: Secret Entrance",
			},
			rest: "",
		},
		{
			name: "header without newline",
			in:   "# Day 1: Secret Entrance",
			meta: &site.Metadata{
				Header: "Day 1: Secret Entrance",
			},
			rest: "",
		},
		{
			name: "header with content after blank line",
			in:   "# Day 1\n\ncontent",
			meta: &site.Metadata{
				Header: "Day 1",
			},
			rest: "content",
		},
		{
			name: "header with metadata no newline",
			in:   "# Day 1\n:published: 2025-12-01",
			meta: &site.Metadata{
				Header:    "Day 1",
				Published: dec1,
				Updated:   dec1,
			},
			rest: "",
		},
		{
			name: "full example",
			in:   "# Day 1: Secret Entrance\n:day: 1\n:tags: post, rust\n:published: 2025-12-01\n:updated: 2025-12-02\n:description: turning\\\nthe dial\n:layout: post\n\ncontent",
			meta: &site.Metadata{
				Header:      "Day 1: Secret Entrance",
				Day:         1,
				Tags:        []string{"post", "rust"},
				Published:   dec1,
				Updated:     dec2,
				Description: "turning\nthe dial",
				Layout:      "post",
			},
			rest: "content",
		},
		{
			name: "front matter",
			in:   "---\nheader: \"Day 1: Secret Entrance\"\nday: 1\ntags: [post]\ndate: 2025-12-01\n---\n\ncontent\n",
			meta: &site.Metadata{
				Header:    "Day 1: Secret Entrance",
				Day:       1,
				Tags:      []string{"post"},
				Published: dec1,
				Updated:   dec1,
			},
			rest: "content\n",
		},
		{
			name: "front matter with single tag and title",
			in:   "---\ntitle: Home\ntags: page\ndescription: All my solutions\npermalink: /\ndraft: true\n---\n# Welcome\n",
			meta: &site.Metadata{
				Title:       "Home",
				Tags:        []string{"page"},
				Description: "All my solutions",
				Permalink:   "/",
				Draft:       true,
			},
			rest: "# Welcome\n",
		},
		{
			name: "unterminated front matter is content",
			in:   "---\ntitle: Home\n",
			meta: &site.Metadata{},
			rest: "---\ntitle: Home\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, rest, err := Parse([]byte(tt.in))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if diff := cmp.Diff(meta, tt.meta); diff != "" {
				t.Errorf("different metadata [-got,+want]:\n%s", diff)
			}

			if diff := cmp.Diff(string(rest), tt.rest); diff != "" {
				t.Errorf("different rest [-got,+want]:\n%s", diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"invalid date", "# x\n:published: yesterday\n"},
		{"invalid day", "# x\n:day: one\n"},
		{"negative day", "# x\n:day: -1\n"},
		{"invalid yaml", "---\ntags: [post\n---\n"},
		{"invalid tags", "---\ntags: {a: b}\n---\n"},
		{"invalid front matter date", "---\ndate: 01/12/2025\n---\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Parse([]byte(tt.in)); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.in)
			}
		})
	}
}
