package renderers

import (
	"encoding/xml"
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/blog/atom"

	"github.com/kamioftea/advent-of-code-2025/pubs/generator/directives"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/goldmark"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/highlight"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/site"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/solutions"
)

const testLayouts = `
{{- define "layout" -}}
<title>{{.Title}}</title>
{{- if .HasDescription}}<meta name="description" content="{{.Description}}">{{end}}
<main>{{.Content}}</main>
<nav>{{.TOC}}</nav>
<ul>{{range .Solutions}}<li><a href="{{url (index .Links 0).URL}}">{{.Day}}</a></li>{{end}}</ul>
{{- end -}}
{{- define "bare" -}}{{.Content}}{{- end -}}
`

func date(day int) time.Time {
	return time.Date(2025, time.December, day, 0, 0, 0, 0, time.UTC)
}

func newMarkdownRenderer(t *testing.T, cfg site.Config, layout string) *MarkdownRenderer {
	t.Helper()
	opts := goldmark.DefaultOptions()
	opts.HeadingPermalinks = false
	templates := template.Must(template.New("").Funcs(Funcs(cfg)).Parse(testLayouts))
	r, err := NewMarkdownRenderer(
		goldmark.New(highlight.Default, opts),
		directives.NewRenderer(highlight.Default, templates, t.TempDir()),
		templates,
		layout,
	)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestMarkdownRenderer(t *testing.T) {
	cfg := site.Config{PathPrefix: "/aoc", BaseURL: "https://example.com"}
	r := newMarkdownRenderer(t, cfg, "")

	doc := &site.Doc{
		Path: "/posts/day-1",
		Meta: &site.Metadata{Header: "Day 1: Secret Entrance", Day: 1, Tags: []string{site.PostTag}},
		Data: []byte("Some *text*.\n\n## Part 1\n\nMore.\n"),
	}
	doc.Renderer = r
	days := []solutions.Day{{
		Day:   1,
		Links: solutions.Links{{Label: solutions.WriteUp, URL: "/posts/day-1"}},
	}}
	s, err := site.New(cfg, []*site.Doc{doc}, days)
	if err != nil {
		t.Fatal(err)
	}

	content, err := s.RenderContent(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "<p>Some <em>text</em>.</p>\n<h2 id=\"part-1\">Part 1</h2>\n<p>More.</p>\n"; string(content) != want {
		t.Errorf("RenderContent() = %q, want %q", content, want)
	}

	page, err := s.RenderPage(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"<title>Day 1: Secret Entrance | Advent of Code 2025 | Jeff Horton</title>",
		`<meta name="description" content="A walkthrough of my solution for Advent of Code 2025 - Day 1: Secret Entrance">`,
		"<main><p>Some <em>text</em>.</p>",
		`<a href="#part-1">Part 1</a>`,
		`<li><a href="/aoc/posts/day-1">1</a></li>`,
	} {
		if !strings.Contains(string(page), want) {
			t.Errorf("RenderPage() = %s\nwant it to contain %s", page, want)
		}
	}
}

func TestMarkdownRenderer_NoDescription(t *testing.T) {
	cfg := site.Config{}
	r := newMarkdownRenderer(t, cfg, "")
	doc := &site.Doc{Path: "/", Meta: &site.Metadata{Title: "Home"}, Data: []byte("Hi\n"), Renderer: r}
	s, err := site.New(cfg, []*site.Doc{doc}, nil)
	if err != nil {
		t.Fatal(err)
	}
	page, err := s.RenderPage(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(page), "<meta") {
		t.Errorf("RenderPage() = %s, want no description", page)
	}
	if !strings.Contains(string(page), "<title>Home</title>") {
		t.Errorf("RenderPage() = %s, want explicit title", page)
	}
}

func TestMarkdownRenderer_Layout(t *testing.T) {
	r := newMarkdownRenderer(t, site.Config{}, "bare")
	doc := &site.Doc{Path: "/", Data: []byte("Hi\n"), Renderer: r}
	s, err := site.New(site.Config{}, []*site.Doc{doc}, nil)
	if err != nil {
		t.Fatal(err)
	}
	page, err := s.RenderPage(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(page) != "<p>Hi</p>\n" {
		t.Errorf("RenderPage() = %q", page)
	}
}

func TestMarkdownRenderer_UnknownLayout(t *testing.T) {
	templates := template.Must(template.New("").Funcs(Funcs(site.Config{})).Parse(testLayouts))
	_, err := NewMarkdownRenderer(nil, nil, templates, "missing")
	if err == nil {
		t.Fatal("NewMarkdownRenderer() succeeded, want error")
	}
}

func TestMarkdownRenderer_DirectiveError(t *testing.T) {
	r := newMarkdownRenderer(t, site.Config{}, "")
	doc := &site.Doc{Path: "/", Data: []byte("<!--#include-everything -->\n"), Renderer: r}
	s, err := site.New(site.Config{}, []*site.Doc{doc}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.RenderPage(doc); err == nil {
		t.Error("RenderPage() succeeded, want error")
	}
}

func TestAtom(t *testing.T) {
	cfg := site.Config{PathPrefix: "/aoc", BaseURL: "https://example.com"}
	post := func(day int, updated time.Time) *site.Doc {
		return &site.Doc{
			Path: "/posts/day-" + string(rune('0'+day)),
			Meta: &site.Metadata{
				Header:    "Day " + string(rune('0'+day)),
				Day:       day,
				Tags:      []string{site.PostTag},
				Published: date(day),
				Updated:   updated,
			},
			Data:     []byte("<p>content</p>"),
			Renderer: Passthrough,
		}
	}
	feedDoc := &site.Doc{Path: FeedPath, MimeType: "application/atom+xml", Renderer: Atom}
	docs := []*site.Doc{
		post(1, date(5)),
		post(3, date(3)),
		post(2, date(2)),
		{Path: "/", Meta: &site.Metadata{Title: "Home"}, Renderer: Passthrough},
		feedDoc,
	}
	s, err := site.New(cfg, docs, nil)
	if err != nil {
		t.Fatal(err)
	}

	b, err := s.RenderPage(feedDoc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(string(b), "<?xml") {
		t.Errorf("feed doesn't start with an XML header: %q", b[:20])
	}

	var feed atom.Feed
	if err := xml.Unmarshal(b, &feed); err != nil {
		t.Fatalf("parsing feed: %v", err)
	}

	var ids []string
	for _, e := range feed.Entry {
		ids = append(ids, e.ID)
	}
	want := []string{
		"https://example.com/aoc/posts/day-3",
		"https://example.com/aoc/posts/day-2",
		"https://example.com/aoc/posts/day-1",
	}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if got, want := string(feed.Updated), string(atom.Time(date(5))); got != want {
		t.Errorf("feed updated = %q, want %q", got, want)
	}
	if got := feed.Entry[0].Summary.Body; got != "A walkthrough of my solution for Advent of Code 2025 - Day 3" {
		t.Errorf("summary = %q", got)
	}
	if got := feed.Entry[0].Content.Body; got != "<p>content</p>" {
		t.Errorf("content = %q", got)
	}
	if got := feed.Link[0].Href; got != "https://example.com/aoc/feed.atom" {
		t.Errorf("self link = %q", got)
	}
}

func TestFuncs(t *testing.T) {
	funcs := Funcs(site.Config{PathPrefix: "/aoc", BaseURL: "https://example.com"})
	tmpl := template.Must(template.New("").Funcs(funcs).Parse(
		`{{url "/posts/day-1"}} {{url "https://adventofcode.com"}} {{absurl "/feed.atom"}} {{date .}} {{isodate .}}`,
	))
	var sb strings.Builder
	if err := tmpl.Execute(&sb, date(1)); err != nil {
		t.Fatal(err)
	}
	want := "/aoc/posts/day-1 https://adventofcode.com https://example.com/aoc/feed.atom 1 December 2025 2025-12-01"
	if sb.String() != want {
		t.Errorf("got %q, want %q", sb.String(), want)
	}

	var zero strings.Builder
	if err := template.Must(template.New("").Funcs(funcs).Parse(`[{{date .}}]`)).Execute(&zero, time.Time{}); err != nil {
		t.Fatal(err)
	}
	if zero.String() != "[]" {
		t.Errorf("zero date = %q, want empty", zero.String())
	}
}
