package renderers

import (
	"encoding/xml"
	"fmt"
	"slices"
	"time"

	"golang.org/x/tools/blog/atom"

	"github.com/kamioftea/advent-of-code-2025/pubs/generator/pagedata"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/site"
)

// FeedPath is the path the atom feed is served at.
const FeedPath = "/feed.atom"

// Atom renders the feed of all write-ups, newest first.
var Atom site.Renderer = &atomRenderer{}

type atomRenderer struct{}

func (r *atomRenderer) RenderContent(s *site.Site, doc *site.Doc) ([]byte, error) {
	return nil, fmt.Errorf("rendering content for atom feed is not possible")
}

func (r *atomRenderer) RenderPage(s *site.Site, doc *site.Doc) ([]byte, error) {
	posts := slices.Clone(s.Posts())
	slices.SortStableFunc(posts, func(a, b *site.Doc) int {
		return b.Meta.Published.Compare(a.Meta.Published)
	})

	var updated time.Time
	for _, p := range posts {
		if p.Meta.Updated.After(updated) {
			updated = p.Meta.Updated
		}
	}

	cfg := s.Config()
	feed := atom.Feed{
		Title:   doc.Title(),
		ID:      absURL(cfg, "/"),
		Updated: atom.Time(updated),
		Link: []atom.Link{
			{Rel: "self", Href: absURL(cfg, doc.Path)},
			{Rel: "alternate", Href: absURL(cfg, "/")},
		},
		Author: &atom.Person{
			Name: pagedata.Author,
		},
	}

	for _, post := range posts {
		html, err := s.RenderContent(post)
		if err != nil {
			return nil, err
		}

		e := &atom.Entry{
			Title: post.Title(),
			ID:    absURL(cfg, post.Path),
			Link: []atom.Link{{
				Rel:  "alternate",
				Href: absURL(cfg, post.Path),
			}},
			Published: atom.Time(post.Meta.Published),
			Updated:   atom.Time(post.Meta.Updated),
			Content: &atom.Text{
				Type: "html",
				Body: string(html),
			},
		}
		if desc := post.Description(); desc != "" {
			e.Summary = &atom.Text{Type: "text", Body: desc}
		}
		feed.Entry = append(feed.Entry, e)
	}

	b, err := xml.Marshal(feed)
	if err != nil {
		return nil, fmt.Errorf("encoding feed: %v", err)
	}
	return append([]byte(xml.Header), b...), nil
}

func absURL(cfg site.Config, path string) string {
	return cfg.BaseURL + site.PrefixURL(cfg.PathPrefix, path)
}
