package site

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kamioftea/advent-of-code-2025/pubs/generator/pagedata"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/solutions"
)

// PostTag is the tag of pages that are write-ups for a day.
const PostTag = "post"

// Site is an in-memory representation of the to be generated site.
type Site struct {
	config      Config
	docs        map[string]*Doc
	collections map[string][]*Doc
	solutions   []solutions.Day
}

// Config holds the settings of a site that are not derived from its content.
type Config struct {
	// PathPrefix is prepended to every URL of the site, it's either empty or starts with a slash
	// and has no trailing slash.
	PathPrefix string

	// BaseURL is the absolute URL the site is published at, without path prefix.
	BaseURL string
}

// Doc is a single document of the site, that is anything that can be served as a static file.
type Doc struct {
	Path     string // URL path, without path prefix
	Source   string // file the document was loaded from, if any
	MimeType string
	Meta     *Metadata
	Data     []byte
	Renderer Renderer
}

// Renderer renders documents.
type Renderer interface {
	// RenderContent renders the content of a document without any page around it.
	RenderContent(s *Site, doc *Doc) ([]byte, error)

	// RenderPage renders a document as it's served.
	RenderPage(s *Site, doc *Doc) ([]byte, error)
}

// Metadata is the metadata declared by a page.
type Metadata struct {
	Title       string
	Header      string
	Day         int
	Description string
	Tags        []string
	Layout      string
	Permalink   string
	Published   time.Time
	Updated     time.Time
	Draft       bool
}

func (m *Metadata) HasTag(tag string) bool {
	return m != nil && slices.Contains(m.Tags, tag)
}

// Fields returns the fields titles and descriptions are computed from.
func (m *Metadata) Fields() pagedata.Fields {
	if m == nil {
		return pagedata.Fields{}
	}
	return pagedata.Fields{
		Title:       m.Title,
		Header:      m.Header,
		Day:         m.Day,
		Description: m.Description,
	}
}

// New creates a site from its documents and the solutions derived for it.
func New(config Config, docs []*Doc, days []solutions.Day) (*Site, error) {
	s := &Site{
		config:      config,
		docs:        make(map[string]*Doc, len(docs)),
		collections: make(map[string][]*Doc),
		solutions:   days,
	}
	for _, d := range docs {
		if prev, ok := s.docs[d.Path]; ok {
			return nil, fmt.Errorf("%s and %s both render to %s", prev.Source, d.Source, d.Path)
		}
		s.docs[d.Path] = d
		if d.Meta == nil {
			continue
		}
		for _, tag := range d.Meta.Tags {
			s.collections[tag] = append(s.collections[tag], d)
		}
	}
	for _, c := range s.collections {
		slices.SortFunc(c, compareDocs)
	}
	return s, nil
}

// PostIndex maps each day to the URL of the post written for it. If there is more than one post
// for a day, the last one in path order wins.
func PostIndex(docs []*Doc) solutions.PostIndex {
	posts := slices.Clone(docs)
	slices.SortFunc(posts, func(a, b *Doc) int { return cmp.Compare(a.Path, b.Path) })

	index := make(solutions.PostIndex)
	for _, d := range posts {
		if !d.Meta.HasTag(PostTag) || d.Meta.Day == 0 {
			continue
		}
		index[d.Meta.Day] = d.Path
	}
	return index
}

// Doc returns the document for the given path, or nil if the document cannot be found.
func (s *Site) Doc(path string) *Doc {
	if d, ok := s.docs[path]; ok {
		return d
	}
	if path != "/" {
		if d, ok := s.docs[strings.TrimSuffix(path, "/")]; ok {
			return d
		}
	}
	return nil
}

// AllDocs returns all documents ordered by path.
func (s *Site) AllDocs() []*Doc {
	ret := make([]*Doc, 0, len(s.docs))
	for _, d := range s.docs {
		ret = append(ret, d)
	}
	slices.SortFunc(ret, func(a, b *Doc) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return ret
}

// Collection returns all documents with the given tag, ordered by day and then by publishing date.
func (s *Site) Collection(tag string) []*Doc {
	return s.collections[tag]
}

// Posts returns the write-ups.
func (s *Site) Posts() []*Doc {
	return s.Collection(PostTag)
}

// Solutions returns the solved days in order.
func (s *Site) Solutions() []solutions.Day {
	return s.solutions
}

func (s *Site) Config() Config {
	return s.config
}

// URL returns the URL to use in links to path. Absolute URLs are returned unchanged.
func (s *Site) URL(path string) string {
	return PrefixURL(s.config.PathPrefix, path)
}

// PrefixURL prepends prefix to path if path is relative to the site root.
func PrefixURL(prefix, path string) string {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return path
	}
	return prefix + path
}

func (s *Site) RenderContent(d *Doc) ([]byte, error) {
	b, err := d.Renderer.RenderContent(s, d)
	if err != nil {
		return nil, fmt.Errorf("rendering content of %s: %v", d.Path, err)
	}
	return b, nil
}

// RenderPage renders doc as a page.
func (s *Site) RenderPage(d *Doc) ([]byte, error) {
	b, err := d.Renderer.RenderPage(s, d)
	if err != nil {
		return nil, fmt.Errorf("rendering page for %s: %v", d.Path, err)
	}
	return b, nil
}

// Title returns the computed title of the document.
func (d *Doc) Title() string {
	return pagedata.Title(d.Meta.Fields())
}

// Description returns the computed description of the document, or an empty string if it has
// none.
func (d *Doc) Description() string {
	desc, _ := pagedata.Description(d.Meta.Fields())
	return desc
}

func compareDocs(a, b *Doc) int {
	return cmp.Or(
		cmp.Compare(a.Meta.Day, b.Meta.Day),
		a.Meta.Published.Compare(b.Meta.Published),
		cmp.Compare(a.Path, b.Path),
	)
}
