package renderers

import (
	"bytes"
	"cmp"
	"fmt"
	"html/template"

	"github.com/kamioftea/advent-of-code-2025/pubs/generator/directives"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/goldmark"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/pagedata"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/site"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/solutions"
)

// DefaultLayout is the template pages are rendered with unless they name another layout.
const DefaultLayout = "layout"

// MarkdownRenderer renders Markdown pages. The content is converted to HTML, then directives are
// expanded and finally the page is rendered with its layout template.
type MarkdownRenderer struct {
	converter  *goldmark.Converter
	directives *directives.Renderer
	layout     *template.Template
}

// NewMarkdownRenderer creates a renderer that renders pages with the layout template.
func NewMarkdownRenderer(converter *goldmark.Converter, dirs *directives.Renderer, templates *template.Template, layout string) (*MarkdownRenderer, error) {
	layout = cmp.Or(layout, DefaultLayout)
	t := templates.Lookup(layout)
	if t == nil {
		return nil, fmt.Errorf("template not found %s", layout)
	}

	return &MarkdownRenderer{
		converter:  converter,
		directives: dirs,
		layout:     t,
	}, nil
}

// Page is the data layout templates are executed with.
type Page struct {
	Site           *site.Site
	Doc            *site.Doc
	Meta           *site.Metadata
	Title          string
	Description    string
	HasDescription bool
	Content        template.HTML
	TOC            template.HTML
	Solutions      []solutions.Day
}

func (r *MarkdownRenderer) RenderContent(s *site.Site, doc *site.Doc) ([]byte, error) {
	content, _, err := r.render(s, doc)
	return content, err
}

func (r *MarkdownRenderer) RenderPage(s *site.Site, doc *site.Doc) ([]byte, error) {
	content, toc, err := r.render(s, doc)
	if err != nil {
		return nil, err
	}

	desc, hasDesc := pagedata.Description(doc.Meta.Fields())
	var buf bytes.Buffer
	err = r.layout.Execute(&buf, Page{
		Site:           s,
		Doc:            doc,
		Meta:           doc.Meta,
		Title:          doc.Title(),
		Description:    desc,
		HasDescription: hasDesc,
		Content:        template.HTML(content),
		TOC:            template.HTML(toc),
		Solutions:      s.Solutions(),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering template: %v", err)
	}
	return buf.Bytes(), nil
}

func (r *MarkdownRenderer) render(s *site.Site, doc *site.Doc) (content, toc []byte, err error) {
	content, toc, err = r.converter.Convert(doc.Data)
	if err != nil {
		return nil, nil, err
	}

	content, err = r.directives.Render(s, doc, content)
	if err != nil {
		return nil, nil, err
	}
	return content, toc, nil
}
