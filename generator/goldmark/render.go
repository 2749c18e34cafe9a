// Package goldmark configures the Markdown converter used for every page of the site.
//
// A [Converter] is built once per build from [Options] and a highlighter and is then used for all
// documents. It holds no per-document state and can be used concurrently.
package goldmark

import (
	"bytes"
	"fmt"

	"github.com/kamioftea/advent-of-code-2025/pubs/generator/goldmark/admonitions"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/goldmark/codeblock"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/goldmark/headinglink"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/goldmark/mathjax"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/toc"
)

// PermalinkClass is the class of the link wrapping the text of every heading.
const PermalinkClass = "app-link--heading"

// BaseOptions are the basic switches of the converter.
type BaseOptions struct {
	Breaks      bool // turn soft line breaks into <br>
	HTML        bool // pass raw HTML through
	Linkify     bool // turn bare URLs into links
	Typographer bool // smart quotes, dashes and ellipses
}

func DefaultBaseOptions() BaseOptions {
	return BaseOptions{
		Breaks:      false,
		HTML:        true,
		Linkify:     false,
		Typographer: true,
	}
}

type MathMode int

const (
	// MathJax leaves math for MathJax to typeset in the browser.
	MathJax MathMode = iota
	// MathML renders math to MathML while converting.
	MathML
)

func (m MathMode) String() string {
	switch m {
	case MathJax:
		return "mathjax"
	case MathML:
		return "mathml"
	default:
		return fmt.Sprintf("MathMode(%d)", int(m))
	}
}

func ParseMathMode(s string) (MathMode, error) {
	switch s {
	case "mathjax":
		return MathJax, nil
	case "mathml":
		return MathML, nil
	default:
		return 0, fmt.Errorf("unknown math mode %q, want mathjax or mathml", s)
	}
}

type Options struct {
	Base BaseOptions

	// HeadingPermalinks turns the text of every heading into a link to it. Headings get an id
	// either way.
	HeadingPermalinks bool

	Math MathMode

	// Range of heading levels included in the table of contents.
	TOCMinDepth, TOCMaxDepth int
}

func DefaultOptions() Options {
	return Options{
		Base:              DefaultBaseOptions(),
		HeadingPermalinks: true,
		Math:              MathJax,
		TOCMinDepth:       2,
		TOCMaxDepth:       3,
	}
}

// WithBase returns a copy of o with override applied to its base options.
func (o Options) WithBase(override func(*BaseOptions)) Options {
	override(&o.Base)
	return o
}

type Converter struct {
	md   goldmark.Markdown
	opts Options
}

// New creates a converter. Code blocks are highlighted with hl.
func New(hl codeblock.Highlighter, opts Options) *Converter {
	var exts []goldmark.Extender
	var rendererOpts []renderer.Option

	if opts.Base.Breaks {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}
	if opts.Base.HTML {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}
	if opts.Base.Linkify {
		exts = append(exts, extension.Linkify)
	}
	if opts.Base.Typographer {
		exts = append(exts, extension.Typographer)
	}

	// Order matters: permalinks, then definition lists, then math.
	if opts.HeadingPermalinks {
		exts = append(exts, headinglink.New(PermalinkClass))
	}
	exts = append(exts, extension.DefinitionList)
	switch opts.Math {
	case MathML:
		exts = append(exts, mathjax.MathML)
	default:
		exts = append(exts, mathjax.MathJax)
	}

	exts = append(exts,
		extension.Footnote,
		extension.Table,
		extension.Strikethrough,
		admonitions.Admonition,
		codeblock.New(hl),
	)

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &Converter{md: md, opts: opts}
}

// Render converts a Markdown document to HTML.
func (c *Converter) Render(src []byte) ([]byte, error) {
	content, _, err := c.Convert(src)
	return content, err
}

// Convert converts a Markdown document to HTML and additionally returns a table of contents as a
// nested list. The table of contents is nil if the document has no headings in range.
func (c *Converter) Convert(src []byte) (content, outline []byte, err error) {
	root := c.md.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, src, root); err != nil {
		return nil, nil, fmt.Errorf("rendering markdown: %v", err)
	}

	tree, err := toc.Inspect(root, src,
		toc.MinDepth(c.opts.TOCMinDepth),
		toc.MaxDepth(c.opts.TOCMaxDepth),
		toc.Compact(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("building table of contents: %v", err)
	}
	list := toc.RenderList(tree)
	if list == nil {
		return buf.Bytes(), nil, nil
	}

	var tocbuf bytes.Buffer
	if err := c.md.Renderer().Render(&tocbuf, src, list); err != nil {
		return nil, nil, fmt.Errorf("rendering table of contents: %v", err)
	}
	return buf.Bytes(), tocbuf.Bytes(), nil
}
