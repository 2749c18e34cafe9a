// Package codeblock replaces goldmark's rendering of fenced code blocks. Code is highlighted when the
// fence names a language the highlighter knows, and is otherwise written as escaped text. Both cases
// use the same markup:
//
//	<pre class="hljs"><code class="code-block LANG">...</code></pre>
//
// where LANG is the slugified language of the fence.
package codeblock

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Highlighter is the part of [highlight.Highlighter] used by this package.
type Highlighter interface {
	Supports(lang string) bool
	Block(code, lang string) (string, error)
}

// New returns an extension rendering fenced code blocks with hl.
func New(hl Highlighter) goldmark.Extender {
	return &extender{hl: hl}
}

type extender struct {
	hl Highlighter
}

func (e *extender) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&nodeRenderer{hl: e.hl}, 200),
		),
	)
}

// escaper escapes code that isn't highlighted. Single quotes are left alone.
var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// Render returns the HTML for a single code block.
func Render(hl Highlighter, code, lang string) string {
	body := escaper.Replace(code)
	if lang != "" && hl.Supports(lang) {
		if b, err := hl.Block(code, lang); err == nil {
			body = b
		}
	}
	return fmt.Sprintf(`<pre class="hljs"><code class="code-block %s">%s</code></pre>`, Slugify(lang), body)
}

var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Slugify lowercases s and replaces every run of characters other than ASCII letters and digits
// with a single hyphen.
func Slugify(s string) string {
	return strings.ToLower(nonAlnum.ReplaceAllString(s, "-"))
}

type nodeRenderer struct {
	hl Highlighter
}

var _ renderer.NodeRenderer = (*nodeRenderer)(nil)

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.render)
}

func (r *nodeRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var lang string
	if l := n.Language(source); l != nil {
		lang = string(l)
	}

	var code bytes.Buffer
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	w.WriteString(Render(r.hl, code.String(), lang))
	w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}
