// Package headinglink turns the text of every heading with an id into a link to that heading:
//
//	<h2 id="x"><a class="CLASS" href="#x"><span>Text</span></a></h2>
//
// The span is needed for the heading text to show up in Safari's reader mode.
package headinglink

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// New returns an extension linking headings to themselves. The link gets the class class.
func New(class string) goldmark.Extender {
	return &extender{class: class}
}

type extender struct {
	class string
}

func (e *extender) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&nodeRenderer{class: e.class}, 200),
		),
	)
}

type nodeRenderer struct {
	class string
}

var _ renderer.NodeRenderer = (*nodeRenderer)(nil)

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.render)
}

func (r *nodeRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	id := headingID(n)

	if entering {
		w.WriteString("<h")
		w.WriteByte("0123456"[n.Level])
		if n.Attributes() != nil {
			html.RenderAttributes(w, n, html.HeadingAttributeFilter)
		}
		w.WriteByte('>')
		if id != nil {
			w.WriteString(`<a class="`)
			w.Write(util.EscapeHTML([]byte(r.class)))
			w.WriteString(`" href="#`)
			w.Write(util.EscapeHTML(id))
			w.WriteString(`"><span>`)
		}
		return ast.WalkContinue, nil
	}

	if id != nil {
		w.WriteString("</span></a>")
	}
	w.WriteString("</h")
	w.WriteByte("0123456"[n.Level])
	w.WriteString(">\n")
	return ast.WalkContinue, nil
}

func headingID(n *ast.Heading) []byte {
	v, ok := n.AttributeString("id")
	if !ok {
		return nil
	}
	id, ok := v.([]byte)
	if !ok || len(id) == 0 {
		return nil
	}
	return id
}
