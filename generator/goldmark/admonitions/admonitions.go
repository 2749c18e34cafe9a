// Package admonitions adds callout blocks to goldmark. A paragraph starting with one of the labels
// NOTE:, TIP:, WARNING: or SPOILER: becomes a callout. Spoilers are collapsed until clicked, they
// are used to hide puzzle answers in write-ups.
package admonitions

import (
	"fmt"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

type Node struct {
	ast.BaseBlock
	Label string
}

var Kind = ast.NewNodeKind("Admonition")

func (n *Node) Kind() ast.NodeKind { return Kind }

func (n *Node) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Label": n.Label}, nil)
}

var Admonition goldmark.Extender = &admonitions{}

type admonitions struct{}

func (e *admonitions) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(&blockParser{}, 999),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&nodeRenderer{}, 500),
		),
	)
}

type label struct {
	css, display string
	collapsed    bool
}

var labels = map[string]label{
	"NOTE":    {css: "note", display: "Note"},
	"TIP":     {css: "tip", display: "Tip"},
	"WARNING": {css: "warning", display: "Warning"},
	"SPOILER": {css: "spoiler", display: "Spoiler", collapsed: true},
}

type blockParser struct{}

var _ parser.BlockParser = (*blockParser)(nil)

func (p *blockParser) Trigger() []byte {
	return []byte{'N', 'T', 'W', 'S'}
}

var re = regexp.MustCompile("^(NOTE|TIP|WARNING|SPOILER): ")

func (p *blockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, _ := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 {
		return nil, parser.NoChildren
	}

	m := re.FindSubmatch(line[pos:])
	if m == nil {
		return nil, parser.NoChildren
	}
	reader.Advance(pos + len(m[0]))

	return &Node{Label: string(m[1])}, parser.HasChildren
}

func (p *blockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, _ := reader.PeekLine()
	if util.IsBlank(line) {
		return parser.Close
	}
	reader.Advance(reader.LineOffset())
	return parser.Continue | parser.HasChildren
}

func (p *blockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (p *blockParser) CanInterruptParagraph() bool {
	return false
}

func (p *blockParser) CanAcceptIndentedLine() bool {
	return false
}

type nodeRenderer struct{}

var _ renderer.NodeRenderer = (*nodeRenderer)(nil)

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(Kind, r.render)
}

func (r *nodeRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*Node)
	l, ok := labels[n.Label]
	if !ok {
		return ast.WalkStop, fmt.Errorf("unknown admonition label: %q", n.Label)
	}
	switch {
	case entering && l.collapsed:
		fmt.Fprintf(w, `<details class="admonition %s"><summary class="admonition-title">%s</summary>`, l.css, l.display)
	case entering:
		fmt.Fprintf(w, `<div class="admonition %s"><p class="admonition-title">%s</p>`, l.css, l.display)
	case l.collapsed:
		w.WriteString("</details>\n")
	default:
		w.WriteString("</div>\n")
	}
	return ast.WalkContinue, nil
}
