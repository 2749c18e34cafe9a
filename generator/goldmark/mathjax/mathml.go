package mathjax

import (
	"strings"

	"github.com/wyatt915/treeblood"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// MathML renders math with treeblood. Math that treeblood can't handle falls back to the MathJax
// passthrough.
var MathML goldmark.Extender = &mathml{}

type mathml struct{}

func (e *mathml) Extend(m goldmark.Markdown) {
	addParsers(m)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&mathmlRenderer{}, 500),
		),
	)
}

type mathmlRenderer struct{}

var _ renderer.NodeRenderer = (*mathmlRenderer)(nil)

func (r *mathmlRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindInline, r.renderInline)
	reg.Register(KindBlock, r.renderBlock)
}

// toMathML converts a single formula. A treeblood document carries state between formulas, so
// every formula gets its own.
func toMathML(tex string, display bool) (string, error) {
	doc := treeblood.NewDocument(nil, false)
	doc.PrintOneLine = true
	render := doc.TextStyle
	if display {
		render = doc.DisplayStyle
	}
	mml, err := render(tex)
	return strings.TrimSpace(mml), err
}

func (r *mathmlRenderer) renderInline(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Inline)
	mml, err := toMathML(string(n.TeX), n.Display)
	if err != nil {
		return (&nodeRenderer{}).renderInline(w, source, node, entering)
	}
	w.WriteString(mml)
	return ast.WalkSkipChildren, nil
}

func (r *mathmlRenderer) renderBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	tex := blockTeX(node, source)
	mml, err := toMathML(tex, true)
	if err != nil {
		return (&nodeRenderer{}).renderBlock(w, source, node, entering)
	}
	w.WriteString(mml)
	w.WriteString("\n")
	return ast.WalkSkipChildren, nil
}
