// Package mathjax parses TeX math in Markdown. [MathJax] passes it through untouched so that MathJax
// can typeset it in the browser, [MathML] renders it to MathML while converting.
//
// Inline math is written as $...$ and rendered as \(...\). Display math is written either inline as
// $$...$$ or as a block fenced by lines starting with $$, and is rendered as \[...\]. The TeX source
// is HTML escaped but otherwise left alone, in particular it's not subject to emphasis or
// typographic replacements.
package mathjax

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

type Inline struct {
	ast.BaseInline
	Display bool
	TeX     []byte
}

var KindInline = ast.NewNodeKind("MathInline")

func (n *Inline) Kind() ast.NodeKind { return KindInline }

func (n *Inline) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"TeX": string(n.TeX)}, nil)
}

type Block struct {
	ast.BaseBlock
}

var KindBlock = ast.NewNodeKind("MathBlock")

func (n *Block) Kind() ast.NodeKind { return KindBlock }

func (n *Block) IsRaw() bool { return true }

func (n *Block) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

var MathJax goldmark.Extender = &mathjax{}

type mathjax struct{}

func (e *mathjax) Extend(m goldmark.Markdown) {
	addParsers(m)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&nodeRenderer{}, 500),
		),
	)
}

func addParsers(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(&blockParser{}, 150),
		),
		parser.WithInlineParsers(
			util.Prioritized(&inlineParser{}, 150),
		),
	)
}

var fence = []byte("$$")

type blockParser struct{}

var _ parser.BlockParser = (*blockParser)(nil)

func (p *blockParser) Trigger() []byte {
	return []byte{'$'}
}

func (p *blockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, seg := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !bytes.HasPrefix(line[pos:], fence) {
		return nil, parser.NoChildren
	}

	node := &Block{}
	rest := bytes.TrimSpace(line[pos+len(fence):])

	// $$ x $$ on a single line.
	if len(rest) > 0 {
		if !bytes.HasSuffix(rest, fence) {
			return nil, parser.NoChildren
		}
		start := seg.Start + pos + len(fence)
		stop := seg.Start + bytes.LastIndex(line, fence)
		if stop > start {
			node.Lines().Append(text.NewSegment(start, stop))
		}
		reader.AdvanceToEOL()
		return node, parser.Close
	}

	reader.AdvanceToEOL()
	return node, parser.NoChildren
}

func (p *blockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, seg := reader.PeekLine()
	if line == nil {
		return parser.Close
	}
	if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), fence) {
		reader.AdvanceToEOL()
		return parser.Close
	}
	node.Lines().Append(seg)
	reader.AdvanceToEOL()
	return parser.Continue | parser.NoChildren
}

func (p *blockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (p *blockParser) CanInterruptParagraph() bool {
	return true
}

func (p *blockParser) CanAcceptIndentedLine() bool {
	return false
}

type inlineParser struct{}

var _ parser.InlineParser = (*inlineParser)(nil)

func (p *inlineParser) Trigger() []byte {
	return []byte{'$'}
}

func (p *inlineParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()

	delim := line[:1]
	if bytes.HasPrefix(line, fence) {
		delim = fence
	}
	body := line[len(delim):]

	// Opening delimiters followed by a space are prices and such, not math.
	if len(body) == 0 || body[0] == ' ' {
		return nil
	}

	end := closing(body, delim)
	if end <= 0 {
		return nil
	}

	node := &Inline{
		Display: len(delim) == len(fence),
		TeX:     bytes.Clone(body[:end]),
	}
	block.Advance(len(delim) + end + len(delim))
	return node
}

// closing returns the position of the closing delimiter in body or -1 if there is none. Escaped
// dollar signs don't count and neither does a delimiter preceded by a space.
func closing(body, delim []byte) int {
	for i := 0; i < len(body); i++ {
		switch {
		case body[i] == '\\':
			i++
		case bytes.HasPrefix(body[i:], delim):
			if i == 0 || body[i-1] == ' ' {
				return -1
			}
			return i
		}
	}
	return -1
}

type nodeRenderer struct{}

var _ renderer.NodeRenderer = (*nodeRenderer)(nil)

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindInline, r.renderInline)
	reg.Register(KindBlock, r.renderBlock)
}

func (r *nodeRenderer) renderInline(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Inline)
	open, shut := `\(`, `\)`
	if n.Display {
		open, shut = `\[`, `\]`
	}
	w.WriteString(open)
	w.WriteString(html.EscapeString(string(n.TeX)))
	w.WriteString(shut)
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	w.WriteString(`<p>\[`)
	w.WriteString(html.EscapeString(blockTeX(node, source)))
	w.WriteString("\\]</p>\n")
	return ast.WalkSkipChildren, nil
}

func blockTeX(node ast.Node, source []byte) string {
	var tex bytes.Buffer
	lines := node.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		tex.Write(seg.Value(source))
	}
	return string(bytes.TrimSpace(tex.Bytes()))
}
