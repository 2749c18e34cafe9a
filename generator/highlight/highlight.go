// Package highlight turns source code into HTML marked up with CSS classes.
//
// A [Highlighter] is configured once with a table mapping chroma token types to class names and is
// immutable afterwards, so a single instance can be shared by every render of a build.
package highlight

import (
	"errors"
	"fmt"
	"html"
	"html/template"
	"maps"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"znkr.io/diff"
	"znkr.io/diff/textdiff"
)

// HLJS maps token types to the class names used by highlight.js themes. The stylesheets of the
// site are highlight.js themes, so this is what the site uses.
var HLJS = map[chroma.TokenType]string{
	chroma.Keyword:             "hljs-keyword",
	chroma.KeywordConstant:     "hljs-literal",
	chroma.KeywordType:         "hljs-type",
	chroma.KeywordPseudo:       "hljs-keyword",
	chroma.Name:                "",
	chroma.NameAttribute:       "hljs-attr",
	chroma.NameBuiltin:         "hljs-built_in",
	chroma.NameBuiltinPseudo:   "hljs-variable language_",
	chroma.NameClass:           "hljs-title class_",
	chroma.NameConstant:        "hljs-variable constant_",
	chroma.NameDecorator:       "hljs-meta",
	chroma.NameEntity:          "hljs-symbol",
	chroma.NameException:       "hljs-title class_",
	chroma.NameFunction:        "hljs-title function_",
	chroma.NameLabel:           "hljs-symbol",
	chroma.NameNamespace:       "hljs-title class_",
	chroma.NameTag:             "hljs-name",
	chroma.NameVariable:        "hljs-variable",
	chroma.LiteralString:       "hljs-string",
	chroma.LiteralStringEscape: "hljs-char escape_",
	chroma.LiteralStringRegex:  "hljs-regexp",
	chroma.LiteralStringSymbol: "hljs-symbol",
	chroma.LiteralNumber:       "hljs-number",
	chroma.Operator:            "hljs-operator",
	chroma.OperatorWord:        "hljs-keyword",
	chroma.Comment:             "hljs-comment",
	chroma.CommentPreproc:      "hljs-meta",
	chroma.GenericDeleted:      "hljs-deletion",
	chroma.GenericEmph:         "hljs-emphasis",
	chroma.GenericHeading:      "hljs-section",
	chroma.GenericInserted:     "hljs-addition",
	chroma.GenericPrompt:       "hljs-meta",
	chroma.GenericStrong:       "hljs-strong",
	chroma.GenericSubheading:   "hljs-section",
}

// Default is a highlighter using the [HLJS] classes.
var Default = New(HLJS)

// Highlighter highlights source code. It holds no mutable state.
type Highlighter struct {
	classes map[chroma.TokenType]string
}

// New returns a highlighter that marks up tokens with the classes in the provided table. Lookups
// fall back from a token type to its sub category and then to its category. The table is copied.
func New(classes map[chroma.TokenType]string) *Highlighter {
	return &Highlighter{classes: maps.Clone(classes)}
}

type Option func(*options)

type options struct {
	lexer chroma.Lexer
}

func Lang(lang string) Option {
	return func(o *options) {
		o.lexer = lexerByName(lang)
	}
}

func LangFromFilename(filename string) Option {
	return func(o *options) {
		o.lexer = lexers.Match(filename)
	}
}

// ErrUnsupportedLanguage is returned by [Highlighter.Block] for a language without a lexer.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// lexerNames indexes the lexers by lower case name and alias. Unlike [lexers.Get], file names and
// extensions are not matched.
var lexerNames = sync.OnceValue(func() map[string]chroma.Lexer {
	m := make(map[string]chroma.Lexer)
	for _, l := range lexers.GlobalLexerRegistry.Lexers {
		cfg := l.Config()
		for _, name := range append([]string{cfg.Name}, cfg.Aliases...) {
			if _, ok := m[strings.ToLower(name)]; !ok {
				m[strings.ToLower(name)] = l
			}
		}
	}
	return m
})

func lexerByName(lang string) chroma.Lexer {
	return lexerNames()[strings.ToLower(lang)]
}

// Supports reports whether lang names a lexer.
func (hl *Highlighter) Supports(lang string) bool {
	return lang != "" && lexerByName(lang) != nil
}

// Block highlights code as a whole and returns the HTML for it, without any surrounding markup.
// Illegal input is rendered as plain text rather than reported.
func (hl *Highlighter) Block(code, lang string) (_ string, err error) {
	lexer := lexerByName(lang)
	if lexer == nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}

	// Some lexers panic on input they cannot handle.
	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("highlighting %s: %v", lang, e)
		}
	}()

	toks, err := tokenise(chroma.Coalesce(lexer), code)
	if err != nil {
		return "", err
	}
	return hl.html(toks), nil
}

type Line struct {
	LineNo  int
	Content template.HTML
}

// Lines highlights in and returns it split into lines.
func (hl *Highlighter) Lines(in string, opts ...Option) ([]Line, error) {
	lexer := fromOptions(opts)
	it, err := lexer.Tokenise(nil, in)
	if err != nil {
		return nil, fmt.Errorf("parsing input: %v", err)
	}

	lines := chroma.SplitTokensIntoLines(it.Tokens())
	ret := make([]Line, 0, len(lines))
	for i, line := range lines {
		ret = append(ret, Line{i + 1, template.HTML(hl.html(line))})
	}
	return ret, nil
}

type Edit struct {
	Op      diff.Op
	XLineNo int
	YLineNo int
	Content template.HTML
}

func (ed *Edit) IsMatch() bool  { return ed.Op == diff.Match }
func (ed *Edit) IsDelete() bool { return ed.Op == diff.Delete }
func (ed *Edit) IsInsert() bool { return ed.Op == diff.Insert }

// Diff computes a line diff between a and b and highlights every line of it.
func (hl *Highlighter) Diff(a, b string, opts ...Option) ([]Edit, error) {
	lexer := fromOptions(opts)

	edits := textdiff.Edits(a, b, textdiff.IndentHeuristic())

	ret := make([]Edit, 0, len(edits))
	s, t := 0, 0
	for _, edit := range edits {
		toks, err := tokenise(lexer, edit.Line)
		if err != nil {
			return nil, err
		}
		ln := template.HTML(hl.html(toks))
		switch edit.Op {
		case diff.Match:
			ret = append(ret, Edit{edit.Op, s + 1, t + 1, ln})
			s++
			t++
		case diff.Delete:
			ret = append(ret, Edit{edit.Op, s + 1, -1, ln})
			s++
		case diff.Insert:
			ret = append(ret, Edit{edit.Op, -1, t + 1, ln})
			t++
		}
	}
	return ret, nil
}

func fromOptions(opts []Option) chroma.Lexer {
	o := &options{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(o)
	}

	if o.lexer == nil {
		o.lexer = lexers.Fallback
	}
	return chroma.Coalesce(o.lexer)
}

func (hl *Highlighter) html(tokens []chroma.Token) string {
	var sb strings.Builder
	for _, token := range tokens {
		class := hl.class(token.Type)
		if class != "" {
			fmt.Fprintf(&sb, "<span class=\"%s\">", class)
		}
		sb.WriteString(html.EscapeString(token.Value))
		if class != "" {
			sb.WriteString("</span>")
		}
	}
	return sb.String()
}

func tokenise(lexer chroma.Lexer, in string) ([]chroma.Token, error) {
	it, err := lexer.Tokenise(nil, in)
	if err != nil {
		return nil, fmt.Errorf("creating iterator: %v", err)
	}
	return it.Tokens(), nil
}

func (hl *Highlighter) class(t chroma.TokenType) string {
	if t == chroma.Error {
		return ""
	}
	s, ok := hl.classes[t]
	if ok {
		return s
	}
	s, ok = hl.classes[t.SubCategory()]
	if ok {
		return s
	}
	s, ok = hl.classes[t.Category()]
	if ok {
		return s
	}
	return ""
}
