package directives

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kamioftea/advent-of-code-2025/pubs/generator/highlight"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/site"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/solutions"
)

// Renderer replaces the directives in rendered HTML.
//
// Supported directives are
//
//	<!--#include-solution day="1" lines="10-20" -->  an excerpt of the solution for a day
//	<!--#include-snippet file="example.rs" -->       a file next to the page
//	<!--#include-diff a="v1.rs" b="v2.rs" -->        the diff between two files next to the page
//
// All of them accept a lang attribute to override the language used for highlighting and a
// display attribute to override the file name shown above the code.
type Renderer struct {
	hl            *highlight.Highlighter
	snippet, diff *template.Template
	solutionsDir  string
}

// NewRenderer returns a renderer that reads solutions from solutionsDir and renders them with
// the fragments/include_snippet and fragments/include_diff templates.
func NewRenderer(hl *highlight.Highlighter, templates *template.Template, solutionsDir string) *Renderer {
	return &Renderer{
		hl:           hl,
		snippet:      templates.Lookup("fragments/include_snippet"),
		diff:         templates.Lookup("fragments/include_diff"),
		solutionsDir: solutionsDir,
	}
}

type snippet struct {
	File     string
	FilePath string
	Lines    []highlight.Line
}

type diff struct {
	File     string
	FilePath string
	Diff     []highlight.Edit
}

// Render replaces all directives in data, the rendered content of doc.
func (r *Renderer) Render(s *site.Site, doc *site.Doc, data []byte) ([]byte, error) {
	dirs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse directives: %v", err)
	}

	if len(dirs) == 0 {
		return data, nil
	}

	var buf bytes.Buffer
	pos := 0
	for _, dir := range dirs {
		buf.Write(data[pos:dir.Pos])

		var err error
		switch dir.Name {
		case "include-solution":
			err = r.includeSolution(&buf, s, &dir)
		case "include-snippet":
			err = r.includeSnippet(&buf, s, doc, &dir)
		case "include-diff":
			err = r.includeDiff(&buf, s, doc, &dir)
		default:
			err = fmt.Errorf("unknown directive: %s", dir.Name)
		}
		if err != nil {
			return nil, err
		}
		pos = dir.End
	}
	buf.Write(data[pos:])
	return buf.Bytes(), nil
}

func (r *Renderer) includeSolution(buf *bytes.Buffer, s *site.Site, dir *Directive) error {
	day, err := dir.PositiveInt("day")
	if err != nil {
		return err
	}
	name := fmt.Sprintf("day_%d.rs", day)
	b, err := os.ReadFile(filepath.Join(r.solutionsDir, name))
	if err != nil {
		return fmt.Errorf("include-solution: %v", err)
	}

	lines, err := r.lines(dir, string(b), highlight.Lang(dir.Attr("lang", "rust")))
	if err != nil {
		return fmt.Errorf("include-solution: %v", err)
	}

	link := ""
	for _, d := range s.Solutions() {
		if d.Day == day {
			link, _ = d.Links.Get(solutions.Source)
		}
	}

	err = r.execute(r.snippet, "fragments/include_snippet", buf, snippet{
		File:     dir.Attr("display", "src/"+name),
		FilePath: link,
		Lines:    lines,
	})
	if err != nil {
		return fmt.Errorf("rendering include-solution: %v", err)
	}
	return nil
}

func (r *Renderer) includeSnippet(buf *bytes.Buffer, s *site.Site, doc *site.Doc, dir *Directive) error {
	file := dir.Attr("file", "")
	if file == "" {
		return fmt.Errorf("include-snippet: missing or empty file attribute")
	}
	b, err := os.ReadFile(filepath.Join(filepath.Dir(doc.Source), file))
	if err != nil {
		return fmt.Errorf("include-snippet: %v", err)
	}

	lines, err := r.lines(dir, string(b), langOption(dir, file))
	if err != nil {
		return fmt.Errorf("include-snippet: %v", err)
	}

	err = r.execute(r.snippet, "fragments/include_snippet", buf, snippet{
		File:     dir.Attr("display", file),
		FilePath: s.URL(path.Join(docDir(doc), file)),
		Lines:    lines,
	})
	if err != nil {
		return fmt.Errorf("rendering include-snippet: %v", err)
	}
	return nil
}

func (r *Renderer) includeDiff(buf *bytes.Buffer, s *site.Site, doc *site.Doc, dir *Directive) error {
	afile, bfile := dir.Attr("a", ""), dir.Attr("b", "")
	if afile == "" || bfile == "" {
		return fmt.Errorf("include-diff: missing or empty file attribute")
	}
	var a []byte
	if afile != "/dev/null" {
		var err error
		a, err = os.ReadFile(filepath.Join(filepath.Dir(doc.Source), afile))
		if err != nil {
			return fmt.Errorf("include-diff: %v", err)
		}
	}
	b, err := os.ReadFile(filepath.Join(filepath.Dir(doc.Source), bfile))
	if err != nil {
		return fmt.Errorf("include-diff: %v", err)
	}

	edits, err := r.hl.Diff(string(a), string(b), langOption(dir, bfile))
	if err != nil {
		return fmt.Errorf("include-diff: %v", err)
	}

	err = r.execute(r.diff, "fragments/include_diff", buf, diff{
		File:     dir.Attr("display", bfile),
		FilePath: s.URL(path.Join(docDir(doc), bfile)),
		Diff:     edits,
	})
	if err != nil {
		return fmt.Errorf("rendering include-diff: %v", err)
	}
	return nil
}

func (r *Renderer) lines(dir *Directive, code string, opt highlight.Option) ([]highlight.Line, error) {
	lines, err := r.hl.Lines(code, opt)
	if err != nil {
		return nil, err
	}
	if spec := dir.Attr("lines", ""); spec != "" {
		return selectLines(lines, spec)
	}
	return lines, nil
}

func (r *Renderer) execute(t *template.Template, name string, buf *bytes.Buffer, data any) error {
	if t == nil {
		return fmt.Errorf("template not found %s", name)
	}
	return t.Execute(buf, data)
}

func langOption(dir *Directive, file string) highlight.Option {
	if lang := dir.Attr("lang", ""); lang != "" {
		return highlight.Lang(lang)
	}
	return highlight.LangFromFilename(file)
}

// selectLines returns the lines in the range spec. A range is either a single line "7" or an
// inclusive range "7-12". Either end of a range can be left out.
func selectLines(lines []highlight.Line, spec string) ([]highlight.Line, error) {
	from, to := 1, len(lines)
	var err error
	lo, hi, isRange := strings.Cut(spec, "-")
	if lo = strings.TrimSpace(lo); lo != "" {
		if from, err = strconv.Atoi(lo); err != nil {
			return nil, fmt.Errorf("invalid line range %q", spec)
		}
	}
	switch hi = strings.TrimSpace(hi); {
	case !isRange:
		to = from
	case hi != "":
		if to, err = strconv.Atoi(hi); err != nil {
			return nil, fmt.Errorf("invalid line range %q", spec)
		}
	}
	if from < 1 || to > len(lines) || from > to {
		return nil, fmt.Errorf("line range %q out of bounds, file has %d lines", spec, len(lines))
	}
	return lines[from-1 : to], nil
}

// docDir returns the URL path of the directory the source of doc is in.
func docDir(doc *site.Doc) string {
	if filepath.Base(doc.Source) == "index.md" {
		return doc.Path
	}
	return path.Dir(doc.Path)
}
