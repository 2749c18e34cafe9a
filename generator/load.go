package main

import (
	"cmp"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/kamioftea/advent-of-code-2025/pubs/generator/config"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/directives"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/goldmark"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/highlight"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/inclusive"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/metadata"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/renderers"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/site"
	"github.com/kamioftea/advent-of-code-2025/pubs/generator/solutions"
)

// options are the options to load a site with.
type options struct {
	config   config.Config
	markdown goldmark.Options
}

// load loads the site described by opts.
func load(opts options) (*site.Site, error) {
	cfg := site.Config{
		PathPrefix: opts.config.PathPrefix,
		BaseURL:    opts.config.SiteURL,
	}

	templates, err := loadTemplates(filepath.Join(opts.config.Dir, "templates"), renderers.Funcs(cfg))
	if err != nil {
		return nil, fmt.Errorf("loading templates: %v", err)
	}

	l := &loader{
		templates:  templates,
		converter:  goldmark.New(highlight.Default, opts.markdown),
		directives: directives.NewRenderer(highlight.Default, templates, opts.config.SolutionsDir),
		markdown:   make(map[string]*renderers.MarkdownRenderer),
	}
	docs, err := l.loadDocs(filepath.Join(opts.config.Dir, "site"))
	if err != nil {
		return nil, err
	}

	docs = append(docs, &site.Doc{
		Path:     renderers.FeedPath,
		MimeType: "application/atom+xml;charset=utf-8",
		Renderer: renderers.Atom,
	})

	days, err := solutions.Derive(opts.config.SolutionsDir, site.PostIndex(docs))
	if err != nil {
		return nil, fmt.Errorf("deriving solutions: %v", err)
	}

	s, err := site.New(cfg, docs, days)
	if err != nil {
		return nil, err
	}
	lint(s, inclusive.New(inclusive.DefaultWords))
	return s, nil
}

// lint logs the findings of the linter for every page. Pages that fail to render are skipped,
// the error shows up when the page is rendered for real.
func lint(s *site.Site, linter *inclusive.Linter) {
	for _, doc := range s.AllDocs() {
		if doc.Meta == nil {
			continue
		}
		content, err := s.RenderContent(doc)
		if err != nil {
			continue
		}
		findings, err := linter.Check(content)
		if err != nil {
			log.Printf("%s: %v", doc.Path, err)
			continue
		}
		for _, f := range findings {
			log.Printf("%s: %v", doc.Path, f)
		}
	}
}

func loadTemplates(dir string, funcs template.FuncMap) (*template.Template, error) {
	root := template.New("").Funcs(funcs)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".html") {
			return err
		}

		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		name := filepath.ToSlash(path[len(dir)+1 : len(path)-len(".html")])
		if _, err = root.New(name).Parse(string(b)); err != nil {
			return err
		}

		return nil
	})
	return root, err
}

type loader struct {
	templates  *template.Template
	converter  *goldmark.Converter
	directives *directives.Renderer
	markdown   map[string]*renderers.MarkdownRenderer // by layout
}

func (l *loader) markdownRenderer(layout string) (*renderers.MarkdownRenderer, error) {
	layout = cmp.Or(layout, renderers.DefaultLayout)
	if r, ok := l.markdown[layout]; ok {
		return r, nil
	}

	r, err := renderers.NewMarkdownRenderer(l.converter, l.directives, l.templates, layout)
	if err != nil {
		return nil, err
	}
	l.markdown[layout] = r
	return r, nil
}

func (l *loader) loadDocs(dir string) ([]*site.Doc, error) {
	var docs []*site.Doc
	err := filepath.WalkDir(dir, func(fpath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if _, err := os.Stat(filepath.Join(fpath, ".ignore")); err == nil {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		doc, err := l.loadDoc(dir, fpath)
		if err != nil {
			return fmt.Errorf("%s: %v", fpath, err)
		}
		if doc != nil {
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading docs: %v", err)
	}
	return docs, nil
}

// loadDoc loads a single file. It returns nil for drafts.
func (l *loader) loadDoc(root, fpath string) (*site.Doc, error) {
	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil, fmt.Errorf("reading file: %v", err)
	}

	doc := &site.Doc{
		Source:   fpath,
		Data:     data,
		Renderer: renderers.Passthrough,
	}

	urlpath := filepath.ToSlash(strings.TrimPrefix(fpath, root))
	if filepath.Ext(fpath) != ".md" {
		doc.Path = urlpath
		doc.MimeType = cmp.Or(mime.TypeByExtension(filepath.Ext(fpath)), "application/octet-stream")
		return doc, nil
	}

	doc.Meta, doc.Data, err = metadata.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing metadata: %v", err)
	}
	if doc.Meta.Draft {
		return nil, nil
	}

	doc.Path = pagePath(urlpath, doc.Meta.Permalink)
	doc.MimeType = "text/html;charset=UTF-8"
	if doc.Renderer, err = l.markdownRenderer(doc.Meta.Layout); err != nil {
		return nil, err
	}
	return doc, nil
}

// pagePath returns the URL path of a Markdown page at the slash separated path p, relative to the
// site directory. An index.md is served at the URL of its directory.
func pagePath(p, permalink string) string {
	if permalink != "" {
		return path.Clean("/" + permalink)
	}

	dir, base := path.Split(p)
	if name := strings.TrimSuffix(base, ".md"); name != "index" {
		return dir + name
	}
	if dir == "/" {
		return dir
	}
	return strings.TrimSuffix(dir, "/")
}
