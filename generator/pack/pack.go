// Package pack renders every document of a site and writes the result to a tar archive or a
// directory, ready to be served by any static file server.
package pack

import (
	"archive/tar"
	"fmt"
	"io"
	"log"
	"mime"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
	"github.com/tdewolff/minify/v2/xml"

	"github.com/kamioftea/advent-of-code-2025/pubs/generator/site"
)

// Writer receives the files of a packed site.
type Writer interface {
	// WriteFile writes a single file, name is a slash separated path relative to the output root.
	WriteFile(name string, data []byte) error
	Close() error
}

// Options controls how a site is packed.
type Options struct {
	// Minify minifies HTML, CSS, JavaScript, SVG and XML documents.
	Minify bool
}

// Pack renders all documents of s and writes them to w. It doesn't close w.
func Pack(s *site.Site, w Writer, opts Options) error {
	minifier := newMinifier()

	for _, d := range s.AllDocs() {
		b, err := s.RenderPage(d)
		if err != nil {
			return err
		}

		mimetype, _, err := mime.ParseMediaType(d.MimeType)
		if err != nil {
			return fmt.Errorf("invalid mime type %q for %s: %v", d.MimeType, d.Path, err)
		}

		if opts.Minify && minifiable(mimetype) {
			b, err = minifier.Bytes(mimetype, b)
			if err != nil {
				return fmt.Errorf("minification failed for %s: %v", d.Path, err)
			}
		}

		if err := w.WriteFile(OutputPath(d.Path, mimetype), b); err != nil {
			return fmt.Errorf("writing %s: %v", d.Path, err)
		}
	}
	return nil
}

// Tar packs s into a tar archive at filename.
func Tar(filename string, s *site.Site, opts Options) (err error) {
	file, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("opening file: %v", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing file: %v", cerr)
		}
	}()

	w := NewTarWriter(file)
	if err := Pack(s, w, opts); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Dir writes s into the directory dir, which is created if necessary.
func Dir(dir string, s *site.Site, opts Options) error {
	w, err := NewDirWriter(dir)
	if err != nil {
		return err
	}
	if err := Pack(s, w, opts); err != nil {
		return err
	}
	return w.Close()
}

// OutputPath returns the file a document with the given URL path and mime type is stored at.
// HTML documents without an extension become an index.html in a directory of the same name, so
// that static file servers serve them at their URL.
func OutputPath(urlpath, mimetype string) string {
	p := urlpath
	if p == "/" {
		p = "/index.html"
	} else if mimetype == "text/html" && path.Ext(p) == "" {
		p = strings.TrimSuffix(p, "/") + "/index.html"
	}
	return strings.TrimPrefix(p, "/")
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	m.AddFuncRegexp(regexp.MustCompile("[/+]xml$"), xml.Minify)
	return m
}

func minifiable(mimetype string) bool {
	switch mimetype {
	case "text/html", "text/css", "image/svg+xml", "application/atom+xml", "text/javascript":
		return true
	}
	return false
}

type tarWriter struct {
	tw   *tar.Writer
	dirs map[string]bool
}

// NewTarWriter returns a writer that writes a tar archive to w. Directory entries are added
// as needed.
func NewTarWriter(w io.Writer) Writer {
	return &tarWriter{
		tw:   tar.NewWriter(w),
		dirs: make(map[string]bool),
	}
}

func (w *tarWriter) WriteFile(name string, data []byte) error {
	if err := w.mkdirAll(path.Dir(name)); err != nil {
		return err
	}

	hdr := &tar.Header{
		Name: "./" + name,
		Mode: int64(0644),
		Size: int64(len(data)),
	}
	if err := w.tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing header: %v", err)
	}
	if _, err := w.tw.Write(data); err != nil {
		return fmt.Errorf("writing body: %v", err)
	}
	return nil
}

func (w *tarWriter) mkdirAll(dir string) error {
	if w.dirs[dir] {
		return nil
	}
	if dir != "." {
		if err := w.mkdirAll(path.Dir(dir)); err != nil {
			return err
		}
	}

	name := "./" + dir + "/"
	if dir == "." {
		name = "./"
	}
	hdr := &tar.Header{
		Typeflag: tar.TypeDir,
		Name:     name,
		Mode:     int64(0755),
	}
	if err := w.tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing header: %v", err)
	}
	w.dirs[dir] = true
	return nil
}

func (w *tarWriter) Close() error {
	return w.tw.Close()
}

type dirWriter struct {
	root  string
	files int
}

// NewDirWriter returns a writer that writes files below the directory root.
func NewDirWriter(root string) (Writer, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %v", err)
	}
	return &dirWriter{root: root}, nil
}

func (w *dirWriter) WriteFile(name string, data []byte) error {
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return fmt.Errorf("%s is outside of the output directory", name)
	}
	fpath := filepath.Join(w.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(fpath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(fpath, data, 0644); err != nil {
		return err
	}
	w.files++
	return nil
}

func (w *dirWriter) Close() error {
	log.Printf("Wrote %d files to %s", w.files, w.root)
	return nil
}
