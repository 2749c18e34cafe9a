package server

import (
	"log"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/kamioftea/advent-of-code-2025/pubs/generator/site"
)

type handler struct {
	site atomic.Pointer[site.Site]
}

func newHandler(s *site.Site) *handler {
	h := &handler{}
	h.site.Store(s)
	return h
}

func (h *handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s := h.site.Load()

	switch req.Method {
	case http.MethodGet:
	case http.MethodHead:
	default:
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	path := req.URL.EscapedPath()
	prefix := s.Config().PathPrefix
	if prefix != "" {
		if path == "/" || path == prefix {
			http.Redirect(w, req, prefix+"/", http.StatusFound)
			return
		}
		rest, ok := strings.CutPrefix(path, prefix+"/")
		if !ok {
			notFound(w, req)
			return
		}
		path = "/" + rest
	}

	doc := s.Doc(path)
	if doc == nil {
		notFound(w, req)
		return
	}

	w.Header().Set("Content-Type", doc.MimeType)
	if req.Method == http.MethodHead {
		return
	}

	b, err := s.RenderPage(doc)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(err.Error()))
		log.Printf("failed to serve %v: %v", req.URL.EscapedPath(), err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(b); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func notFound(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusNotFound)
	if req.Method == http.MethodGet {
		w.Write([]byte("not found"))
	}
}
