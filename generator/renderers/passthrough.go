package renderers

import "github.com/kamioftea/advent-of-code-2025/pubs/generator/site"

// Passthrough serves documents as they are, it's used for assets.
var Passthrough site.Renderer = &passthroughRenderer{}

type passthroughRenderer struct{}

func (r *passthroughRenderer) RenderContent(_ *site.Site, doc *site.Doc) ([]byte, error) {
	return doc.Data, nil
}

func (r *passthroughRenderer) RenderPage(_ *site.Site, doc *site.Doc) ([]byte, error) {
	return doc.Data, nil
}
