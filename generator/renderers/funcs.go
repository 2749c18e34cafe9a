package renderers

import (
	"html/template"
	"time"

	"github.com/kamioftea/advent-of-code-2025/pubs/generator/site"
)

// Funcs returns the functions available in templates.
//
//	url     prefixes a site relative URL with the path prefix
//	absurl  turns a site relative URL into an absolute one
//	date    formats a date as "1 December 2025", the zero date as an empty string
//	isodate formats a date as "2025-12-01", the zero date as an empty string
func Funcs(cfg site.Config) template.FuncMap {
	return template.FuncMap{
		"url": func(path string) string {
			return site.PrefixURL(cfg.PathPrefix, path)
		},
		"absurl": func(path string) string {
			return absURL(cfg, path)
		},
		"date": func(t time.Time) string {
			return formatDate(t, "2 January 2006")
		},
		"isodate": func(t time.Time) string {
			return formatDate(t, time.DateOnly)
		},
	}
}

func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}
