package metadata

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kamioftea/advent-of-code-2025/pubs/generator/site"
	"gopkg.in/yaml.v3"
)

// Parse extracts the metadata header from in, if any. Two formats are supported. The first is YAML
// front matter
//
//	---
//	header: "Day 1: Secret Entrance"
//	day: 1
//	tags: [post]
//	---
//
// The second is a heading followed by metadata lines
//
//	# <header>
//	:<key>: <value>
//	:<key>: <value>
//
// It returns the parsed [site.Metadata] and the remaining input data (i.e. everything after the
// metadata header).
func Parse(in []byte) (*site.Metadata, []byte, error) {
	if fm, rest, ok := frontMatter(in); ok {
		return parseYAML(fm, rest)
	}
	return parseLines(in)
}

func frontMatter(in []byte) (fm, rest []byte, ok bool) {
	const delim = "---"

	in = bytes.TrimPrefix(in, []byte("\ufeff"))
	first, after, found := bytes.Cut(in, []byte("\n"))
	if !found || string(bytes.TrimRight(first, " \r")) != delim {
		return nil, in, false
	}

	pos := 0
	for pos < len(after) {
		line := after[pos:]
		eol := bytes.IndexByte(line, '\n')
		if eol >= 0 {
			line = line[:eol]
		}
		if string(bytes.TrimRight(line, " \r")) == delim {
			fm = after[:pos]
			if eol < 0 {
				return fm, nil, true
			}
			return fm, after[pos+eol+1:], true
		}
		if eol < 0 {
			break
		}
		pos += eol + 1
	}
	return nil, in, false
}

type yamlMeta struct {
	Title       string  `yaml:"title"`
	Header      string  `yaml:"header"`
	Day         int     `yaml:"day"`
	Description string  `yaml:"description"`
	Tags        tagList `yaml:"tags"`
	Layout      string  `yaml:"layout"`
	Permalink   string  `yaml:"permalink"`
	Published   string  `yaml:"published"`
	Date        string  `yaml:"date"`
	Updated     string  `yaml:"updated"`
	Draft       bool    `yaml:"draft"`
}

// tagList accepts a single tag as well as a list of tags.
type tagList []string

func (t *tagList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*t = splitTags(node.Value)
		return nil
	case yaml.SequenceNode:
		var tags []string
		if err := node.Decode(&tags); err != nil {
			return err
		}
		*t = tags
		return nil
	default:
		return fmt.Errorf("line %d: tags must be a string or a list", node.Line)
	}
}

func parseYAML(fm, rest []byte) (*site.Metadata, []byte, error) {
	var ym yamlMeta
	if err := yaml.Unmarshal(fm, &ym); err != nil {
		return nil, nil, fmt.Errorf("parsing front matter: %v", err)
	}

	published, err := parseTime("published", cmp.Or(ym.Published, ym.Date))
	if err != nil {
		return nil, nil, err
	}
	updated, err := parseTime("updated", ym.Updated)
	if err != nil {
		return nil, nil, err
	}
	if updated.IsZero() {
		updated = published
	}

	return &site.Metadata{
		Title:       ym.Title,
		Header:      ym.Header,
		Day:         ym.Day,
		Description: ym.Description,
		Tags:        []string(ym.Tags),
		Layout:      ym.Layout,
		Permalink:   ym.Permalink,
		Published:   published,
		Updated:     updated,
		Draft:       ym.Draft,
	}, trimBlankLines(rest), nil
}

func parseLines(in []byte) (*site.Metadata, []byte, error) {
	meta := site.Metadata{}

	// Take the header from the first heading. This assumes that every document starts with the
	// heading and doesn't have anything before it.
	if len(in) > 2 && in[0] == '#' && in[1] == ' ' {
		eol := slices.Index(in, '\n')
		if eol < 0 {
			meta.Header = strings.TrimSpace(string(in[1:]))
			return &meta, nil, nil
		}
		meta.Header = strings.TrimSpace(string(in[1:eol]))
		in = in[eol+1:]
	}

	// Parse metadata lines. These lines follow a simple format:
	//   :<key>: <value>
	metadir := make(map[string]string)
	for len(in) > 0 && in[0] == ':' {
		pos := 1
		end := pos + slices.Index(in[pos:], ':')
		if end < pos {
			break
		}

		key := string(in[pos:end])

		var val strings.Builder
		for {
			pos = end + 1
			if pos >= len(in) {
				break
			}
			if eol := slices.Index(in[pos:], '\n'); eol < 0 {
				end = len(in)
			} else {
				end = pos + eol
			}
			if in[end-1] == '\\' {
				val.Write(in[pos : end-1])
				val.WriteByte('\n')
			} else {
				val.Write(in[pos:end])
				break
			}
		}
		if end < len(in) {
			in = in[end+1:]
		} else {
			in = nil
		}

		metadir[key] = strings.TrimSpace(val.String())
	}

	published, err := parseTime("published", metadir["published"])
	if err != nil {
		return nil, nil, err
	}
	updated, err := parseTime("updated", metadir["updated"])
	if err != nil {
		return nil, nil, err
	}
	if updated.IsZero() {
		updated = published
	}

	if v, ok := metadir["day"]; ok {
		day, err := strconv.Atoi(v)
		if err != nil || day <= 0 {
			return nil, nil, fmt.Errorf("parsing day: %q is not a positive number", v)
		}
		meta.Day = day
	}

	meta.Title = metadir["title"]
	meta.Description = metadir["description"]
	meta.Tags = splitTags(metadir["tags"])
	meta.Layout = metadir["layout"]
	meta.Permalink = metadir["permalink"]
	meta.Published = published
	meta.Updated = updated
	meta.Draft = metadir["draft"] == "true"
	return &meta, trimBlankLines(in), nil
}

func parseTime(key, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", v, tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %v", key, err)
	}
	return t, nil
}

func splitTags(s string) []string {
	var tags []string
	for tag := range strings.SplitSeq(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func trimBlankLines(in []byte) []byte {
	for len(in) > 0 && (in[0] == '\n' || in[0] == '\r') {
		in = in[1:]
	}
	if len(in) == 0 {
		return nil
	}
	return in
}

var tz *time.Location

func init() {
	var err error
	tz, err = time.LoadLocation("Europe/London")
	if err != nil {
		panic(err)
	}
}
