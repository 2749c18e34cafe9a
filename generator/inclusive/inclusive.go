// Package inclusive finds words in rendered pages that can make a write-up feel dismissive to
// readers, like "obviously" or "just".
package inclusive

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultWords are the words reported unless others are configured.
var DefaultWords = []string{
	"simply",
	"obviously",
	"basically",
	"of course",
	"clearly",
	"just",
	"everyone knows",
	"however",
	"easy",
}

// Finding is a word that was found and how often.
type Finding struct {
	Word  string
	Count int
}

func (f Finding) String() string {
	return fmt.Sprintf("Be careful with %q (%dx)", f.Word, f.Count)
}

// Linter checks documents for a fixed list of words.
type Linter struct {
	words []string
	re    *regexp.Regexp
}

// New returns a linter for words. Matching ignores case and only matches whole words.
func New(words []string) *Linter {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(strings.ToLower(w)), " ", `\s+`)
	}
	return &Linter{
		words: words,
		re:    regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`),
	}
}

// Check returns the words found in the text of the HTML fragment in, in the order they were
// configured. Code, math and scripts are not checked.
func (l *Linter) Check(in []byte) ([]Finding, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(in))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %v", err)
	}
	doc.Find("pre, code, script, style, math").Remove()

	counts := make(map[string]int)
	for _, m := range l.re.FindAllString(doc.Text(), -1) {
		word := strings.Join(strings.Fields(strings.ToLower(m)), " ")
		counts[word]++
	}

	var ret []Finding
	for _, w := range l.words {
		if n := counts[strings.ToLower(w)]; n > 0 {
			ret = append(ret, Finding{w, n})
		}
	}
	return ret, nil
}
