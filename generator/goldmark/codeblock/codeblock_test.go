package codeblock

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yuin/goldmark"
)

type fakeHighlighter struct {
	langs   map[string]bool
	err     error
	calls   int
	lastIn  string
	lastFor string
}

func (f *fakeHighlighter) Supports(lang string) bool { return f.langs[lang] }

func (f *fakeHighlighter) Block(code, lang string) (string, error) {
	f.calls++
	f.lastIn, f.lastFor = code, lang
	if f.err != nil {
		return "", f.err
	}
	return "<b>" + code + "</b>", nil
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"rust", "rust"},
		{"Rust", "rust"},
		{"C++", "c-"},
		{"objective-c", "objective-c"},
		{"a  b..c", "a-b-c"},
		{"++x", "-x"},
		{"Shell Session", "shell-session"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name      string
		hl        *fakeHighlighter
		code      string
		lang      string
		want      string
		wantCalls int
	}{
		{
			name:      "unknown_language",
			hl:        &fakeHighlighter{},
			code:      "a < b",
			lang:      "nonexistent-lang",
			want:      `<pre class="hljs"><code class="code-block nonexistent-lang">a &lt; b</code></pre>`,
			wantCalls: 0,
		},
		{
			name:      "quotes",
			hl:        &fakeHighlighter{},
			code:      `println!("it's {}", x)`,
			lang:      "",
			want:      `<pre class="hljs"><code class="code-block ">println!(&quot;it's {}&quot;, x)</code></pre>`,
			wantCalls: 0,
		},
		{
			name:      "no_language",
			hl:        &fakeHighlighter{langs: map[string]bool{"": true}},
			code:      "a < b",
			lang:      "",
			want:      `<pre class="hljs"><code class="code-block ">a &lt; b</code></pre>`,
			wantCalls: 0,
		},
		{
			name:      "highlighted",
			hl:        &fakeHighlighter{langs: map[string]bool{"C++": true}},
			code:      "int x;",
			lang:      "C++",
			want:      `<pre class="hljs"><code class="code-block c-"><b>int x;</b></code></pre>`,
			wantCalls: 1,
		},
		{
			name:      "highlighter_fails",
			hl:        &fakeHighlighter{langs: map[string]bool{"rust": true}, err: errors.New("boom")},
			code:      "a && b",
			lang:      "rust",
			want:      `<pre class="hljs"><code class="code-block rust">a &amp;&amp; b</code></pre>`,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.hl, tt.code, tt.lang)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Render() mismatch (-want +got):\n%s", diff)
			}
			if tt.hl.calls != tt.wantCalls {
				t.Errorf("highlighter called %d times, want %d", tt.hl.calls, tt.wantCalls)
			}
		})
	}
}

func TestExtension(t *testing.T) {
	hl := &fakeHighlighter{langs: map[string]bool{"rust": true}}
	md := goldmark.New(goldmark.WithExtensions(New(hl)))

	in := "```rust title\nfn main() {}\n```\n\n    indented\n"
	var buf bytes.Buffer
	if err := md.Convert([]byte(in), &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `<pre class="hljs"><code class="code-block rust"><b>fn main() {}
</b></code></pre>
<pre><code>indented
</code></pre>
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
	}
	if hl.lastFor != "rust" {
		t.Errorf("highlighted language %q, want rust", hl.lastFor)
	}
}
