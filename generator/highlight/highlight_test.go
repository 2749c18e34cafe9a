package highlight

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/google/go-cmp/cmp"
)

func TestSupports(t *testing.T) {
	tests := []struct {
		lang string
		want bool
	}{
		{"rust", true},
		{"go", true},
		{"C++", true},
		{"Rust", true},
		{"rs", true},
		{"", false},
		{"foo.rs", false},
		{"main.go", false},
		{"nonexistent-lang", false},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			if got := Default.Supports(tt.lang); got != tt.want {
				t.Errorf("Supports(%q) = %v, want %v", tt.lang, got, tt.want)
			}
		})
	}
}

func TestBlock(t *testing.T) {
	got, err := Default.Block("// hello\n", "rust")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<span class="hljs-comment">// hello
</span>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Block() mismatch (-want +got):\n%s", diff)
	}
}

func TestBlock_Escapes(t *testing.T) {
	got, err := Default.Block("let x = a < b;\n", "rust")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "a < b") || !strings.Contains(got, "&lt;") {
		t.Errorf("Block() did not escape input: %s", got)
	}
}

func TestBlock_UnsupportedLanguage(t *testing.T) {
	for _, lang := range []string{"nonexistent-lang", "foo.rs"} {
		_, err := Default.Block("a < b", lang)
		if !errors.Is(err, ErrUnsupportedLanguage) {
			t.Errorf("Block(%q) error = %v, want %v", lang, err, ErrUnsupportedLanguage)
		}
	}
}

func TestNew_CopiesClasses(t *testing.T) {
	classes := map[chroma.TokenType]string{chroma.Comment: "c"}
	hl := New(classes)
	classes[chroma.Comment] = "changed"

	got, err := hl.Block("// x\n", "go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, `<span class="c">`) {
		t.Errorf("Block() = %s, want class c", got)
	}
}

func TestLines(t *testing.T) {
	got, err := Default.Lines("fn main() {\n}\n", Lang("rust"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Lines() returned %d lines, want 2", len(got))
	}
	for i, l := range got {
		if l.LineNo != i+1 {
			t.Errorf("line %d has LineNo %d", i, l.LineNo)
		}
	}
	if !strings.Contains(string(got[0].Content), `<span class="hljs-keyword">fn</span>`) {
		t.Errorf("first line not highlighted: %s", got[0].Content)
	}
}

func TestDiff(t *testing.T) {
	a := "a\nb\nc\n"
	b := "a\nc\nd\n"
	got, err := Default.Diff(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	type edit struct {
		X, Y int
		Text string
	}
	var gotEdits []edit
	for _, e := range got {
		gotEdits = append(gotEdits, edit{e.XLineNo, e.YLineNo, strings.TrimSpace(string(e.Content))})
	}
	want := []edit{
		{1, 1, "a"},
		{2, -1, "b"},
		{3, 2, "c"},
		{-1, 3, "d"},
	}
	if diff := cmp.Diff(want, gotEdits); diff != "" {
		t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
	}
}
