package normalisers

import (
	"testing"

	"github.com/custodia-labs/askdesk/internal/core/domain"
)

type stubNormaliser struct {
	exts  []string
	title string
}

func (s *stubNormaliser) Extensions() []string { return s.exts }
func (s *stubNormaliser) Normalise(_ string, data []byte) domain.NewDocument {
	return domain.NewDocument{Title: s.title, Content: string(data)}
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry returned nil")
	}
	if len(r.Extensions()) != 0 {
		t.Errorf("expected empty registry, got %v", r.Extensions())
	}
}

func TestRegistry_For(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{exts: []string{".foo"}, title: "foo"})

	n, ok := r.For("/docs/Notes.FOO")
	if !ok {
		t.Fatal("expected .FOO to match .foo")
	}
	if got := n.Normalise("", nil).Title; got != "foo" {
		t.Errorf("expected foo normaliser, got %q", got)
	}

	if _, ok := r.For("notes.bar"); ok {
		t.Error("expected no normaliser for .bar")
	}
	if r.Supports("noext") {
		t.Error("expected no normaliser for a file without extension")
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{exts: []string{".txt"}, title: "first"})
	r.Register(&stubNormaliser{exts: []string{".txt"}, title: "second"})

	n, _ := r.For("a.txt")
	if got := n.Normalise("", nil).Title; got != "second" {
		t.Errorf("expected later registration to win, got %q", got)
	}
}

func TestDefault(t *testing.T) {
	want := []string{".htm", ".html", ".markdown", ".md", ".txt"}
	got := Default().Extensions()

	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
}
