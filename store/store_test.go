package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/cardflowhq/cardflow/deck"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "cardflow.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSlides() []deck.Slide {
	return []deck.Slide{{
		ID:     1,
		Layout: deck.LayoutTitle,
		Elements: []deck.Element{{
			ID:   "t1",
			Kind: deck.KindText,
			Box:  &deck.Box{X: 0, Y: 0, Width: 100, Height: 100},
			Text: &deck.TextPayload{Content: "Hello", FontSize: 48, IsHeading: true, Level: 1},
		}},
	}}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, &Project{Name: "Q3 deck", Kind: "pptx", Theme: "modern", Slides: sampleSlides()})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Name != "Q3 deck" || p.Kind != "pptx" || p.Theme != "modern" {
		t.Errorf("metadata mismatch: %+v", p)
	}
	if len(p.Slides) != 1 || len(p.Slides[0].Elements) != 1 {
		t.Fatalf("slides did not round-trip: %+v", p.Slides)
	}
	el := p.Slides[0].Elements[0]
	if el.Text == nil || el.Text.Content != "Hello" || el.Box == nil || el.Box.Width != 100 {
		t.Errorf("element did not round-trip: %+v", el)
	}
}

func TestUpdateProject(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, &Project{Name: "draft", Kind: "html", Theme: "modern", Slides: sampleSlides()})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	err = s.Update(ctx, &Project{ID: id, Name: "final", Theme: "corporate", Slides: nil})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Name != "final" || p.Theme != "corporate" {
		t.Errorf("update not applied: %+v", p)
	}
	if p.Slides == nil {
		t.Error("Slides must never come back nil")
	}

	if err := s.Update(ctx, &Project{ID: 9999, Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestListOmitsPayload(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, name := range []string{"one", "two"} {
		if _, err := s.Save(ctx, &Project{Name: name, Kind: "pdf", Theme: "modern", Slides: sampleSlides()}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	projects, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("got %d projects, want 2", len(projects))
	}
	for _, p := range projects {
		if p.Slides != nil {
			t.Errorf("List should not load slide payloads: %+v", p.Slides)
		}
	}
}

func TestDeleteProject(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, &Project{Name: "gone soon", Kind: "docx", Theme: "modern"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for double delete, got %v", err)
	}
}

func TestClosedStore(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := s.Save(ctx, &Project{Name: "x"}); !errors.Is(err, ErrClosed) {
		t.Errorf("Save on closed store: %v", err)
	}
	if _, err := s.List(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("List on closed store: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("double Close should be a no-op: %v", err)
	}
}
