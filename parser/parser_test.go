package parser

import (
	"context"
	"math/rand"
	"testing"

	"github.com/cardflowhq/cardflow/deck"
)

// ---------------------------------------------------------------------------
// Registry tests
// ---------------------------------------------------------------------------

func TestRegistryBuiltInIngestors(t *testing.T) {
	reg := NewRegistry(WithRand(rand.New(rand.NewSource(1))))

	formats := []string{"pptx", "docx", "xlsx", "xls", "pdf", "html", "htm"}
	for _, format := range formats {
		t.Run(format, func(t *testing.T) {
			in, err := reg.Get(format)
			if err != nil {
				t.Fatalf("Get(%q) returned error: %v", format, err)
			}
			found := false
			for _, f := range in.SupportedFormats() {
				if f == format {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("ingestor for %q does not list it in SupportedFormats()", format)
			}
		})
	}
}

func TestRegistryUnknownFormat(t *testing.T) {
	reg := NewRegistry()
	for _, format := range []string{"txt", "csv", "odt", ""} {
		if _, err := reg.Get(format); err == nil {
			t.Errorf("Get(%q) expected error for unknown format", format)
		}
	}
}

func TestRegistryCustomIngestor(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Get("custom"); err == nil {
		t.Fatal("expected error for unregistered format")
	}

	reg.Register("custom", &HTMLIngestor{rng: rand.New(rand.NewSource(1))})
	if _, err := reg.Get("custom"); err != nil {
		t.Fatalf("Get after Register returned error: %v", err)
	}
}

// ---------------------------------------------------------------------------
// HTML ingestion
// ---------------------------------------------------------------------------

func TestHTMLIngest(t *testing.T) {
	reg := NewRegistry(WithRand(rand.New(rand.NewSource(1))))
	in, err := reg.Get("html")
	if err != nil {
		t.Fatalf("Get(html): %v", err)
	}

	slides, err := in.Ingest(context.Background(), []byte(`<h1>A</h1><p>x</p><h2>B</h2><p>y</p><p>z</p>`))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(slides) != 2 {
		t.Fatalf("got %d slides, want 2", len(slides))
	}
	if len(slides[0].Elements) != 1 || len(slides[1].Elements) != 2 {
		t.Errorf("element counts = %d, %d, want 1, 2",
			len(slides[0].Elements), len(slides[1].Elements))
	}
	if slides[0].Elements[0].Kind != deck.KindText {
		t.Errorf("unexpected kind %s", slides[0].Elements[0].Kind)
	}
}

// ---------------------------------------------------------------------------
// Malformed inputs
// ---------------------------------------------------------------------------

func TestIngestMalformedBinaries(t *testing.T) {
	reg := NewRegistry()
	for _, format := range []string{"pptx", "docx", "xlsx", "pdf"} {
		t.Run(format, func(t *testing.T) {
			in, err := reg.Get(format)
			if err != nil {
				t.Fatalf("Get(%q): %v", format, err)
			}
			if _, err := in.Ingest(context.Background(), []byte("definitely not a document")); err == nil {
				t.Errorf("Ingest(%q) expected error for garbage input", format)
			}
		})
	}
}
