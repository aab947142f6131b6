package cards

import (
	"math/rand"
	"testing"

	"github.com/cardflowhq/cardflow/deck"
)

func testConverter() *Converter {
	return NewConverter(WithRand(rand.New(rand.NewSource(1))))
}

func TestConvertHeadingBoundaries(t *testing.T) {
	slides, err := testConverter().Convert(`<h1>A</h1><p>x</p><h2>B</h2><p>y</p><p>z</p>`)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(slides) != 2 {
		t.Fatalf("got %d slides, want 2", len(slides))
	}

	if slides[0].ID != 1 || slides[1].ID != 2 {
		t.Errorf("ids = %d, %d, want 1, 2", slides[0].ID, slides[1].ID)
	}
	if len(slides[0].Elements) != 1 || slides[0].Elements[0].Content() != "x" {
		t.Errorf("slide 1 elements = %+v, want single \"x\"", slides[0].Elements)
	}
	if len(slides[1].Elements) != 2 {
		t.Fatalf("slide 2 has %d elements, want 2", len(slides[1].Elements))
	}
	if slides[1].Elements[0].Content() != "y" || slides[1].Elements[1].Content() != "z" {
		t.Errorf("slide 2 contents = %q, %q", slides[1].Elements[0].Content(), slides[1].Elements[1].Content())
	}
}

func TestConvertTrailingContentFinalized(t *testing.T) {
	slides, err := testConverter().Convert(`<h1>A</h1><p>x</p><h2>B</h2><p>tail</p>`)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(slides) != 2 {
		t.Fatalf("got %d slides, want 2 (trailing card must not be dropped)", len(slides))
	}
	if slides[1].Elements[0].Content() != "tail" {
		t.Errorf("trailing card content = %q", slides[1].Elements[0].Content())
	}
}

func TestConvertLeadingContentBeforeHeading(t *testing.T) {
	slides, err := testConverter().Convert(`<p>intro</p><h1>A</h1><p>x</p>`)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(slides) != 2 {
		t.Fatalf("got %d slides, want 2", len(slides))
	}
	if slides[0].Elements[0].Content() != "intro" {
		t.Errorf("leading card content = %q", slides[0].Elements[0].Content())
	}
}

func TestConvertStripsMarkup(t *testing.T) {
	slides, err := testConverter().Convert(`<p>one <strong>bold</strong> and <em>italic</em></p>`)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(slides) != 1 {
		t.Fatalf("got %d slides, want 1", len(slides))
	}
	if got := slides[0].Elements[0].Content(); got != "one bold and italic" {
		t.Errorf("content = %q, want flattened text", got)
	}
}

func TestConvertBlockTypes(t *testing.T) {
	markup := `<h3>sub</h3><p>para</p><ul><li>a</li><li>b</li></ul><blockquote>quote</blockquote>` +
		`<img src="data:image/png;base64,AA=="/><table><tr><td>ignored</td></tr></table>`
	slides, err := testConverter().Convert(markup)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(slides) != 1 {
		t.Fatalf("got %d slides, want 1", len(slides))
	}

	els := slides[0].Elements
	if len(els) != 5 {
		t.Fatalf("got %d elements, want 5 (unrecognized blocks are ignored): %+v", len(els), els)
	}

	h3 := els[0]
	if h3.Text == nil || !h3.Text.IsHeading || h3.Text.Level != 3 || h3.Text.FontSize != 24 {
		t.Errorf("h3 element = %+v", h3.Text)
	}
	if els[1].Text.IsHeading || els[1].Text.FontSize != 16 {
		t.Errorf("p element = %+v", els[1].Text)
	}
	if els[2].Content() != "ab" {
		t.Errorf("list content = %q", els[2].Content())
	}
	img := els[4]
	if img.Kind != deck.KindImage || img.Image.DataURI != "data:image/png;base64,AA==" {
		t.Errorf("img element = %+v", img)
	}
	// Flow-derived elements carry no page coordinates.
	for i, el := range els {
		if el.Box != nil {
			t.Errorf("element[%d] has a box: %+v", i, el.Box)
		}
	}
}

func TestConvertEmptyBlocksSkipped(t *testing.T) {
	slides, err := testConverter().Convert(`<p>   </p><p></p>`)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(slides) != 0 {
		t.Errorf("got %d slides, want 0 (empty blocks never form a card)", len(slides))
	}
}

func TestConvertAccentColorsFromPalette(t *testing.T) {
	slides, err := testConverter().Convert(`<h1>A</h1><p>x</p><h2>B</h2><p>y</p>`)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	palette := make(map[string]bool, len(AccentPalette))
	for _, c := range AccentPalette {
		palette[c] = true
	}
	for _, s := range slides {
		if !palette[s.AccentColor] {
			t.Errorf("slide %d accent %q not in palette", s.ID, s.AccentColor)
		}
	}
}

func TestConvertDeterministicWithSeed(t *testing.T) {
	markup := `<h1>A</h1><p>x</p><h2>B</h2><p>y</p>`
	a, err := NewConverter(WithRand(rand.New(rand.NewSource(42)))).Convert(markup)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	b, err := NewConverter(WithRand(rand.New(rand.NewSource(42)))).Convert(markup)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	for i := range a {
		if a[i].AccentColor != b[i].AccentColor {
			t.Errorf("slide %d accent differs across seeded runs", i+1)
		}
		for j := range a[i].Elements {
			if a[i].Elements[j].ID != b[i].Elements[j].ID {
				t.Errorf("element ids differ across seeded runs")
			}
		}
	}
}
