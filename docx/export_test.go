package docx

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/cardflowhq/cardflow/deck"
	"github.com/cardflowhq/cardflow/theme"
)

// readPart pulls one member out of an exported package.
func readPart(t *testing.T, pkg []byte, name string) []byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(pkg), int64(len(pkg)))
	if err != nil {
		t.Fatalf("exported package is not a valid zip: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		return data
	}
	t.Fatalf("part %s not found in package", name)
	return nil
}

func textSlide(id int, content string, heading bool) deck.Slide {
	level := 2
	if heading {
		level = 1
	}
	return deck.Slide{
		ID:     id,
		Layout: deck.LayoutContent,
		Elements: []deck.Element{{
			ID:   "t1",
			Kind: deck.KindText,
			Text: &deck.TextPayload{Content: content, IsHeading: heading, Level: level},
		}},
	}
}

func TestExportDocumentStructure(t *testing.T) {
	slides := []deck.Slide{
		textSlide(1, "Main Title", true),
		textSlide(2, "Body text", false),
	}

	pkg, err := Export(slides, theme.Get("modern"))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	doc := string(readPart(t, pkg, "word/document.xml"))

	for _, want := range []string{
		`<w:t xml:space="preserve">Main Title</w:t>`,
		`<w:t xml:space="preserve">Body text</w:t>`,
		`<w:pStyle w:val="Heading1"/>`,
		`<w:rFonts w:ascii="Inter" w:hAnsi="Inter"/>`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document.xml missing %s", want)
		}
	}

	// Heading: 24pt -> 48 half-points, bold, black. Body: 11pt -> 22.
	if !strings.Contains(doc, `<w:sz w:val="48"/>`) || !strings.Contains(doc, `<w:sz w:val="22"/>`) {
		t.Error("font sizes not converted to half-points")
	}
	if !strings.Contains(doc, `<w:b/>`) {
		t.Error("heading bold missing")
	}
	// Colors are embedded without the leading #.
	if strings.Contains(doc, `w:val="#`) {
		t.Error("color embedded with leading #")
	}
	if !strings.Contains(doc, `<w:color w:val="374151"/>`) {
		t.Error("paragraph color missing")
	}

	// Two slides: one section-break paragraph plus the final body-level
	// section properties, both carrying the theme margins untouched.
	if got := strings.Count(doc, "<w:sectPr>"); got != 2 {
		t.Errorf("got %d sectPr blocks, want 2", got)
	}
	if !strings.Contains(doc, `<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440"`) {
		t.Error("theme margins not passed through in twips")
	}

	// Heading spacing: 12pt margin -> 240 twips.
	if !strings.Contains(doc, `<w:spacing w:after="240"/>`) {
		t.Error("heading margin not converted to twips")
	}
}

func TestExportUppercaseTheme(t *testing.T) {
	pkg, err := Export([]deck.Slide{textSlide(1, "Heading", true)}, theme.Get("corporate"))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	doc := string(readPart(t, pkg, "word/document.xml"))
	if !strings.Contains(doc, `<w:caps/>`) {
		t.Error("corporate heading missing caps run property")
	}
	if !strings.Contains(doc, `<w:color w:val="1e3a8a"/>`) {
		t.Error("corporate heading color missing")
	}
}

func TestExportEmbedsImages(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', 1, 2, 3, 4}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	slides := []deck.Slide{{
		ID:     1,
		Layout: deck.LayoutContent,
		Elements: []deck.Element{{
			ID:    "i1",
			Kind:  deck.KindImage,
			Box:   &deck.Box{X: 10, Y: 10, Width: 50, Height: 50},
			Image: &deck.ImagePayload{DataURI: uri},
		}},
	}}

	pkg, err := Export(slides, theme.Get("modern"))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	media := readPart(t, pkg, "word/media/image1.png")
	if !bytes.Equal(media, payload) {
		t.Error("embedded media bytes do not round-trip")
	}

	rels := string(readPart(t, pkg, "word/_rels/document.xml.rels"))
	if !strings.Contains(rels, `Id="rId2"`) || !strings.Contains(rels, `Target="media/image1.png"`) {
		t.Errorf("image relationship missing: %s", rels)
	}

	doc := string(readPart(t, pkg, "word/document.xml"))
	if !strings.Contains(doc, `r:embed="rId2"`) {
		t.Error("drawing does not reference the image relationship")
	}
	if !strings.Contains(doc, `<w:jc w:val="center"/>`) {
		t.Error("image paragraph is not centered")
	}
	// 50% of the 400px base at 9525 EMU/px.
	if !strings.Contains(doc, `cx="1905000"`) || !strings.Contains(doc, `cy="1905000"`) {
		t.Error("image extent not sized by the stored fraction")
	}
}

func TestExportAtomicOnBadImage(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{"not a data URI", "https://example.com/image.png"},
		{"missing payload", "data:image/png;base64"},
		{"invalid base64", "data:image/png;base64,!!!not-base64!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slides := []deck.Slide{
				textSlide(1, "ok so far", true),
				{
					ID:     2,
					Layout: deck.LayoutContent,
					Elements: []deck.Element{{
						ID:    "i1",
						Kind:  deck.KindImage,
						Image: &deck.ImagePayload{DataURI: tt.uri},
					}},
				},
			}

			pkg, err := Export(slides, theme.Get("modern"))
			if !errors.Is(err, ErrExportEncoding) {
				t.Fatalf("expected ErrExportEncoding, got %v", err)
			}
			if pkg != nil {
				t.Error("export returned partial output alongside an error")
			}
		})
	}
}

func TestExportEscapesText(t *testing.T) {
	pkg, err := Export([]deck.Slide{textSlide(1, `Profit <=> "Growth" & more`, false)}, theme.Get("modern"))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	doc := string(readPart(t, pkg, "word/document.xml"))
	if !strings.Contains(doc, "Profit &lt;=&gt; &#34;Growth&#34; &amp; more") {
		t.Error("special characters not escaped in document.xml")
	}
}

func TestExportEmptySlideList(t *testing.T) {
	pkg, err := Export(nil, theme.Get("modern"))
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	// Still a structurally complete package.
	doc := string(readPart(t, pkg, "word/document.xml"))
	if !strings.Contains(doc, "<w:sectPr>") {
		t.Error("empty document missing section properties")
	}
	readPart(t, pkg, "[Content_Types].xml")
	readPart(t, pkg, "_rels/.rels")
	readPart(t, pkg, "word/styles.xml")
}
