package parser

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/cardflowhq/cardflow/deck"
)

// PDFIngestor turns each non-empty page into one card, with the page's
// first text line as its heading. Scanned pages without a text layer
// yield nothing; OCR is out of scope.
type PDFIngestor struct {
	rng *rand.Rand
}

func (p *PDFIngestor) SupportedFormats() []string { return []string{"pdf"} }

func (p *PDFIngestor) Ingest(ctx context.Context, data []byte) ([]deck.Slide, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	var slides []deck.Slide
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract.
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		heading, body, _ := strings.Cut(text, "\n")
		elements := []deck.Element{{
			ID:   deck.NewID(p.rng, "el", 9),
			Kind: deck.KindText,
			Text: &deck.TextPayload{
				Content:   strings.TrimSpace(heading),
				FontSize:  24,
				IsHeading: true,
				Level:     1,
			},
		}}
		if body = strings.TrimSpace(body); body != "" {
			elements = append(elements, deck.Element{
				ID:   deck.NewID(p.rng, "el", 9),
				Kind: deck.KindText,
				Text: &deck.TextPayload{
					Content:  body,
					FontSize: 16,
					Level:    2,
				},
			})
		}

		slides = append(slides, deck.Slide{
			ID:       len(slides) + 1,
			Layout:   deck.Classify(elements),
			Elements: elements,
		})
	}

	if len(slides) == 0 {
		return nil, fmt.Errorf("no text found in PDF")
	}
	return slides, nil
}
