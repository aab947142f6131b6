package parser

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cardflowhq/cardflow/deck"
)

// XLSXIngestor turns each sheet of a spreadsheet into one content card:
// a heading element named after the sheet and a body element holding
// the rows as pipe-separated lines. Formulas are taken at their cached
// values; no evaluation happens here.
type XLSXIngestor struct {
	rng *rand.Rand
}

func (p *XLSXIngestor) SupportedFormats() []string { return []string{"xlsx", "xls"} }

func (p *XLSXIngestor) Ingest(ctx context.Context, data []byte) ([]deck.Slide, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening XLSX: %w", err)
	}
	defer f.Close()

	var slides []deck.Slide
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}

		var content strings.Builder
		for _, row := range rows {
			content.WriteString("| " + strings.Join(row, " | ") + " |\n")
		}

		elements := []deck.Element{
			{
				ID:   deck.NewID(p.rng, "el", 9),
				Kind: deck.KindText,
				Text: &deck.TextPayload{
					Content:   sheet,
					FontSize:  24,
					IsHeading: true,
					Level:     1,
				},
			},
			{
				ID:   deck.NewID(p.rng, "el", 9),
				Kind: deck.KindText,
				Text: &deck.TextPayload{
					Content:  content.String(),
					FontSize: 16,
					Level:    2,
				},
			},
		}

		slides = append(slides, deck.Slide{
			ID:       len(slides) + 1,
			Layout:   deck.Classify(elements),
			Elements: elements,
		})
	}

	if len(slides) == 0 {
		return nil, fmt.Errorf("no data found in XLSX")
	}
	return slides, nil
}
