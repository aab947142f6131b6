package parser

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/cardflowhq/cardflow/cards"
	"github.com/cardflowhq/cardflow/deck"
	"github.com/cardflowhq/cardflow/docx"
)

// DOCXIngestor converts word-processor packages to flow markup first,
// then segments the markup into cards, so both ingestion paths share
// one text-flattening contract.
type DOCXIngestor struct {
	rng *rand.Rand
}

func (p *DOCXIngestor) SupportedFormats() []string { return []string{"docx"} }

func (p *DOCXIngestor) Ingest(ctx context.Context, data []byte) ([]deck.Slide, error) {
	markup, err := docx.ToHTML(data)
	if err != nil {
		return nil, fmt.Errorf("converting DOCX: %w", err)
	}
	return cards.NewConverter(cards.WithRand(p.rng)).Convert(markup)
}

// HTMLIngestor feeds already-rendered flow markup straight into card
// segmentation.
type HTMLIngestor struct {
	rng *rand.Rand
}

func (p *HTMLIngestor) SupportedFormats() []string { return []string{"html", "htm"} }

func (p *HTMLIngestor) Ingest(ctx context.Context, data []byte) ([]deck.Slide, error) {
	return cards.NewConverter(cards.WithRand(p.rng)).Convert(string(data))
}
