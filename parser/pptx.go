package parser

import (
	"context"
	"math/rand"

	"github.com/cardflowhq/cardflow/deck"
	"github.com/cardflowhq/cardflow/pptx"
)

// PPTXIngestor parses presentation packages through the scene
// extraction pipeline.
type PPTXIngestor struct {
	rng *rand.Rand
}

func (p *PPTXIngestor) SupportedFormats() []string { return []string{"pptx"} }

func (p *PPTXIngestor) Ingest(ctx context.Context, data []byte) ([]deck.Slide, error) {
	return pptx.NewParser(pptx.WithRand(p.rng)).Parse(ctx, data)
}
