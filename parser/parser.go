// Package parser routes uploaded document bytes to the right ingestion
// pipeline by format, producing the shared deck scene graph.
package parser

import (
	"context"

	"github.com/cardflowhq/cardflow/deck"
)

// Ingestor converts one document format into slides.
type Ingestor interface {
	Ingest(ctx context.Context, data []byte) ([]deck.Slide, error)
	SupportedFormats() []string
}
