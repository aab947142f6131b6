package pptx

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/cardflowhq/cardflow/deck"
)

// Parser assembles a presentation package into the deck scene graph.
// The zero value is not usable; call NewParser.
type Parser struct {
	rng *rand.Rand
}

// Option configures a Parser.
type Option func(*Parser)

// WithRand injects the random source used for element id generation,
// so callers that need reproducible output can seed it.
func WithRand(rng *rand.Rand) Option {
	return func(p *Parser) { p.rng = rng }
}

// NewParser returns a Parser with a time-seeded id source.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return p
}

// Parse extracts every slide part of the package, in numeric part
// order, into Slide records with 1-based sequential ids.
//
// Archive-level corruption fails the whole parse: an unopenable package
// returns ErrPackageRead, an unreadable slide part ErrPackageParse. A
// slide's missing relationship part or an unresolvable image is not
// fatal; those degrade to omitted content.
func (p *Parser) Parse(ctx context.Context, data []byte) ([]deck.Slide, error) {
	ar, err := OpenArchive(data)
	if err != nil {
		return nil, err
	}

	parts := ar.SlideParts()
	slides := make([]deck.Slide, 0, len(parts))

	for i, part := range parts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		slideXML, err := ar.ReadFile(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrPackageParse, part, err)
		}

		rels := ar.Rels(part)
		elements := extractElements(slideXML, rels, ar, p.rng)
		if elements == nil {
			elements = []deck.Element{}
		}

		slides = append(slides, deck.Slide{
			ID:       i + 1,
			Layout:   deck.Classify(elements),
			Elements: elements,
		})
	}

	slog.Debug("pptx: parsed package", "slides", len(slides))
	return slides, nil
}
