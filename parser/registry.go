package parser

import (
	"fmt"
	"math/rand"
	"time"
)

// Registry maps file formats to their ingestors.
type Registry struct {
	ingestors map[string]Ingestor
}

// Option configures the registry.
type Option func(*registryConfig)

type registryConfig struct {
	rng *rand.Rand
}

// WithRand injects the random source shared by the built-in ingestors
// for id and accent-color generation.
func WithRand(rng *rand.Rand) Option {
	return func(c *registryConfig) { c.rng = rng }
}

// NewRegistry returns a registry with the built-in ingestors
// registered.
func NewRegistry(opts ...Option) *Registry {
	cfg := &registryConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	r := &Registry{ingestors: make(map[string]Ingestor)}

	pptx := &PPTXIngestor{rng: cfg.rng}
	docx := &DOCXIngestor{rng: cfg.rng}
	xlsx := &XLSXIngestor{rng: cfg.rng}
	pdf := &PDFIngestor{rng: cfg.rng}
	html := &HTMLIngestor{rng: cfg.rng}

	for _, in := range []Ingestor{pptx, docx, xlsx, pdf, html} {
		for _, f := range in.SupportedFormats() {
			r.ingestors[f] = in
		}
	}
	return r
}

// Get returns the ingestor for a format.
func (r *Registry) Get(format string) (Ingestor, error) {
	in, ok := r.ingestors[format]
	if !ok {
		return nil, fmt.Errorf("no ingestor for format: %s", format)
	}
	return in, nil
}

// Register adds or replaces an ingestor for a format.
func (r *Registry) Register(format string, in Ingestor) {
	r.ingestors[format] = in
}
