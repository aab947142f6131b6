// Package cardflow is a document editor core: it parses office file
// formats into an editable slide scene graph and serializes edited
// slides back into a flow-document package.
package cardflow

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cardflowhq/cardflow/deck"
	"github.com/cardflowhq/cardflow/docx"
	"github.com/cardflowhq/cardflow/parser"
	"github.com/cardflowhq/cardflow/theme"
)

// Session owns one in-memory document: the slide list produced by an
// ingestion path, mutated by editor operations, and consumed by export.
// Mutations are synchronous and last-write-wins, keyed by slide and
// element id; there is exactly one writer per session.
type Session struct {
	mu       sync.Mutex
	slides   []deck.Slide
	source   string // format the document was ingested from
	registry *parser.Registry
	rng      *rand.Rand
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRand injects the session's random source, shared by every
// ingestor for id and accent-color generation. Seed it for
// reproducible output.
func WithRand(rng *rand.Rand) SessionOption {
	return func(s *Session) { s.rng = rng }
}

// NewSession returns an empty editor session.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.registry = parser.NewRegistry(parser.WithRand(s.rng))
	return s
}

// Open ingests a document, replacing the session's slides. The format
// is taken from the filename extension; unknown extensions return
// ErrUnsupportedFormat.
func (s *Session) Open(ctx context.Context, filename string, data []byte) ([]deck.Slide, error) {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	in, err := s.registry.Get(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	slides, err := in.Ingest(ctx, data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.slides = slides
	s.source = format
	s.mu.Unlock()

	return deck.CloneSlides(slides), nil
}

// SetSlides replaces the session's slides wholesale, e.g. when loading
// a saved project.
func (s *Session) SetSlides(slides []deck.Slide) {
	s.mu.Lock()
	s.slides = deck.CloneSlides(slides)
	s.mu.Unlock()
}

// Slides returns a deep copy of the current slide list.
func (s *Session) Slides() []deck.Slide {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deck.CloneSlides(s.slides)
}

// Source returns the format the current document was ingested from.
func (s *Session) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// UpdateElement applies a partial update to one element.
func (s *Session) UpdateElement(slideID int, elementID string, patch deck.ElementPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slide, err := s.findSlide(slideID)
	if err != nil {
		return err
	}
	for i := range slide.Elements {
		if slide.Elements[i].ID == elementID {
			patch.Apply(&slide.Elements[i])
			return nil
		}
	}
	return fmt.Errorf("%w: %q on slide %d", ErrElementNotFound, elementID, slideID)
}

// AddElement appends an element to a slide. An empty id is filled with
// a generated one.
func (s *Session) AddElement(slideID int, el deck.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slide, err := s.findSlide(slideID)
	if err != nil {
		return err
	}
	if el.ID == "" {
		el.ID = deck.NewID(s.rng, "el", 9)
	}
	slide.Elements = append(slide.Elements, el.Clone())
	return nil
}

// RemoveElement deletes an element from a slide.
func (s *Session) RemoveElement(slideID int, elementID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slide, err := s.findSlide(slideID)
	if err != nil {
		return err
	}
	for i := range slide.Elements {
		if slide.Elements[i].ID == elementID {
			slide.Elements = append(slide.Elements[:i], slide.Elements[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q on slide %d", ErrElementNotFound, elementID, slideID)
}

// Export serializes the session's slides with the named theme. The
// operation is atomic from the caller's view: it returns either the
// whole package or an error, and never touches session state.
func (s *Session) Export(themeID string) ([]byte, error) {
	s.mu.Lock()
	slides := deck.CloneSlides(s.slides)
	s.mu.Unlock()

	if len(slides) == 0 {
		return nil, ErrEmptyDocument
	}
	return docx.Export(slides, theme.Get(themeID))
}

func (s *Session) findSlide(slideID int) (*deck.Slide, error) {
	for i := range s.slides {
		if s.slides[i].ID == slideID {
			return &s.slides[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrSlideNotFound, slideID)
}
