// Package cards segments flow markup (headings, paragraphs, images)
// into the same slide shape the presentation parser produces, using
// heading boundaries as section breaks.
package cards

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/cardflowhq/cardflow/deck"
)

// AccentPalette is the fixed set of accent colors assigned to
// finalized cards.
var AccentPalette = []string{
	"#ec4899", "#8b5cf6", "#3b82f6", "#10b981", "#f59e0b", "#ef4444",
}

// Converter turns flow markup into cards. The random source drives
// element id generation and accent color selection; inject a seeded
// one for reproducible output.
type Converter struct {
	rng *rand.Rand
}

// Option configures a Converter.
type Option func(*Converter)

// WithRand injects the converter's random source.
func WithRand(rng *rand.Rand) Option {
	return func(c *Converter) { c.rng = rng }
}

// NewConverter returns a Converter with a time-seeded random source.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c
}

// Convert walks the markup's top-level body blocks in document order.
// An h1 or h2 finalizes the in-progress card and starts a new one;
// every other recognized block becomes one element on the current card.
// Unrecognized blocks are ignored. A trailing non-empty card is
// finalized at end of input.
func (c *Converter) Convert(markup string) ([]deck.Slide, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("cards: parsing markup: %w", err)
	}

	body := findBody(doc)
	if body == nil {
		body = doc
	}

	var slides []deck.Slide
	var current []deck.Element
	nextID := 1

	finalize := func() {
		if len(current) == 0 {
			return
		}
		slides = append(slides, deck.Slide{
			ID:          nextID,
			Layout:      deck.LayoutContent,
			Elements:    current,
			AccentColor: AccentPalette[c.rng.Intn(len(AccentPalette))],
		})
		nextID++
		current = nil
	}

	for n := body.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode {
			continue
		}

		// Major section break: h1 and h2 close the current card and
		// act as boundaries only; a card holds just the blocks between
		// its heading and the next.
		if n.Data == "h1" || n.Data == "h2" {
			finalize()
			continue
		}

		if el, ok := c.blockElement(n); ok {
			current = append(current, el)
		}
	}
	finalize()

	return slides, nil
}

// blockElement converts one top-level block node into a slide element.
// Flow-derived elements carry no page coordinates, so Box stays nil.
func (c *Converter) blockElement(n *html.Node) (deck.Element, bool) {
	id := deck.NewID(c.rng, "el", 9)

	if n.Data == "img" {
		src := attr(n, "src")
		if src == "" {
			return deck.Element{}, false
		}
		return deck.Element{
			ID:    id,
			Kind:  deck.KindImage,
			Image: &deck.ImagePayload{DataURI: src},
		}, true
	}

	if !textBlock(n.Data) {
		return deck.Element{}, false
	}

	content := strings.TrimSpace(textContent(n))
	if content == "" {
		return deck.Element{}, false
	}

	isHeading := strings.HasPrefix(n.Data, "h")
	fontSize := 16.0
	level := 0
	if isHeading {
		fontSize = 24
		level = headingLevel(n.Data)
	}

	return deck.Element{
		ID:   id,
		Kind: deck.KindText,
		Text: &deck.TextPayload{
			Content:   content,
			FontSize:  fontSize,
			Align:     "left",
			IsHeading: isHeading,
			Level:     level,
		},
	}, true
}

func textBlock(tag string) bool {
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6", "p", "ul", "ol", "blockquote":
		return true
	}
	return false
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

// textContent strips all markup and returns the concatenated visible
// text of the subtree.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}
