// Package deck defines the in-memory scene graph shared by every
// ingestion path: an ordered list of slides, each holding positioned,
// typed elements.
package deck

import (
	"fmt"
	"math/rand"
	"strings"
)

// Kind discriminates element payloads. Shape and list elements currently
// receive text treatment end to end.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindShape Kind = "shape"
	KindList  Kind = "list"
)

// Layout is a derived rendering hint, never authoritative.
type Layout string

const (
	LayoutTitle   Layout = "title"
	LayoutContent Layout = "content"
	LayoutSplit   Layout = "split"
	LayoutBlank   Layout = "blank"
	LayoutAgenda  Layout = "agenda"
)

// Box is a position and size in percent of the slide canvas
// (0-100, origin top-left).
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextPayload carries the fields meaningful only for textual kinds.
type TextPayload struct {
	Content   string  `json:"content"`
	FontSize  float64 `json:"font_size,omitempty"` // points
	Color     string  `json:"color,omitempty"`
	Align     string  `json:"align,omitempty"` // left, center, right
	IsHeading bool    `json:"is_heading,omitempty"`
	Level     int     `json:"level,omitempty"`
}

// ImagePayload carries the fields meaningful only for image elements.
// DataURI is a self-contained base64 data URI.
type ImagePayload struct {
	DataURI string `json:"data_uri"`
}

// Element is one visual unit on a slide. Exactly one of Text or Image is
// set, selected by Kind; Box is nil for flow-derived elements that have
// no native page coordinates.
type Element struct {
	ID    string        `json:"id"`
	Kind  Kind          `json:"kind"`
	Box   *Box          `json:"box,omitempty"`
	Text  *TextPayload  `json:"text,omitempty"`
	Image *ImagePayload `json:"image,omitempty"`
}

// IsTextual reports whether the element is rendered through the text
// path (text, shape, and list all are).
func (e Element) IsTextual() bool {
	return e.Kind != KindImage
}

// Content returns the element's displayable content: plain text for
// textual kinds, the data URI for images.
func (e Element) Content() string {
	switch {
	case e.Kind == KindImage && e.Image != nil:
		return e.Image.DataURI
	case e.Text != nil:
		return e.Text.Content
	}
	return ""
}

// Slide is one page/card. Elements is never nil; an empty slide is a
// valid placeholder.
type Slide struct {
	ID            int       `json:"id"`
	Layout        Layout    `json:"layout"`
	Elements      []Element `json:"elements"`
	AccentColor   string    `json:"accent_color,omitempty"`
	BackgroundURL string    `json:"background_url,omitempty"`
}

// ElementPatch is a partial element update. Nil fields are left
// untouched; last write wins.
type ElementPatch struct {
	Box      *Box     `json:"box,omitempty"`
	Content  *string  `json:"content,omitempty"`
	FontSize *float64 `json:"font_size,omitempty"`
	Color    *string  `json:"color,omitempty"`
	Align    *string  `json:"align,omitempty"`
}

// Apply merges the patch into the element in place.
func (p ElementPatch) Apply(e *Element) {
	if p.Box != nil {
		b := *p.Box
		e.Box = &b
	}
	if e.Kind == KindImage {
		if p.Content != nil && e.Image != nil {
			e.Image.DataURI = *p.Content
		}
		return
	}
	if e.Text == nil {
		e.Text = &TextPayload{}
	}
	if p.Content != nil {
		e.Text.Content = *p.Content
	}
	if p.FontSize != nil {
		e.Text.FontSize = *p.FontSize
	}
	if p.Color != nil {
		e.Text.Color = *p.Color
	}
	if p.Align != nil {
		e.Text.Align = *p.Align
	}
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID returns a collision-resistant element id: prefix, underscore,
// and n random base36 characters drawn from rng.
func NewID(rng *rand.Rand, prefix string, n int) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte('_')
	for i := 0; i < n; i++ {
		b.WriteByte(idAlphabet[rng.Intn(len(idAlphabet))])
	}
	return b.String()
}

// NewIndexedID mirrors NewID but embeds an ordinal, matching the id
// shape extracted elements carry (e.g. "txt_0_k3f9z").
func NewIndexedID(rng *rand.Rand, prefix string, idx, n int) string {
	return NewID(rng, fmt.Sprintf("%s_%d", prefix, idx), n)
}
