package deck

// Clone returns a deep copy of the element, so callers can hand copies
// out without exposing the session's owned payload pointers.
func (e Element) Clone() Element {
	out := e
	if e.Box != nil {
		b := *e.Box
		out.Box = &b
	}
	if e.Text != nil {
		t := *e.Text
		out.Text = &t
	}
	if e.Image != nil {
		img := *e.Image
		out.Image = &img
	}
	return out
}

// Clone returns a deep copy of the slide.
func (s Slide) Clone() Slide {
	out := s
	out.Elements = make([]Element, len(s.Elements))
	for i, el := range s.Elements {
		out.Elements[i] = el.Clone()
	}
	return out
}

// CloneSlides deep-copies a slide sequence.
func CloneSlides(slides []Slide) []Slide {
	out := make([]Slide, len(slides))
	for i, s := range slides {
		out[i] = s.Clone()
	}
	return out
}
