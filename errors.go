package cardflow

import "errors"

var (
	// ErrUnsupportedFormat is returned for unrecognized file formats.
	ErrUnsupportedFormat = errors.New("cardflow: unsupported document format")

	// ErrSlideNotFound is returned when a slide id does not exist in
	// the session.
	ErrSlideNotFound = errors.New("cardflow: slide not found")

	// ErrElementNotFound is returned when an element id does not exist
	// on the addressed slide.
	ErrElementNotFound = errors.New("cardflow: element not found")

	// ErrEmptyDocument is returned when exporting a session that holds
	// no slides.
	ErrEmptyDocument = errors.New("cardflow: document has no slides")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("cardflow: invalid configuration")
)
