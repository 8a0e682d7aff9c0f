package domain

import "errors"

var (
	// ErrNoExtractableText means the backend produced no text at all. This is
	// an acquisition failure (upstream/backend problem), distinct from a
	// low-confidence result which is returned without error.
	ErrNoExtractableText = errors.New("no extractable text in document")

	ErrNoPagesRendered     = errors.New("no pages rendered from PDF")
	ErrUnsupportedDocument = errors.New("unsupported document type")
	ErrMissingReference    = errors.New("document bytes or storage reference required")
	ErrUnknownEngine       = errors.New("unknown OCR engine")
)
