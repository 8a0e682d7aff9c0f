package port

import (
	"context"

	"coiscan/internal/domain"
)

// AcquireInput carries the document to extract from: either inline bytes or
// an object-storage reference. When Bytes is empty the backend resolves
// Bucket/Key through its storage client.
type AcquireInput struct {
	Bytes    []byte
	Filename string // used for type detection when bytes are inline
	Bucket   string
	Key      string
}

// HasBytes reports whether the document content was provided inline.
func (in AcquireInput) HasBytes() bool { return len(in.Bytes) > 0 }

// HasReference reports whether a storage reference was provided.
func (in AcquireInput) HasReference() bool { return in.Bucket != "" && in.Key != "" }

// OCRBackend abstracts a text-acquisition strategy. Both the cloud
// document-analysis strategy and the local raster+OCR strategy return the
// same result shape; downstream code is indifferent to which was used.
type OCRBackend interface {
	Acquire(ctx context.Context, input AcquireInput) (*domain.OCRResult, error)
}
