// Package backend selects and constructs a text-acquisition strategy.
package backend

import (
	"fmt"

	"coiscan/internal/config"
	"coiscan/internal/domain"
	"coiscan/internal/port"
)

// Factory is a function that creates an OCRBackend from module config and a
// storage client (nil when the caller only ever passes inline bytes).
type Factory func(cfg *config.Config, store port.ObjectStorage) (port.OCRBackend, error)

// registry of backend factories, populated by init() in each backend package
// or explicitly via Register.
var backends = map[string]Factory{}

// Register registers a backend factory by engine name.
func Register(name string, factory Factory) {
	backends[name] = factory
}

// New creates the OCRBackend named by cfg.OCR.Engine using the registered
// factory. The choice is made once at construction; callers never switch
// engines per call.
func New(cfg *config.Config, store port.ObjectStorage) (port.OCRBackend, error) {
	factory, ok := backends[cfg.OCR.Engine]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEngine, cfg.OCR.Engine)
	}
	return factory(cfg, store)
}
