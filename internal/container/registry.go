package container

import "fmt"

// Registry maps container formats to their engines. The registry itself is
// immutable after construction and safe for concurrent use.
type Registry struct {
	engines []Engine
}

// NewRegistry builds a registry from the given engines.
func NewRegistry(engines ...Engine) *Registry {
	return &Registry{engines: engines}
}

// Lookup returns the engine for format f.
func (r *Registry) Lookup(f Format) (Engine, error) {
	for _, e := range r.engines {
		if e.Format() == f {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
}

// StripPath strips the file at path (used for format detection only) with
// the given policy. The input bytes are never mutated.
func (r *Registry) StripPath(path string, input []byte, policy Policy) ([]byte, error) {
	f := FormatFromPath(path)
	if f == FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	e, err := r.Lookup(f)
	if err != nil {
		return nil, err
	}
	return Strip(e, input, policy)
}
