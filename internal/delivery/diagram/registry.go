package diagram

import (
	"context"
	"fmt"
	"sync"

	diag "shogi_diagram/internal/domain/diagram"
	errs "shogi_diagram/internal/errors"
)

// BlockRenderer turns the raw text of one content block into a diagram.
type BlockRenderer func(ctx context.Context, source string) (*diag.Diagram, error)

// Registry maps content-block names to their renderers, mirroring how a
// document host registers named block handlers. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]BlockRenderer
}

func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]BlockRenderer),
	}
}

func (r *Registry) Register(name string, renderer BlockRenderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[name] = renderer
}

func (r *Registry) Get(name string) (BlockRenderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrBlockNotSupported, name)
	}
	return renderer, nil
}
