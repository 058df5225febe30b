package steps

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"vcfkit/cli/vcfctl/internal/config"
)

// Context carries the pre-parsed data and handles that step handlers need.
type Context struct {
	Ctx    context.Context
	Root   string
	Config config.Config
	// ConfigPath is the file the config came from, "" for defaults.
	ConfigPath string
	DryRun     bool
	// Strict turns download and compose failures into fatal errors.
	Strict bool
	Out    io.Writer
	Err    io.Writer
}

// Handler executes a step given the shared context.
type Handler func(*Context) error

// Registry maps step names to handlers and remembers their order.
type Registry struct {
	order []string
	steps map[string]Handler
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{steps: make(map[string]Handler)}
}

// Register appends a step. It panics if name already exists.
func (r *Registry) Register(name string, h Handler) {
	if _, exists := r.steps[name]; exists {
		panic(fmt.Sprintf("step %s already registered", name))
	}
	r.steps[name] = h
	r.order = append(r.order, name)
}

// Lookup returns the handler and whether it exists.
func (r *Registry) Lookup(name string) (Handler, bool) {
	h, ok := r.steps[name]
	return h, ok
}

// Names returns step names in run order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Run executes every step in order and stops at the first error.
func (r *Registry) Run(ctx *Context) error {
	for _, name := range r.order {
		log.WithField("step", name).Debug("running step")
		if err := r.steps[name](ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
