// Package registry implements the Component Registry (spec §4.C1): name
// resolution of step and guard implementations, populated either through
// explicit registration or namespace-style scanning of candidate factories.
//
// Go has no runtime classpath to scan the way the teacher's reflection-based
// plugin discovery assumes; per spec §9 ("in languages without reflection,
// substitute an explicit registration API that takes a factory closure plus
// a descriptor"), ScanSteps/ScanGuards accept an explicit slice of factories
// — typically assembled by a generated or hand-written init() list — and
// apply the same declared-name / short-name / fully-qualified fallback rules
// the spec describes for annotation-based discovery.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/flowforge/flowforge/internal/component"
	"github.com/flowforge/flowforge/internal/logger"
	flowerrors "github.com/flowforge/flowforge/pkg/errors"
)

// Registry holds the two name→implementation indexes (steps and guards).
type Registry struct {
	mu     sync.RWMutex
	steps  *index[component.StepFactory]
	guards *index[component.GuardFactory]
	logger *logger.Logger
}

// New creates an empty registry. log may be nil.
func New(log *logger.Logger) *Registry {
	return &Registry{
		steps:  newIndex[component.StepFactory](),
		guards: newIndex[component.GuardFactory](),
		logger: log,
	}
}

// RegisterStep registers an explicit step factory under name (spec §4.C1,
// "Explicit registration API").
func (r *Registry) RegisterStep(name string, factory component.StepFactory) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("registry: step name must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("registry: step factory for %q must not be nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps.registerDeclared(name, factory)
	return nil
}

// RegisterGuard registers an explicit guard factory under name.
func (r *Registry) RegisterGuard(name string, factory component.GuardFactory) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("registry: guard name must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("registry: guard factory for %q must not be nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards.registerDeclared(name, factory)
	return nil
}

// ScanSteps discovers step factories the way a namespace scan would:
// a candidate whose instance implements component.Named registers under its
// declared name; otherwise it registers under its type's short name and the
// lowercase-first-character variant of that short name, plus its
// fully-qualified path (spec §4.C1).
func (r *Registry) ScanSteps(factories []component.StepFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range factories {
		if f == nil {
			continue
		}
		instance := f()
		short, lower, fqn := describe(instance)
		declared := namedOf(instance)
		r.steps.registerScanned(declared, short, lower, fqn, f)
	}
}

// ScanGuards is the guard analogue of ScanSteps.
func (r *Registry) ScanGuards(factories []component.GuardFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range factories {
		if f == nil {
			continue
		}
		instance := f()
		short, lower, fqn := describe(instance)
		declared := namedOf(instance)
		r.guards.registerScanned(declared, short, lower, fqn, f)
	}
}

// ResolveStep looks up a step factory by name and constructs a fresh
// instance. Lookup order (spec §4.C1): declared-name match; else short-name
// (case-sensitive then case-insensitive); else fully-qualified path.
func (r *Registry) ResolveStep(name string) (component.Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.steps.resolve(name)
	if !ok {
		return nil, flowerrors.NewResolutionError("step", name)
	}
	return factory(), nil
}

// ResolveGuard looks up a guard factory by name and constructs a fresh
// instance.
func (r *Registry) ResolveGuard(name string) (component.Guard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.guards.resolve(name)
	if !ok {
		return nil, flowerrors.NewResolutionError("guard", name)
	}
	return factory(), nil
}

// HasStep reports whether a step name resolves, without constructing one.
func (r *Registry) HasStep(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.steps.resolve(name)
	return ok
}

// HasGuard reports whether a guard name resolves, without constructing one.
func (r *Registry) HasGuard(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.guards.resolve(name)
	return ok
}

// StepNames returns every declared-name/short-name step entry, sorted.
func (r *Registry) StepNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.steps.names()
}

// GuardNames returns every declared-name/short-name guard entry, sorted.
func (r *Registry) GuardNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.guards.names()
}

func (r *Registry) logWarn(msg string) {
	if r.logger == nil {
		return
	}
	r.logger.Warn(msg)
}
