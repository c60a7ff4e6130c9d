package task

import (
	"fmt"
	"sync"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance bounds how far a typo may be from a registered name
// before no suggestion is offered.
const maxSuggestDistance = 3

type Registry struct {
	mu    sync.RWMutex
	tasks map[string]Task
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]Task)}
}

// Register adds t, replacing any task already registered under its name.
func (r *Registry) Register(t Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[t.Name()]; !ok {
		r.order = append(r.order, t.Name())
	}
	r.tasks[t.Name()] = t
}

func (r *Registry) Get(name string) (Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[name]
	return t, ok
}

// Lookup is Get with an error naming the closest registered task.
func (r *Registry) Lookup(name string) (Task, error) {
	if t, ok := r.Get(name); ok {
		return t, nil
	}
	if s := r.Suggest(name); s != "" {
		return nil, fmt.Errorf("unknown task %q, did you mean %q?", name, s)
	}
	return nil, fmt.Errorf("unknown task %q", name)
}

// Suggest returns the registered name closest to name, or "" if none is close.
func (r *Registry) Suggest(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	best := ""
	bestDist := maxSuggestDistance + 1
	for _, candidate := range r.order {
		d := levenshtein.ComputeDistance(name, candidate)
		if d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

// Names returns task names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Tasks returns the registered tasks in registration order.
func (r *Registry) Tasks() []Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Task, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tasks[name])
	}
	return out
}

// Check returns an error for the first name that is not registered.
func (r *Registry) Check(names []string) error {
	for _, name := range names {
		if _, err := r.Lookup(name); err != nil {
			return err
		}
	}
	return nil
}
