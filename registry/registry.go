package registry

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/jsonapi/errors"
	"github.com/wippyai/jsonapi/resource"
)

// Constructor creates a blank resource bound to owner. The session fills in
// identity and record afterwards.
type Constructor func(owner resource.Owner) resource.Resource

// Of returns a Constructor that allocates a new T.
func Of[T any, P interface {
	*T
	resource.Resource
}]() Constructor {
	return func(resource.Owner) resource.Resource {
		return P(new(T))
	}
}

// Registry is a concurrency-safe map from lowercase type name to Constructor.
type Registry struct {
	classes map[string]Constructor
	mu      sync.RWMutex
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{classes: make(map[string]Constructor)}
}

// Register associates typeName with ctor, replacing any previous entry.
func (r *Registry) Register(typeName string, ctor Constructor) error {
	name := normalize(typeName)
	if name == "" {
		return errors.Registration(typeName, "empty type name")
	}
	if ctor == nil {
		return errors.Registration(typeName, "nil constructor")
	}

	r.mu.Lock()
	_, replaced := r.classes[name]
	r.classes[name] = ctor
	r.mu.Unlock()

	Logger().Debug("registered resource type",
		zap.String("type", name),
		zap.Bool("replaced", replaced))
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(typeName string, ctor Constructor) {
	if err := r.Register(typeName, ctor); err != nil {
		panic(err)
	}
}

// Lookup returns the constructor for typeName, ignoring case and
// surrounding whitespace.
func (r *Registry) Lookup(typeName string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.classes[normalize(typeName)]
	return ctor, ok
}

// Entries returns the registered type names in sorted order.
func (r *Registry) Entries() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Count returns the number of registered types.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes)
}

// Reset clears all registered types.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.classes = make(map[string]Constructor)
	r.mu.Unlock()
}

func normalize(typeName string) string {
	return strings.ToLower(strings.TrimSpace(typeName))
}

// Default is the process-wide registry.
var Default = New()

// Register adds typeName to the Default registry.
func Register(typeName string, ctor Constructor) error {
	return Default.Register(typeName, ctor)
}

// MustRegister adds typeName to the Default registry and panics on error.
func MustRegister(typeName string, ctor Constructor) {
	Default.MustRegister(typeName, ctor)
}

// Lookup finds typeName in the Default registry.
func Lookup(typeName string) (Constructor, bool) {
	return Default.Lookup(typeName)
}
