package session

import (
	"github.com/google/uuid"

	"github.com/wippyai/jsonapi/document"
	"github.com/wippyai/jsonapi/registry"
	"github.com/wippyai/jsonapi/resource"
)

// Option configures a Context.
type Option func(*config)

type config struct {
	registry   *registry.Registry
	newID      func() string
	parseError func(document.Record) document.ErrorObject
	observers  []resource.Observer
	strictIDs  bool
}

func defaultConfig() config {
	return config{
		registry:   registry.Default,
		newID:      uuid.NewString,
		parseError: document.ParseErrorObject,
	}
}

// WithRegistry resolves types against reg instead of registry.Default.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *config) {
		if reg != nil {
			c.registry = reg
		}
	}
}

// WithIDGenerator sets the function used to fill in missing ids.
func WithIDGenerator(fn func() string) Option {
	return func(c *config) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// WithStrictIDs rejects records without an id instead of generating one.
func WithStrictIDs() Option {
	return func(c *config) {
		c.strictIDs = true
	}
}

// WithErrorParser sets how entries of the errors array are read.
func WithErrorParser(fn func(document.Record) document.ErrorObject) Option {
	return func(c *config) {
		if fn != nil {
			c.parseError = fn
		}
	}
}

// WithObserver subscribes o to the Context's pool. Events of Resolve,
// ResolveOne and Reassign arrive after the Context is unlocked.
func WithObserver(o resource.Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}
