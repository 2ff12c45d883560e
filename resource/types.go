package resource

import (
	"github.com/wippyai/jsonapi/document"
)

// Key identifies a resource within a pool.
type Key struct {
	ID   string
	Type string
}

// String returns the pool key form "<id>_<type>".
func (k Key) String() string {
	return k.ID + "_" + k.Type
}

// IsZero reports whether the key lacks an id or a type.
func (k Key) IsZero() bool {
	return k.ID == "" || k.Type == ""
}

// Resource is implemented by every resource type. The interface can only be
// satisfied by embedding Base.
type Resource interface {
	ID() string
	Type() string
	Key() Key
	Owner() Owner
	Record() document.Record
	IsStub() bool
	Attributes() map[string]any
	Attribute(name string) (any, bool)
	Meta() map[string]any
	Links() map[string]any
	Relationship(name string) ([]Key, bool)
	Related(name string) []Resource
	RelatedOne(name string) (Resource, bool)

	base() *Base
}

// Owner is the session a resource belongs to.
type Owner interface {
	Pool() *Pool
}

// Mode is the ownership mode of a pool.
type Mode uint8

const (
	// Strong keeps every entry for the lifetime of the pool.
	Strong Mode = iota
	// Weak keeps an entry only while it has outstanding borrows; see
	// Pool.ReturnBorrow and Pool.Sweep.
	Weak
)

func (m Mode) String() string {
	switch m {
	case Strong:
		return "strong"
	case Weak:
		return "weak"
	default:
		return "unknown"
	}
}

// Event types for pool lifecycle notifications.
type EventType uint8

const (
	EventInserted EventType = iota
	EventReplaced
	EventStubbed
	EventRebound
	EventEvicted
)

func (t EventType) String() string {
	switch t {
	case EventInserted:
		return "inserted"
	case EventReplaced:
		return "replaced"
	case EventStubbed:
		return "stubbed"
	case EventRebound:
		return "rebound"
	case EventEvicted:
		return "evicted"
	default:
		return "unknown"
	}
}

// Event represents a pool lifecycle event.
type Event struct {
	Resource Resource
	Key      Key
	Type     EventType
}

// Observer receives notifications about pool lifecycle events.
// Events are delivered after the pool lock is released.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// OnResourceEvent calls f(e).
func (f ObserverFunc) OnResourceEvent(e Event) {
	f(e)
}

// Dropper is optionally implemented by resources that need cleanup when
// evicted from a pool.
type Dropper interface {
	Drop()
}
