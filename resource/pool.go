package resource

import (
	"sort"
	"sync"
)

// Pool is a concurrency-safe identity map from Key to Resource. At most one
// resource exists per key. Mutations are exclusive; lookups run concurrently
// with each other.
type Pool struct {
	entries   map[Key]*entry
	observers []Observer
	obsMu     sync.RWMutex
	mu        sync.RWMutex
	mode      Mode
}

type entry struct {
	value       Resource
	borrowCount uint32
}

// NewPool creates an empty pool in Strong mode.
func NewPool() *Pool {
	return &Pool{
		entries: make(map[Key]*entry, 64),
		mode:    Strong,
	}
}

// Mode returns the current ownership mode.
func (p *Pool) Mode() Mode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mode
}

// Insert stores r under its key, replacing any previous entry. Resources
// without a complete key are ignored.
func (p *Pool) Insert(r Resource) {
	key := r.Key()
	if key.IsZero() {
		return
	}

	p.mu.Lock()
	ev := p.insertLocked(key, r)
	p.mu.Unlock()

	p.notify(ev)
}

// InsertIfAbsent stores r only if its key is not present yet and reports
// whether it was stored.
func (p *Pool) InsertIfAbsent(r Resource) bool {
	key := r.Key()
	if key.IsZero() {
		return false
	}

	p.mu.Lock()
	if _, exists := p.entries[key]; exists {
		p.mu.Unlock()
		return false
	}
	p.entries[key] = &entry{value: r}
	p.mu.Unlock()

	p.notify(Event{Type: EventStubbed, Key: key, Resource: r})
	return true
}

// Lookup returns the resource for (id, typ).
func (p *Pool) Lookup(id, typ string) (Resource, bool) {
	return p.Get(Key{ID: id, Type: typ})
}

// Get returns the resource for key.
func (p *Pool) Get(key Key) (Resource, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	e, ok := p.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Apply commits a staged batch in one exclusive section. Full inserts
// replace existing entries; stubs are stored only where the key is still
// absent. A batch can be applied once; later calls do nothing.
func (p *Pool) Apply(b *Batch) {
	p.ApplyDeferred(b).Deliver()
}

// ApplyDeferred is like Apply but leaves event delivery to the caller, so
// observers can run after the caller has released its own locks.
func (p *Pool) ApplyDeferred(b *Batch) Pending {
	if b == nil || b.applied {
		return Pending{}
	}
	b.applied = true

	events := make([]Event, 0, len(b.ops))

	p.mu.Lock()
	for _, op := range b.ops {
		key := op.value.Key()
		if op.stub {
			if _, exists := p.entries[key]; exists {
				continue
			}
			p.entries[key] = &entry{value: op.value}
			events = append(events, Event{Type: EventStubbed, Key: key, Resource: op.value})
			continue
		}
		events = append(events, p.insertLocked(key, op.value))
	}
	p.mu.Unlock()

	return Pending{pool: p, events: events}
}

// Rebind switches the pool to Weak mode and re-points every resource at
// owner. Readers never observe a partially migrated pool.
func (p *Pool) Rebind(owner Owner) {
	p.RebindDeferred(owner).Deliver()
}

// RebindDeferred is like Rebind but leaves event delivery to the caller.
func (p *Pool) RebindDeferred(owner Owner) Pending {
	p.mu.Lock()
	rebound := make(map[Key]*entry, len(p.entries))
	events := make([]Event, 0, len(p.entries))
	for key, e := range p.entries {
		e.value.base().setOwner(owner)
		rebound[key] = e
		events = append(events, Event{Type: EventRebound, Key: key, Resource: e.value})
	}
	p.entries = rebound
	p.mode = Weak
	p.mu.Unlock()

	return Pending{pool: p, events: events}
}

// Pending holds events of a committed change that observers have not seen
// yet. The zero value delivers nothing.
type Pending struct {
	pool   *Pool
	events []Event
}

// Deliver notifies the pool's observers. Call it once.
func (d Pending) Deliver() {
	if d.pool == nil {
		return
	}
	d.pool.notify(d.events...)
}

// Events returns the undelivered events.
func (d Pending) Events() []Event {
	return d.events
}

// Borrow registers an external holder of the resource at key.
func (p *Pool) Borrow(key Key) (Resource, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[key]
	if !ok {
		return nil, false
	}
	e.borrowCount++
	return e.value, true
}

// ReturnBorrow releases one holder of the resource at key. In Weak mode the
// entry is evicted once no holders remain.
func (p *Pool) ReturnBorrow(key Key) bool {
	p.mu.Lock()
	e, ok := p.entries[key]
	if !ok || e.borrowCount == 0 {
		p.mu.Unlock()
		return false
	}
	e.borrowCount--

	var evicted *Event
	if p.mode == Weak && e.borrowCount == 0 {
		delete(p.entries, key)
		evicted = &Event{Type: EventEvicted, Key: key, Resource: e.value}
	}
	p.mu.Unlock()

	if evicted != nil {
		drop(evicted.Resource)
		p.notify(*evicted)
	}
	return true
}

// Borrows returns the number of outstanding borrows for key.
func (p *Pool) Borrows(key Key) uint32 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if e, ok := p.entries[key]; ok {
		return e.borrowCount
	}
	return 0
}

// Sweep evicts every entry without outstanding borrows and returns how many
// were evicted. It does nothing in Strong mode.
func (p *Pool) Sweep() int {
	p.mu.Lock()
	if p.mode != Weak {
		p.mu.Unlock()
		return 0
	}
	var events []Event
	for key, e := range p.entries {
		if e.borrowCount == 0 {
			delete(p.entries, key)
			events = append(events, Event{Type: EventEvicted, Key: key, Resource: e.value})
		}
	}
	p.mu.Unlock()

	for _, ev := range events {
		drop(ev.Resource)
	}
	p.notify(events...)
	return len(events)
}

// Len returns the number of entries.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}

// Keys returns all keys ordered by type, then id.
func (p *Pool) Keys() []Key {
	p.mu.RLock()
	keys := make([]Key, 0, len(p.entries))
	for k := range p.entries {
		keys = append(keys, k)
	}
	p.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Type != keys[j].Type {
			return keys[i].Type < keys[j].Type
		}
		return keys[i].ID < keys[j].ID
	})
	return keys
}

// Each calls fn for every resource in key order until fn returns false.
// fn runs on a snapshot and may call back into the pool.
func (p *Pool) Each(fn func(Resource) bool) {
	for _, k := range p.Keys() {
		r, ok := p.Get(k)
		if !ok {
			continue
		}
		if !fn(r) {
			return
		}
	}
}

// Clear evicts all entries.
func (p *Pool) Clear() {
	p.mu.Lock()
	events := make([]Event, 0, len(p.entries))
	for key, e := range p.entries {
		events = append(events, Event{Type: EventEvicted, Key: key, Resource: e.value})
	}
	p.entries = make(map[Key]*entry, 64)
	p.mu.Unlock()

	for _, ev := range events {
		drop(ev.Resource)
	}
	p.notify(events...)
}

// Subscribe adds an observer for lifecycle events.
func (p *Pool) Subscribe(o Observer) {
	p.obsMu.Lock()
	defer p.obsMu.Unlock()
	p.observers = append(p.observers, o)
}

// Unsubscribe removes an observer. ObserverFunc values cannot be compared
// and must not be passed here.
func (p *Pool) Unsubscribe(o Observer) {
	p.obsMu.Lock()
	defer p.obsMu.Unlock()
	for i, obs := range p.observers {
		if obs == o {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			return
		}
	}
}

// insertLocked stores r and keeps the borrow count of a replaced entry.
func (p *Pool) insertLocked(key Key, r Resource) Event {
	if prev, ok := p.entries[key]; ok {
		p.entries[key] = &entry{value: r, borrowCount: prev.borrowCount}
		return Event{Type: EventReplaced, Key: key, Resource: r}
	}
	p.entries[key] = &entry{value: r}
	return Event{Type: EventInserted, Key: key, Resource: r}
}

func (p *Pool) notify(events ...Event) {
	if len(events) == 0 {
		return
	}
	p.obsMu.RLock()
	defer p.obsMu.RUnlock()
	for _, e := range events {
		for _, o := range p.observers {
			o.OnResourceEvent(e)
		}
	}
}

func drop(r Resource) {
	if d, ok := r.(Dropper); ok {
		d.Drop()
	}
}
