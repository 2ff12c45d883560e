package resource

import (
	"sync"

	"github.com/wippyai/jsonapi/document"
	"github.com/wippyai/jsonapi/errors"
)

// Base carries the identity, raw record and owner of a resource.
// Embed it in resource types:
//
//	type Article struct {
//		resource.Base
//	}
type Base struct {
	owner     Owner
	record    document.Record
	generated map[string]map[int]Key
	id        string
	typ       string
	mu        sync.RWMutex
}

func (b *Base) base() *Base {
	return b
}

// ID returns the resource id.
func (b *Base) ID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.id
}

// Type returns the resource type.
func (b *Base) Type() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.typ
}

// Key returns the identity key.
func (b *Base) Key() Key {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Key{ID: b.id, Type: b.typ}
}

// Owner returns the session that currently owns the resource.
func (b *Base) Owner() Owner {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.owner
}

// Record returns the raw record, or nil for a stub.
func (b *Base) Record() document.Record {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.record
}

// IsStub reports whether no record has been attached.
func (b *Base) IsStub() bool {
	return b.Record() == nil
}

// Attributes returns the record's attributes object, or nil.
func (b *Base) Attributes() map[string]any {
	rec := b.Record()
	if rec == nil {
		return nil
	}
	return rec.Attributes()
}

// Attribute returns one attribute value.
func (b *Base) Attribute(name string) (any, bool) {
	v, ok := b.Attributes()[name]
	return v, ok
}

// Meta returns the record's meta object, or nil.
func (b *Base) Meta() map[string]any {
	rec := b.Record()
	if rec == nil {
		return nil
	}
	return rec.Meta()
}

// Links returns the record's links object, or nil.
func (b *Base) Links() map[string]any {
	rec := b.Record()
	if rec == nil {
		return nil
	}
	return rec.Links()
}

// Relationship returns the keys referenced by the named relationship.
// ok is false when the record has no such relationship or its linkage is
// malformed. A reference without an id yields the key generated for it
// during resolution (see BindGenerated) and is omitted if there is none. A
// reference without a type takes the relationship name as its type.
func (b *Base) Relationship(name string) (keys []Key, ok bool) {
	rec := b.Record()
	if rec == nil {
		return nil, false
	}
	raw, _ := rec.Relationships()
	rels, ok := document.ObjectOf(raw)
	if !ok {
		return nil, false
	}
	rel, ok := document.ObjectOf(rels[name])
	if !ok {
		return nil, false
	}
	refs, err := document.References(rel[document.MemberData])
	if err != nil {
		return nil, false
	}
	keys = make([]Key, 0, len(refs))
	for i, ref := range refs {
		if !ref.HasID {
			if k, ok := b.generatedKey(name, i); ok {
				keys = append(keys, k)
			}
			continue
		}
		typ := ref.Type
		if !ref.HasType {
			typ = name
		}
		keys = append(keys, Key{ID: ref.ID, Type: typ})
	}
	return keys, true
}

// Related returns the resources referenced by the named relationship, looked
// up in the owner's pool. Targets missing from the pool are omitted.
func (b *Base) Related(name string) []Resource {
	keys, ok := b.Relationship(name)
	if !ok {
		return nil
	}
	owner := b.Owner()
	if owner == nil || owner.Pool() == nil {
		return nil
	}
	pool := owner.Pool()
	out := make([]Resource, 0, len(keys))
	for _, k := range keys {
		if r, ok := pool.Get(k); ok {
			out = append(out, r)
		}
	}
	return out
}

// RelatedOne returns the first resource of a to-one relationship.
func (b *Base) RelatedOne(name string) (Resource, bool) {
	related := b.Related(name)
	if len(related) == 0 {
		return nil, false
	}
	return related[0], true
}

func (b *Base) generatedKey(name string, index int) (Key, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	k, ok := b.generated[name][index]
	return k, ok
}

func (b *Base) setOwner(o Owner) {
	b.mu.Lock()
	b.owner = o
	b.mu.Unlock()
}

// Initialize sets the identity and owner of a freshly constructed resource.
// The type can be set once; initializing again with a different type fails.
func Initialize(r Resource, key Key, owner Owner) error {
	if key.IsZero() {
		return errors.InvalidData(errors.PhaseResolve, nil, "resource key needs an id and a type")
	}
	b := r.base()
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.typ != "" && b.typ != key.Type {
		return errors.New(errors.PhaseResolve, errors.KindInvalidData).
			Want(b.typ).
			Got(key.Type).
			Detail("resource type is immutable").
			Build()
	}
	b.id = key.ID
	b.typ = key.Type
	b.owner = owner
	return nil
}

// Attach sets the raw record backing a resource.
func Attach(r Resource, rec document.Record) {
	b := r.base()
	b.mu.Lock()
	b.record = rec
	b.mu.Unlock()
}

// BindGenerated records the key generated for the reference at index in the
// named relationship of r, for a reference that had no id.
func BindGenerated(r Resource, relationship string, index int, key Key) {
	b := r.base()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.generated == nil {
		b.generated = make(map[string]map[int]Key)
	}
	if b.generated[relationship] == nil {
		b.generated[relationship] = make(map[int]Key)
	}
	b.generated[relationship][index] = key
}
