package resource

// Batch stages inserts against a pool so they can be committed together with
// Pool.Apply. Lookups see staged resources before pool entries.
type Batch struct {
	pool    *Pool
	staged  map[Key]int
	ops     []batchOp
	applied bool
}

type batchOp struct {
	value Resource
	stub  bool
}

// NewBatch creates an empty batch for pool.
func NewBatch(pool *Pool) *Batch {
	return &Batch{
		pool:   pool,
		staged: make(map[Key]int),
	}
}

// Insert stages r, replacing anything staged under the same key. The key
// keeps its original position.
func (b *Batch) Insert(r Resource) {
	key := r.Key()
	if key.IsZero() {
		return
	}
	if idx, ok := b.staged[key]; ok {
		b.ops[idx] = batchOp{value: r}
		return
	}
	b.staged[key] = len(b.ops)
	b.ops = append(b.ops, batchOp{value: r})
}

// InsertIfAbsent stages r as a stub unless the key is already staged or
// present in the pool. It reports whether r was staged.
func (b *Batch) InsertIfAbsent(r Resource) bool {
	key := r.Key()
	if key.IsZero() {
		return false
	}
	if _, ok := b.staged[key]; ok {
		return false
	}
	if b.pool != nil {
		if _, ok := b.pool.Get(key); ok {
			return false
		}
	}
	b.staged[key] = len(b.ops)
	b.ops = append(b.ops, batchOp{value: r, stub: true})
	return true
}

// Lookup returns the staged resource for key, falling back to the pool.
func (b *Batch) Lookup(key Key) (Resource, bool) {
	if idx, ok := b.staged[key]; ok {
		return b.ops[idx].value, true
	}
	if b.pool == nil {
		return nil, false
	}
	return b.pool.Get(key)
}

// Len returns the number of staged keys.
func (b *Batch) Len() int {
	return len(b.ops)
}
