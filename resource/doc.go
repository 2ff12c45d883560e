// Package resource provides the resource identity model and the pool that
// deduplicates resources.
//
// A resource is identified by its Key, the pair (id, type). Resource types
// embed Base, which holds the identity, the raw record and a back-reference
// to the owning session:
//
//	type Article struct {
//		resource.Base
//	}
//
// # Pool
//
// The Pool maps keys to resources and guarantees at most one resource per key:
//
//	pool := resource.NewPool()
//
//	// Unconditional insert: a fully described resource always wins
//	pool.Insert(article)
//
//	// Insert only if absent: relationship stubs never clobber
//	pool.InsertIfAbsent(stub)
//
//	r, ok := pool.Lookup("1", "article")
//
// Mutations take the pool's write lock; lookups share the read lock.
//
// # Ownership Modes
//
// A new pool is Strong: it keeps every entry for its own lifetime. Rebind
// re-points every resource at a new owner and switches the pool to Weak mode.
// A Weak pool keeps an entry only while external holders have borrowed it:
//
//	r, ok := pool.Borrow(key)
//	defer pool.ReturnBorrow(key) // evicts in Weak mode once the count is zero
//
// Entries never borrowed survive Rebind and stay until Sweep is called.
//
// # Batches
//
// A Batch stages inserts so a whole document can be committed at once with
// Pool.Apply. If resolution fails the batch is discarded and the pool is
// untouched.
//
// # Observers
//
// Register observers to track pool events:
//
//	pool.Subscribe(resource.ObserverFunc(func(e resource.Event) {
//	    log.Printf("%s %s", e.Type, e.Key)
//	}))
package resource
