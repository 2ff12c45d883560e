// Package session turns documents into resource graphs.
//
// A Context is one processing session. It owns a resource.Pool and resolves
// documents into it:
//
//	ctx := session.New()
//	result, err := ctx.Resolve(doc)
//	if err != nil {
//		// contract violation, nothing was added to the pool
//	}
//	switch result.Kind {
//	case session.KindResource:
//		article := result.Resource.(*Article)
//	case session.KindCollection:
//		...
//	case session.KindErrors:
//		...
//	}
//
// # Resolution
//
// Resolve walks "included" first, then "data", or "errors" when there is no
// data. Every record becomes a resource built by the registered constructor
// for its type; records of unregistered types are skipped. Relationship
// targets are added to the pool as stubs unless a resource with the same key
// already exists. A fully described resource always replaces a stub.
//
// All resources of one Resolve call are committed to the pool together after
// the whole document has been walked. Resolve calls on the same Context are
// serialized.
//
// # Missing ids
//
// A record without an id gets a generated one (a random UUID by default).
// WithStrictIDs turns a missing id into a contract violation instead.
//
// # Reassign
//
// Reassign rebinds the pool to the Context in weak ownership mode, so
// resources can be cached past the original parse. See resource.Pool.Rebind.
package session
