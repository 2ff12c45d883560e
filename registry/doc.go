// Package registry maps resource type names to constructors.
//
// Resource types register themselves during application startup, before any
// document is resolved:
//
//	func init() {
//		registry.MustRegister("articles", registry.Of[Article]())
//	}
//
// Lookups are case-insensitive. Registering a name again replaces the
// previous constructor. The Default registry is process-wide; a session can
// be given its own Registry instead.
package registry
