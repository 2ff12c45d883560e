// Package document models a raw JSON-API style document before it is turned
// into a resource graph.
//
// A Document is the decoded top-level object. Its recognized members are:
//
//	data      a single resource object or an array of them
//	included  an array of resource objects referenced from data
//	errors    an array of error objects
//
// Records are the resource objects found under data and included. A record
// carries an "id", a "type", and optionally "attributes", "relationships",
// "meta" and "links". Relationship linkage (the "data" member of a
// relationship) is read with References.
//
// Decoding uses json.Number for numbers so numeric ids round-trip exactly.
package document
