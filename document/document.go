package document

import (
	"encoding/json"
	"strconv"
)

// Top-level and record member names.
const (
	MemberData          = "data"
	MemberIncluded      = "included"
	MemberErrors        = "errors"
	MemberMeta          = "meta"
	MemberLinks         = "links"
	MemberJSONAPI       = "jsonapi"
	MemberID            = "id"
	MemberType          = "type"
	MemberAttributes    = "attributes"
	MemberRelationships = "relationships"
)

// Document is a decoded top-level JSON-API document.
type Document map[string]any

// Data returns the raw primary data member.
func (d Document) Data() (any, bool) {
	v, ok := d[MemberData]
	return v, ok
}

// Included returns the included array, if present and an array.
func (d Document) Included() ([]any, bool) {
	return arrayOf(d[MemberIncluded])
}

// Errors returns the errors array, if present and an array.
func (d Document) Errors() ([]any, bool) {
	return arrayOf(d[MemberErrors])
}

// Meta returns the top-level meta object.
func (d Document) Meta() (map[string]any, bool) {
	return ObjectOf(d[MemberMeta])
}

// Links returns the top-level links object.
func (d Document) Links() (map[string]any, bool) {
	return ObjectOf(d[MemberLinks])
}

// JSONAPI returns the top-level jsonapi object.
func (d Document) JSONAPI() (map[string]any, bool) {
	return ObjectOf(d[MemberJSONAPI])
}

// Record is a single resource object.
type Record map[string]any

// ID returns the record id. Numeric ids are returned in decimal form.
// An empty string counts as absent.
func (r Record) ID() (string, bool) {
	return idOf(r[MemberID])
}

// Type returns the record type if it is a non-empty string.
func (r Record) Type() (string, bool) {
	s, ok := r[MemberType].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Attributes returns the attributes object, or nil.
func (r Record) Attributes() map[string]any {
	m, _ := ObjectOf(r[MemberAttributes])
	return m
}

// Relationships returns the raw relationships member.
func (r Record) Relationships() (any, bool) {
	v, ok := r[MemberRelationships]
	return v, ok
}

// Meta returns the record meta object, or nil.
func (r Record) Meta() map[string]any {
	m, _ := ObjectOf(r[MemberMeta])
	return m
}

// Links returns the record links object, or nil.
func (r Record) Links() map[string]any {
	m, _ := ObjectOf(r[MemberLinks])
	return m
}

// ObjectOf reports whether v is a JSON object and returns it.
func ObjectOf(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	case Document:
		return m, true
	default:
		return nil, false
	}
}

// RecordOf returns v as a Record if it is a JSON object.
func RecordOf(v any) (Record, bool) {
	m, ok := ObjectOf(v)
	if !ok {
		return nil, false
	}
	return Record(m), true
}

func arrayOf(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

func idOf(v any) (string, bool) {
	switch id := v.(type) {
	case string:
		return id, id != ""
	case json.Number:
		return id.String(), true
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	default:
		return "", false
	}
}
