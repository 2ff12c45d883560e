package document

import (
	"strings"
)

// ErrorSource identifies the part of a request an error refers to.
type ErrorSource struct {
	Pointer   string
	Parameter string
	Header    string
}

// ErrorObject is one entry of a document's errors array. Unknown members
// remain available through Raw.
type ErrorObject struct {
	Raw    Record
	Meta   map[string]any
	Source ErrorSource
	ID     string
	Status string
	Code   string
	Title  string
	Detail string
	About  string
}

// ParseErrorObject reads the well-known members of an error object. It never
// fails; members with unexpected shapes are left empty.
func ParseErrorObject(rec Record) ErrorObject {
	e := ErrorObject{
		Raw:    rec,
		Meta:   rec.Meta(),
		Status: stringMember(rec, "status"),
		Code:   stringMember(rec, "code"),
		Title:  stringMember(rec, "title"),
		Detail: stringMember(rec, "detail"),
	}
	e.ID, _ = rec.ID()

	if src, ok := ObjectOf(rec["source"]); ok {
		e.Source = ErrorSource{
			Pointer:   stringMember(src, "pointer"),
			Parameter: stringMember(src, "parameter"),
			Header:    stringMember(src, "header"),
		}
	}

	if links := rec.Links(); links != nil {
		switch about := links["about"].(type) {
		case string:
			e.About = about
		case map[string]any:
			e.About = stringMember(about, "href")
		}
	}

	return e
}

// Error implements the error interface.
func (e ErrorObject) Error() string {
	var parts []string
	if e.Status != "" {
		parts = append(parts, e.Status)
	}
	if e.Code != "" {
		parts = append(parts, e.Code)
	}
	if e.Title != "" {
		parts = append(parts, e.Title)
	}
	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}
	if len(parts) == 0 {
		return "jsonapi error"
	}
	return strings.Join(parts, ": ")
}

func stringMember(m map[string]any, key string) string {
	s, _ := idOf(m[key])
	return s
}
