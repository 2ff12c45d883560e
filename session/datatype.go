package session

import (
	"github.com/wippyai/jsonapi/document"
	"github.com/wippyai/jsonapi/resource"
)

// DataKind tags the variant held by a DataType.
type DataKind uint8

const (
	KindUnknown DataKind = iota
	KindResource
	KindCollection
	KindErrors
)

func (k DataKind) String() string {
	switch k {
	case KindResource:
		return "resource"
	case KindCollection:
		return "collection"
	case KindErrors:
		return "errors"
	default:
		return "unknown"
	}
}

// DataType is the result of resolving one document. Only the field matching
// Kind is populated. Resource is nil when the primary record's type is not
// registered.
type DataType struct {
	Resource   resource.Resource
	Collection []resource.Resource
	Errors     []document.ErrorObject
	Kind       DataKind
}
