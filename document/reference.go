package document

import (
	"github.com/wippyai/jsonapi/errors"
)

// Reference is a resource identifier object found in relationship linkage.
// HasID and HasType report whether usable members were present. RawID
// keeps the id member as decoded.
type Reference struct {
	Meta    map[string]any
	RawID   any
	ID      string
	Type    string
	HasID   bool
	HasType bool
}

// References reads relationship linkage. A null or absent value yields no
// references. A single object yields one. In an array, entries that are not
// objects are skipped. Any other shape is a type mismatch.
func References(linkage any) ([]Reference, error) {
	switch v := linkage.(type) {
	case nil:
		return nil, nil
	case []any:
		refs := make([]Reference, 0, len(v))
		for _, item := range v {
			obj, ok := ObjectOf(item)
			if !ok {
				continue
			}
			refs = append(refs, referenceOf(obj))
		}
		return refs, nil
	default:
		obj, ok := ObjectOf(v)
		if !ok {
			return nil, errors.TypeMismatch(errors.PhaseResolve, nil, "object or array", errors.ShapeOf(linkage))
		}
		return []Reference{referenceOf(obj)}, nil
	}
}

func referenceOf(obj map[string]any) Reference {
	rec := Record(obj)
	ref := Reference{Meta: rec.Meta(), RawID: rec[MemberID]}
	ref.ID, ref.HasID = rec.ID()
	ref.Type, ref.HasType = rec.Type()
	return ref
}
