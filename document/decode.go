package document

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/wippyai/jsonapi/errors"
)

// Unmarshal decodes a JSON document from data.
func Unmarshal(data []byte) (Document, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads one JSON document from r. The top-level value must be an
// object and nothing but whitespace may follow it.
func Decode(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "decode document")
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New(errors.PhaseParse, errors.KindTypeMismatch).
			Want("object").
			Got(errors.ShapeOf(raw)).
			Detail("top-level value must be an object").
			Build()
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New(errors.PhaseParse, errors.KindInvalidData).
			Cause(err).
			Detail("trailing data after document").
			Build()
	}

	return Document(obj), nil
}
