package jsonapi

import (
	"io"

	"github.com/wippyai/jsonapi/document"
	"github.com/wippyai/jsonapi/session"
)

// Unmarshal decodes data and resolves it in a new Context.
func Unmarshal(data []byte, opts ...session.Option) (*session.Context, session.DataType, error) {
	doc, err := document.Unmarshal(data)
	if err != nil {
		return nil, session.DataType{}, err
	}
	return resolve(doc, opts)
}

// Decode reads one document from r and resolves it in a new Context.
func Decode(r io.Reader, opts ...session.Option) (*session.Context, session.DataType, error) {
	doc, err := document.Decode(r)
	if err != nil {
		return nil, session.DataType{}, err
	}
	return resolve(doc, opts)
}

func resolve(doc document.Document, opts []session.Option) (*session.Context, session.DataType, error) {
	ctx := session.New(opts...)
	result, err := ctx.Resolve(doc)
	if err != nil {
		return nil, session.DataType{}, err
	}
	return ctx, result, nil
}
