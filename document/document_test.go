package document

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/jsonapi/errors"
)

func TestUnmarshal(t *testing.T) {
	doc, err := Unmarshal([]byte(`{
		"data": {"id": "1", "type": "article", "attributes": {"title": "Hello"}},
		"included": [{"id": "9", "type": "person"}],
		"meta": {"total": 1},
		"jsonapi": {"version": "1.1"}
	}`))
	require.NoError(t, err)

	data, ok := doc.Data()
	require.True(t, ok)
	rec, ok := RecordOf(data)
	require.True(t, ok)

	id, ok := rec.ID()
	assert.True(t, ok)
	assert.Equal(t, "1", id)
	typ, ok := rec.Type()
	assert.True(t, ok)
	assert.Equal(t, "article", typ)
	assert.Equal(t, "Hello", rec.Attributes()["title"])

	included, ok := doc.Included()
	require.True(t, ok)
	assert.Len(t, included, 1)

	meta, ok := doc.Meta()
	require.True(t, ok)
	assert.Equal(t, json.Number("1"), meta["total"])

	ver, ok := doc.JSONAPI()
	require.True(t, ok)
	assert.Equal(t, "1.1", ver["version"])

	_, ok = doc.Errors()
	assert.False(t, ok)
}

func TestUnmarshal_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  errors.Kind
	}{
		{"syntax", `{"data":`, errors.KindInvalidData},
		{"array top level", `[1,2]`, errors.KindTypeMismatch},
		{"string top level", `"x"`, errors.KindTypeMismatch},
		{"trailing data", `{"data":null} {}`, errors.KindInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseParse, Kind: tt.kind})
		})
	}
}

func TestDecode_TrailingWhitespace(t *testing.T) {
	doc, err := Decode(strings.NewReader("{\"data\": []}\n\n"))
	require.NoError(t, err)
	data, ok := doc.Data()
	require.True(t, ok)
	assert.Empty(t, data)
}

func TestRecord_ID(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   string
		ok     bool
	}{
		{"string", Record{"id": "abc"}, "abc", true},
		{"number", Record{"id": json.Number("42")}, "42", true},
		{"float", Record{"id": float64(7)}, "7", true},
		{"empty", Record{"id": ""}, "", false},
		{"missing", Record{}, "", false},
		{"bool", Record{"id": true}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.record.ID()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecord_Type(t *testing.T) {
	_, ok := Record{"type": 5}.Type()
	assert.False(t, ok)
	_, ok = Record{"type": ""}.Type()
	assert.False(t, ok)
	typ, ok := Record{"type": "Person"}.Type()
	assert.True(t, ok)
	assert.Equal(t, "Person", typ)
}

func TestReferences(t *testing.T) {
	t.Run("null", func(t *testing.T) {
		refs, err := References(nil)
		require.NoError(t, err)
		assert.Empty(t, refs)
	})

	t.Run("single", func(t *testing.T) {
		refs, err := References(map[string]any{"id": "9", "type": "person"})
		require.NoError(t, err)
		require.Len(t, refs, 1)
		assert.Equal(t, "9", refs[0].ID)
		assert.Equal(t, "person", refs[0].Type)
		assert.True(t, refs[0].HasID)
		assert.True(t, refs[0].HasType)
	})

	t.Run("array skips non-objects", func(t *testing.T) {
		refs, err := References([]any{
			map[string]any{"id": "1", "type": "tag"},
			"junk",
			map[string]any{"type": "tag"},
		})
		require.NoError(t, err)
		require.Len(t, refs, 2)
		assert.Equal(t, "1", refs[0].ID)
		assert.False(t, refs[1].HasID)
	})

	t.Run("unusable id is kept raw", func(t *testing.T) {
		refs, err := References(map[string]any{"id": true, "type": "person"})
		require.NoError(t, err)
		require.Len(t, refs, 1)
		assert.False(t, refs[0].HasID)
		assert.Equal(t, true, refs[0].RawID)
	})

	t.Run("scalar is a mismatch", func(t *testing.T) {
		_, err := References("9")
		require.Error(t, err)
		assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseResolve, Kind: errors.KindTypeMismatch})
	})
}

func TestParseErrorObject(t *testing.T) {
	doc, err := Unmarshal([]byte(`{"errors": [{
		"id": "e1",
		"status": "422",
		"code": "invalid",
		"title": "Invalid Attribute",
		"detail": "First name must contain at least two characters.",
		"source": {"pointer": "/data/attributes/firstName"},
		"links": {"about": {"href": "https://example.com/errors/invalid"}},
		"meta": {"trace": "abc"}
	}, {"status": 404}]}`))
	require.NoError(t, err)

	entries, ok := doc.Errors()
	require.True(t, ok)
	require.Len(t, entries, 2)

	rec, ok := RecordOf(entries[0])
	require.True(t, ok)
	e := ParseErrorObject(rec)
	assert.Equal(t, "e1", e.ID)
	assert.Equal(t, "422", e.Status)
	assert.Equal(t, "invalid", e.Code)
	assert.Equal(t, "/data/attributes/firstName", e.Source.Pointer)
	assert.Equal(t, "https://example.com/errors/invalid", e.About)
	assert.Equal(t, "abc", e.Meta["trace"])
	assert.Contains(t, e.Error(), "Invalid Attribute")

	rec, _ = RecordOf(entries[1])
	e = ParseErrorObject(rec)
	assert.Equal(t, "404", e.Status)
	assert.Equal(t, "404", e.Error())
}

func TestErrorObject_EmptyMessage(t *testing.T) {
	assert.Equal(t, "jsonapi error", ErrorObject{}.Error())
}

func TestDecode_KeepsCause(t *testing.T) {
	_, err := Unmarshal([]byte(`{"data":`))
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.NotNil(t, e.Cause)

	_, err = Unmarshal([]byte(`{"data":null} ]`))
	require.ErrorAs(t, err, &e)
	assert.NotNil(t, e.Cause)
	assert.Contains(t, e.Error(), "trailing data")
}
