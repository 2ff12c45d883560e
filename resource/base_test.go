package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/jsonapi/document"
	"github.com/wippyai/jsonapi/errors"
)

func TestInitialize_TypeImmutable(t *testing.T) {
	r := &testResource{}
	require.NoError(t, Initialize(r, Key{ID: "1", Type: "article"}, nil))
	require.NoError(t, Initialize(r, Key{ID: "2", Type: "article"}, nil))

	err := Initialize(r, Key{ID: "2", Type: "person"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseResolve, Kind: errors.KindInvalidData})
	assert.Equal(t, "article", r.Type())
}

func TestInitialize_RejectsZeroKey(t *testing.T) {
	err := Initialize(&testResource{}, Key{Type: "article"}, nil)
	assert.Error(t, err)
}

func TestBase_Accessors(t *testing.T) {
	r := newTestResource(t, "1", "article", nil)
	assert.True(t, r.IsStub())
	assert.Nil(t, r.Attributes())
	assert.Nil(t, r.Meta())
	assert.Nil(t, r.Links())

	Attach(r, document.Record{
		"id":         "1",
		"type":       "article",
		"attributes": map[string]any{"title": "Hello"},
		"meta":       map[string]any{"rev": "3"},
		"links":      map[string]any{"self": "/articles/1"},
	})

	assert.False(t, r.IsStub())
	title, ok := r.Attribute("title")
	assert.True(t, ok)
	assert.Equal(t, "Hello", title)
	assert.Equal(t, "3", r.Meta()["rev"])
	assert.Equal(t, "/articles/1", r.Links()["self"])
	assert.Equal(t, Key{ID: "1", Type: "article"}, r.Key())
}

func TestBase_Related(t *testing.T) {
	pool := NewPool()
	owner := &testOwner{pool: pool}

	article := newTestResource(t, "1", "article", owner)
	Attach(article, document.Record{
		"id":   "1",
		"type": "article",
		"relationships": map[string]any{
			"author": map[string]any{"data": map[string]any{"id": "9", "type": "person"}},
			"tags": map[string]any{"data": []any{
				map[string]any{"id": "a", "type": "tag"},
				map[string]any{"id": "b"},
				map[string]any{"type": "tag"},
			}},
			"editor": map[string]any{"data": nil},
			"broken": map[string]any{"data": "x"},
		},
	})
	author := newTestResource(t, "9", "person", owner)
	tagA := newTestResource(t, "a", "tag", owner)
	tagB := newTestResource(t, "b", "tags", owner)
	pool.Insert(article)
	pool.Insert(author)
	pool.Insert(tagA)
	pool.Insert(tagB)

	got, ok := article.RelatedOne("author")
	require.True(t, ok)
	assert.Same(t, author, got)

	keys, ok := article.Relationship("tags")
	require.True(t, ok)
	assert.Equal(t, []Key{{ID: "a", Type: "tag"}, {ID: "b", Type: "tags"}}, keys)

	related := article.Related("tags")
	require.Len(t, related, 2)
	assert.Same(t, tagA, related[0])
	assert.Same(t, tagB, related[1])

	keys, ok = article.Relationship("editor")
	assert.True(t, ok)
	assert.Empty(t, keys)

	_, ok = article.Relationship("broken")
	assert.False(t, ok)
	_, ok = article.Relationship("missing")
	assert.False(t, ok)
	_, ok = article.RelatedOne("missing")
	assert.False(t, ok)
}

func TestBase_RelatedWithoutOwner(t *testing.T) {
	r := newTestResource(t, "1", "article", nil)
	Attach(r, document.Record{
		"relationships": map[string]any{
			"author": map[string]any{"data": map[string]any{"id": "9", "type": "person"}},
		},
	})
	assert.Nil(t, r.Related("author"))
}

func TestBase_RelatedGeneratedKey(t *testing.T) {
	pool := NewPool()
	owner := &testOwner{pool: pool}

	article := newTestResource(t, "1", "article", owner)
	Attach(article, document.Record{
		"relationships": map[string]any{
			"tags": map[string]any{"data": []any{
				map[string]any{"id": "a", "type": "tag"},
				map[string]any{"type": "tag"},
				map[string]any{"type": "tag"},
			}},
		},
	})
	generated := newTestResource(t, "gen-1", "tag", owner)
	BindGenerated(article, "tags", 1, generated.Key())
	pool.Insert(generated)

	keys, ok := article.Relationship("tags")
	require.True(t, ok)
	assert.Equal(t, []Key{{ID: "a", Type: "tag"}, {ID: "gen-1", Type: "tag"}}, keys)

	related := article.Related("tags")
	require.Len(t, related, 1)
	assert.Same(t, generated, related[0])
}
