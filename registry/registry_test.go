package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/jsonapi/errors"
	"github.com/wippyai/jsonapi/resource"
)

type article struct {
	resource.Base
}

type person struct {
	resource.Base
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("Articles", Of[article]()))

	for _, name := range []string{"articles", "ARTICLES", "Articles"} {
		ctor, ok := r.Lookup(name)
		require.True(t, ok, name)
		_, isArticle := ctor(nil).(*article)
		assert.True(t, isArticle)
	}

	_, ok := r.Lookup("people")
	assert.False(t, ok)
}

func TestRegistry_SurroundingWhitespace(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("  article ", Of[article]()))
	assert.Equal(t, []string{"article"}, r.Entries())

	for _, name := range []string{"article", " article", "Article\t", "\narticle "} {
		_, ok := r.Lookup(name)
		assert.True(t, ok, "%q", name)
	}
}

func TestRegistry_Overwrite(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("thing", Of[article]()))
	require.NoError(t, r.Register("THING", Of[person]()))

	ctor, ok := r.Lookup("thing")
	require.True(t, ok)
	_, isPerson := ctor(nil).(*person)
	assert.True(t, isPerson)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_Invalid(t *testing.T) {
	r := New()

	err := r.Register("  ", Of[article]())
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseRegister, Kind: errors.KindRegistration})

	err = r.Register("article", nil)
	require.Error(t, err)

	assert.Panics(t, func() { r.MustRegister("", nil) })
	assert.Equal(t, 0, r.Count())
}

func TestRegistry_EntriesAndReset(t *testing.T) {
	r := New()
	r.MustRegister("people", Of[person]())
	r.MustRegister("articles", Of[article]())

	assert.Equal(t, []string{"articles", "people"}, r.Entries())

	r.Reset()
	assert.Equal(t, 0, r.Count())
	assert.Empty(t, r.Entries())
}

func TestRegistry_ConstructorsAreFresh(t *testing.T) {
	ctor := Of[article]()
	a, b := ctor(nil), ctor(nil)
	assert.NotSame(t, a, b)
}

func TestRegistry_Concurrent(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = r.Register(fmt.Sprintf("type%d", i%5), Of[article]())
		}(i)
		go func(i int) {
			defer wg.Done()
			r.Lookup(fmt.Sprintf("type%d", i%5))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 5, r.Count())
}

func TestRegistry_Logging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	defer SetLogger(prev)

	r := New()
	r.MustRegister("articles", Of[article]())
	r.MustRegister("articles", Of[article]())

	entries := logs.FilterMessage("registered resource type").All()
	require.Len(t, entries, 2)
	assert.Equal(t, false, entries[0].ContextMap()["replaced"])
	assert.Equal(t, true, entries[1].ContextMap()["replaced"])
}

func TestDefaultRegistry(t *testing.T) {
	defer Default.Reset()

	require.NoError(t, Register("widgets", Of[article]()))
	_, ok := Lookup("Widgets")
	assert.True(t, ok)

	MustRegister("gadgets", Of[person]())
	assert.Equal(t, 2, Default.Count())
}
