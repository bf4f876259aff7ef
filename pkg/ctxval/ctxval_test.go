package ctxval_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/nguyentranbao-ct/product-search/pkg/ctxval"
	"github.com/stretchr/testify/assert"
)

func TestSetAndGet(t *testing.T) {
	t.Parallel()
	type key string

	t.Run("round trip", func(t *testing.T) {
		ctx := ctxval.Wrap(t.Context())
		ctxval.Set(ctx, key("k"), "v")

		got, ok := ctxval.Get[key, string](ctx, key("k"))
		assert.True(t, ok)
		assert.Equal(t, "v", got)
	})

	t.Run("last write wins", func(t *testing.T) {
		ctx := ctxval.Wrap(t.Context())
		ctxval.Set(ctx, key("k"), "first")
		ctxval.Set(ctx, key("k"), "second")

		got, _ := ctxval.Get[key, string](ctx, key("k"))
		assert.Equal(t, "second", got)
	})

	t.Run("missing key", func(t *testing.T) {
		ctx := ctxval.Wrap(t.Context())
		_, ok := ctxval.Get[key, string](ctx, key("absent"))
		assert.False(t, ok)
	})

	t.Run("unwrapped context is a no-op", func(t *testing.T) {
		ctx := t.Context()
		ctxval.Set(ctx, key("k"), "v")
		_, ok := ctxval.Get[key, string](ctx, key("k"))
		assert.False(t, ok)
	})

	t.Run("visible through derived contexts", func(t *testing.T) {
		ctx := ctxval.Wrap(t.Context())
		derived, cancel := context.WithCancel(ctx)
		defer cancel()

		ctxval.Set(derived, key("k"), "v")

		got, ok := ctxval.Get[key, string](ctx, key("k"))
		assert.True(t, ok)
		assert.Equal(t, "v", got, "values set on a derived context surface on the wrapped one")
	})
}

func TestClientKey(t *testing.T) {
	t.Parallel()

	ctx := ctxval.Wrap(t.Context())
	_, ok := ctxval.ClientKey(ctx)
	assert.False(t, ok)

	ctxval.SetClientKey(ctx, "203.0.113.7|partner-42")
	got, ok := ctxval.ClientKey(ctx)
	assert.True(t, ok)
	assert.Equal(t, "203.0.113.7|partner-42", got)
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := ctxval.Wrap(t.Context())
	const goroutines = 50
	const operations = 200

	var wg sync.WaitGroup
	wg.Add(goroutines * 2)
	for i := range goroutines {
		go func(id int) {
			defer wg.Done()
			for j := range operations {
				ctxval.Set(ctx, fmt.Sprintf("key-%d", j%10), fmt.Sprintf("value-%d-%d", id, j))
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := range operations {
				_, _ = ctxval.Get[string, string](ctx, fmt.Sprintf("key-%d", j%10))
			}
		}()
	}
	wg.Wait()
}
