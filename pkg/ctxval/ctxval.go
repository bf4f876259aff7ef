package ctxval

import (
	"context"
	"sync"
)

// Wrap installs a mutable value store on the context. Middleware that runs
// after the wrap can attach values with Set without swapping the request,
// and every context derived from the wrapped one sees them.
func Wrap(ctx context.Context) context.Context {
	if _, ok := getStore(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, storeKey, newStore(ctx))
}

// Set attaches a value to a wrapped context. On an unwrapped context it is
// a no-op, so callers never have to care whether the chain set one up.
func Set[K comparable, V any](ctx context.Context, k K, v V) {
	s, ok := getStore(ctx)
	if !ok {
		return
	}
	s.set(k, v)
}

func Get[K comparable, V any](ctx context.Context, k K) (V, bool) {
	s, ok := getStore(ctx)
	if !ok {
		return *new(V), false
	}
	v, ok := s.get(k).(V)
	return v, ok
}

type clientKeyKey struct{}

// SetClientKey records the admission identity of the request so code further
// down the call chain can report it without threading it through arguments.
func SetClientKey(ctx context.Context, key string) {
	Set(ctx, clientKeyKey{}, key)
}

func ClientKey(ctx context.Context) (string, bool) {
	return Get[clientKeyKey, string](ctx, clientKeyKey{})
}

var storeKey = storeKeyType{}

type storeKeyType struct{}

type store struct {
	// a context doubles as the backing map; the handful of values a request
	// carries never justifies anything heavier
	values context.Context
	m      sync.Mutex
}

func newStore(ctx context.Context) *store {
	return &store{values: ctx}
}

func (s *store) get(key any) any {
	s.m.Lock()
	defer s.m.Unlock()
	return s.values.Value(key)
}

func (s *store) set(key any, value any) {
	s.m.Lock()
	defer s.m.Unlock()
	s.values = context.WithValue(s.values, key, value)
}

func getStore(ctx context.Context) (*store, bool) {
	s, ok := ctx.Value(storeKey).(*store)
	return s, ok
}
