package tx

import "context"

// Manager wraps transactional boundaries for multi-key store writes.
// Store calls made with the context passed to fn join the transaction.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type handleKey[T any] struct{}

// Attach stores a backend's open transaction handle in ctx. Handles are keyed
// by type, so different backends never see each other's handle.
func Attach[T any](ctx context.Context, handle T) context.Context {
	return context.WithValue(ctx, handleKey[T]{}, handle)
}

// Current returns the handle attached by Attach, if any.
func Current[T any](ctx context.Context) (T, bool) {
	handle, ok := ctx.Value(handleKey[T]{}).(T)
	return handle, ok
}
