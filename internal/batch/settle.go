package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Outcome is the settled result of one item. Exactly one of Value or Err is meaningful.
type Outcome[T any] struct {
	Value T
	Err   error
}

func (o Outcome[T]) OK() bool {
	return o.Err == nil
}

// SettleAll runs fn for every item concurrently and waits for all of them.
// The returned slice has one outcome per item, in input order. A failing or
// panicking item never cancels its siblings. limit <= 0 means unbounded.
func SettleAll[In, Out any](ctx context.Context, items []In, limit int, fn func(ctx context.Context, item In) (Out, error)) []Outcome[Out] {
	outcomes := make([]Outcome[Out], len(items))
	if len(items) == 0 {
		return outcomes
	}

	// plain Group, not WithContext: an item error must not cancel the others
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			outcomes[i] = settle(ctx, item, fn)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func settle[In, Out any](ctx context.Context, item In, fn func(ctx context.Context, item In) (Out, error)) (o Outcome[Out]) {
	defer func() {
		if r := recover(); r != nil {
			o = Outcome[Out]{Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	v, err := fn(ctx, item)
	if err != nil {
		return Outcome[Out]{Err: err}
	}
	return Outcome[Out]{Value: v}
}
