package streaming

import (
	"context"
	"fmt"
)

// Dispatcher runs produce off the update thread and later delivers its result
// to done on the update thread. Submit must not block and must not call done
// before returning. Completions may arrive in any order.
type Dispatcher interface {
	Submit(produce func(context.Context) (any, error), done func(any, error))
}

// Request submits a typed job to d. The producer must not touch streamer
// state; everything it needs is captured by value.
func Request[T any](d Dispatcher, produce func(context.Context) (T, error), done func(T, error)) {
	d.Submit(
		func(ctx context.Context) (any, error) {
			return produce(ctx)
		},
		func(result any, err error) {
			var v T
			if err == nil {
				var ok bool
				if v, ok = result.(T); !ok {
					err = fmt.Errorf("%w: %T", ErrResultType, result)
				}
			}
			done(v, err)
		},
	)
}
