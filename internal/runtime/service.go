package runtime

import (
	"context"

	"logscope/internal/logstore"
	"logscope/internal/tailing"
)

type Service interface {
	RunContext(ctx context.Context) error
}

type ServiceFunc func(ctx context.Context) error

func (f ServiceFunc) RunContext(ctx context.Context) error {
	return f(ctx)
}

// NewTailService starts one tailing worker per log and, once ctx ends,
// waits for the workers to finish.
func NewTailService(coordinator *tailing.Coordinator, logs []*logstore.Log) Service {
	if coordinator == nil {
		panic("runtime.NewTailService: coordinator must not be nil")
	}
	return ServiceFunc(func(ctx context.Context) error {
		coordinator.Start(ctx, logs)
		<-ctx.Done()
		coordinator.Wait()
		return ctx.Err()
	})
}
