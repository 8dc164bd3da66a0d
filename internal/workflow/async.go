package workflow

import (
	"context"

	"ohap/internal/domain"
)

// Result carries an operation outcome over a channel.
type Result[T any] struct {
	Value T
	Err   error
}

// Async is a thin adapter over Client for callers that want channel-based
// completion instead of blocking. Each method runs the underlying blocking
// call on its own goroutine and delivers exactly one Result on a buffered
// channel, so dropping the channel never leaks the goroutine.
type Async struct {
	Client *Client
}

func run[T any](fn func() (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		v, err := fn()
		ch <- Result[T]{Value: v, Err: err}
	}()
	return ch
}

func (a Async) CreateTask(ctx context.Context, candidate domain.Task) <-chan Result[domain.Task] {
	return run(func() (domain.Task, error) { return a.Client.CreateTask(ctx, candidate) })
}

func (a Async) SubmitTask(ctx context.Context, taskID string) <-chan Result[domain.Task] {
	return run(func() (domain.Task, error) { return a.Client.SubmitTask(ctx, taskID) })
}

func (a Async) SubmitProposal(ctx context.Context, candidate domain.Proposal) <-chan Result[domain.Proposal] {
	return run(func() (domain.Proposal, error) { return a.Client.SubmitProposal(ctx, candidate) })
}

func (a Async) AcceptProposal(ctx context.Context, proposalID string) <-chan Result[domain.Contract] {
	return run(func() (domain.Contract, error) { return a.Client.AcceptProposal(ctx, proposalID) })
}

func (a Async) SubmitDeliverable(ctx context.Context, candidate domain.Deliverable) <-chan Result[domain.Deliverable] {
	return run(func() (domain.Deliverable, error) { return a.Client.SubmitDeliverable(ctx, candidate) })
}

func (a Async) SubmitReview(ctx context.Context, candidate domain.Review) <-chan Result[domain.Review] {
	return run(func() (domain.Review, error) { return a.Client.SubmitReview(ctx, candidate) })
}
