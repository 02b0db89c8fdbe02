// Package dispatch runs the same unit of work against several engines at
// once. Each engine gets its own goroutine and reports back on a channel.
package dispatch

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// Outcome is what one engine's worker reports.
type Outcome[T any] struct {
	// Index is the position of the target in the slice passed to Run.
	Index   int
	Target  string
	Value   T
	Err     error
	Elapsed time.Duration
}

// Work is executed once per target.
type Work[E, T any] func(ctx context.Context, target E) (T, error)

// Run starts one goroutine per target and returns a channel that carries
// each outcome and is closed once every worker has finished. At most
// parallel workers run at the same time; parallel <= 0 means no limit.
// name labels the outcome for each target.
func Run[E, T any](ctx context.Context, targets []E, name func(E) string, parallel int, work Work[E, T]) <-chan Outcome[T] {
	out := make(chan Outcome[T], len(targets))
	if len(targets) == 0 {
		close(out)
		return out
	}

	var sem chan struct{}
	if parallel > 0 {
		sem = make(chan struct{}, parallel)
	}

	var wg sync.WaitGroup
	for i, target := range targets {
		i, target := i, target
		wg.Add(1)
		go func() {
			defer wg.Done()

			o := Outcome[T]{Index: i, Target: name(target)}
			if sem != nil {
				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-ctx.Done():
					o.Err = ctx.Err()
					out <- o
					return
				}
			}

			start := time.Now()
			o.Value, o.Err = work(ctx, target)
			o.Elapsed = time.Since(start)
			out <- o
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// Collect drains ch and returns the outcomes in target order.
func Collect[T any](ch <-chan Outcome[T]) []Outcome[T] {
	var outcomes []Outcome[T]
	for o := range ch {
		outcomes = append(outcomes, o)
	}
	slices.SortFunc(outcomes, func(a, b Outcome[T]) int {
		return cmp.Compare(a.Index, b.Index)
	})
	return outcomes
}
