package model_selection

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// Round trains and scores one split.
type Round func(ctx context.Context) (float64, error)

// Backend executes the rounds of a validator. Scores are returned in round order.
type Backend interface {
	Run(ctx context.Context, rounds []Round) ([]float64, error)
}

// Serial runs rounds one after another on the calling goroutine.
type Serial struct{}

// Run executes rounds in order and stops at the first error or cancellation.
func (Serial) Run(ctx context.Context, rounds []Round) ([]float64, error) {
	scores := make([]float64, len(rounds))
	for i, r := range rounds {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "round %d", i)
		}
		score, err := r(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "round %d", i)
		}
		scores[i] = score
	}
	return scores, nil
}

func (Serial) String() string { return "serial" }

// Parallel runs rounds on a bounded goroutine pool. The first failing round
// cancels the others.
type Parallel struct {
	// Workers bounds concurrent rounds; 0 means GOMAXPROCS.
	Workers int
}

// Run executes rounds concurrently. A panicking round is reported as a PanicError.
func (p Parallel) Run(ctx context.Context, rounds []Round) ([]float64, error) {
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	scores := make([]float64, len(rounds))
	cp := pool.New().WithMaxGoroutines(workers).WithContext(ctx).WithFailFast()
	for i, r := range rounds {
		cp.Go(func(ctx context.Context) error {
			return errors.SafeExecute("model_selection.Parallel", func() error {
				score, err := r(ctx)
				if err != nil {
					return errors.Wrapf(err, "round %d", i)
				}
				scores[i] = score
				return nil
			})
		})
	}
	if err := cp.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

func (Parallel) String() string { return "parallel" }
