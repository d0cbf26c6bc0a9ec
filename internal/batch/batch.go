// Package batch runs one job per input file on a bounded set of goroutines.
package batch

import (
	"context"
	"time"

	"github.com/jdeng/gopng/internal/logging"
	"github.com/jdeng/gopng/internal/oops"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Func processes a single input. It is called from several goroutines at once.
type Func func(ctx context.Context, input string) error

// Result is the outcome of one input. Skipped inputs were never started
// because an earlier job failed or the context was canceled.
type Result struct {
	Input    string
	Err      error
	Skipped  bool
	Duration time.Duration
}

type Pool struct {
	// Workers bounds the number of concurrent jobs. Values below 1 mean 1.
	Workers int
	// KeepGoing runs every input even after a failure.
	KeepGoing bool
	Logger    *zerolog.Logger
}

// Run calls fn for every input and returns one Result per input, in input
// order. The error is the first job failure, or a summary when KeepGoing is
// set.
func (p *Pool) Run(ctx context.Context, inputs []string, fn Func) ([]Result, error) {
	log := zerolog.Nop()
	if p.Logger != nil {
		log = *p.Logger
	}
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(inputs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, input := range inputs {
		i, input := i, input
		if err := ctx.Err(); err != nil {
			results[i] = Result{Input: input, Err: err, Skipped: true}
			continue
		}
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Input: input, Err: err, Skipped: true}
				return nil
			}
			start := time.Now()
			err := call(ctx, &log, fn, input)
			results[i] = Result{Input: input, Err: err, Duration: time.Since(start)}
			if err != nil {
				log.Debug().Str("input", input).Err(err).Msg("batch: job failed")
				if !p.KeepGoing {
					return err
				}
				return nil
			}
			log.Debug().Str("input", input).Dur("took", results[i].Duration).Msg("batch: job done")
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return results, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return results, oops.New(nil, "%d of %d inputs failed", failed, len(inputs))
	}
	return results, nil
}

// call runs fn, turning a panic into an error for input.
func call(ctx context.Context, log *zerolog.Logger, fn Func, input string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.LogPanicValue(log, r, "batch: panic in job "+input)
			err = oops.New(nil, "panic processing %s: %v", input, r)
		}
	}()
	return fn(ctx, input)
}
