// Package batch runs expression operations over many inputs with a
// bounded worker pool.
package batch

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	sym "github.com/njchilds90/gosymcore"
	"github.com/njchilds90/gosymcore/internal/logging"
)

// ErrLimit reports an input rejected by a Runner's limits.
var ErrLimit = errors.New("limit exceeded")

// Result is the outcome for one input. Exactly one of Value and Err is
// set.
type Result struct {
	Value sym.Basic
	Err   error
}

// Runner applies an operation to a batch concurrently.
type Runner struct {
	// Workers bounds concurrency. Values below one mean one.
	Workers int
	// MaxExponent rejects any sum raised to a larger integer power
	// before expansion starts. Zero disables the check.
	MaxExponent int64
	// MaxBatch rejects batches with more inputs. Zero disables the check.
	MaxBatch int
	Logger   *logging.Logger
}

// Expand expands every input.
func (r *Runner) Expand(ctx context.Context, exprs []sym.Basic) ([]Result, error) {
	return r.Map(ctx, exprs, func(b sym.Basic) (sym.Basic, error) {
		if err := CheckExponents(b, r.MaxExponent); err != nil {
			return nil, err
		}
		return sym.Expand(b)
	})
}

// Map applies fn to each input. Per-input failures land in the matching
// Result; the returned error is non-nil only when the batch itself is
// rejected or ctx is done.
func (r *Runner) Map(ctx context.Context, exprs []sym.Basic, fn func(sym.Basic) (sym.Basic, error)) ([]Result, error) {
	if r.MaxBatch > 0 && len(exprs) > r.MaxBatch {
		return nil, errors.Wrapf(ErrLimit, "batch of %d exceeds %d", len(exprs), r.MaxBatch)
	}
	logger := r.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	start := time.Now()
	results := make([]Result, len(exprs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, e := range exprs {
		i, e := i, e
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := fn(e)
			results[i] = Result{Value: v, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "batch cancelled")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "batch cancelled")
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	logger.Debug("batch complete", "inputs", len(exprs), "failed", failed, "workers", workers, "duration", time.Since(start))
	return results, nil
}

// CheckExponents returns an ErrLimit error if b holds a sum raised to an
// integer power larger than max in magnitude. A max below one disables
// the check.
func CheckExponents(b sym.Basic, max int64) error {
	if max < 1 {
		return nil
	}
	if p, ok := b.(*sym.Pow); ok {
		if _, isAdd := p.Base().(*sym.Add); isAdd {
			if n, isInt := p.Exp().(*sym.Integer); isInt {
				k, fits := n.Int64()
				if !fits || k > max || k < -max {
					return errors.Wrapf(ErrLimit, "exponent %s exceeds %d", n, max)
				}
			}
		}
	}
	for _, a := range b.Args() {
		if err := CheckExponents(a, max); err != nil {
			return err
		}
	}
	return nil
}
