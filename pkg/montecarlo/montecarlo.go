// Copyright Project GoHPC Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package montecarlo coordinates a parallel Monte Carlo estimate of π.
// It partitions a sample budget, runs one sampler per worker through a
// workerpool, and reduces the partial counts into a single estimate.
package montecarlo

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/qcserestipy/montepi/pkg/sampler"
	"github.com/qcserestipy/montepi/pkg/workerpool"
	"github.com/sirupsen/logrus"
)

// Config describes one estimation run.
type Config struct {
	Threads   int
	Samples   int64
	Remainder RemainderPolicy
	// Seed, when set, makes every worker stream reproducible.
	Seed *uint64
}

// Validate rejects inputs that would divide by zero or run nothing.
func (c Config) Validate() error {
	if c.Threads <= 0 || c.Samples <= 0 {
		return fmt.Errorf("%w: threads=%d samples=%d", ErrDegenerateInput, c.Threads, c.Samples)
	}
	if _, err := ParseRemainderPolicy(string(c.Remainder)); err != nil {
		return err
	}
	return nil
}

// PartialResult is the count one worker hands back.
type PartialResult struct {
	Worker int
	Inside int64
}

// AggregateResult is the outcome of a full run.
type AggregateResult struct {
	TotalInside      int64
	TotalSamples     int64
	RequestedSamples int64
	Threads          int
	PiEstimate       float64
	Elapsed          time.Duration
}

func (r AggregateResult) ElapsedSeconds() float64 {
	return r.Elapsed.Seconds()
}

// Report writes the one-line human readable summary.
func (r AggregateResult) Report(w io.Writer) error {
	_, err := fmt.Fprintf(w, "After %d iterations with %d threads in %.6fs, the value of pi = %.10f\n",
		r.TotalSamples, r.Threads, r.ElapsedSeconds(), r.PiEstimate)
	return err
}

// Estimate returns 4 * inside / executed.
func Estimate(inside, executed int64) (float64, error) {
	if executed <= 0 {
		return 0, ErrNoSamples
	}
	return 4 * (float64(inside) / float64(executed)), nil
}

// SourceFactory builds the random source owned by one worker.
type SourceFactory func(worker int) (sampler.Source, error)

type options struct {
	logger    logrus.FieldLogger
	newSource SourceFactory
}

type Option func(*options)

// WithLogger routes progress logging to l instead of the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithSourceFactory overrides per-worker stream construction.
func WithSourceFactory(f SourceFactory) Option {
	return func(o *options) {
		o.newSource = f
	}
}

// Run executes the estimate described by cfg. It blocks until every worker
// has finished.
func Run(ctx context.Context, cfg Config, opts ...Option) (AggregateResult, error) {
	if err := cfg.Validate(); err != nil {
		return AggregateResult{}, err
	}
	policy, _ := ParseRemainderPolicy(string(cfg.Remainder))

	o := options{logger: logrus.StandardLogger()}
	for _, fn := range opts {
		fn(&o)
	}
	if o.newSource == nil {
		o.newSource = defaultSourceFactory(cfg.Seed)
	}
	log := o.logger

	tasks := Partition(cfg.Threads, cfg.Samples, policy)
	executed := Executed(tasks)
	log.WithFields(logrus.Fields{
		"workers":         cfg.Threads,
		"points_per_task": cfg.Samples / int64(cfg.Threads),
		"remainder":       cfg.Samples % int64(cfg.Threads),
		"policy":          policy,
		"total_allocated": executed,
	}).Info("Work distribution prepared")

	if executed == 0 {
		return AggregateResult{}, fmt.Errorf("%w: %d samples across %d threads with policy %s",
			ErrNoSamples, cfg.Samples, cfg.Threads, policy)
	}

	pool := workerpool.New[SampleRequest, PartialResult](
		workerpool.WithWorkers(cfg.Threads),
	)

	work := func(_ context.Context, idx int, t SampleRequest) (PartialResult, error) {
		taskStart := time.Now()
		src, err := o.newSource(idx)
		if err != nil {
			return PartialResult{}, err
		}
		inside := sampler.Count(t.SampleCount, src)

		log.WithFields(logrus.Fields{
			"worker":           idx,
			"points_processed": t.SampleCount,
			"points_in_circle": inside,
			"duration":         time.Since(taskStart),
		}).Debug("Worker completed")

		return PartialResult{Worker: idx, Inside: inside}, nil
	}

	start := time.Now()
	partials, err := pool.Run(ctx, tasks, work)
	elapsed := time.Since(start)
	if err != nil {
		return AggregateResult{}, fmt.Errorf("worker pool: %w", err)
	}

	var total int64
	for _, p := range partials {
		total += p.Inside
	}
	pi, err := Estimate(total, executed)
	if err != nil {
		return AggregateResult{}, err
	}

	log.WithFields(logrus.Fields{
		"pi_approximation": pi,
		"error":            math.Abs(pi - math.Pi),
		"duration":         elapsed,
		"points_per_sec":   float64(executed) / elapsed.Seconds(),
	}).Info("Computation completed")

	return AggregateResult{
		TotalInside:      total,
		TotalSamples:     executed,
		RequestedSamples: cfg.Samples,
		Threads:          cfg.Threads,
		PiEstimate:       pi,
		Elapsed:          elapsed,
	}, nil
}

func defaultSourceFactory(seed *uint64) SourceFactory {
	if seed != nil {
		s := *seed
		return func(worker int) (sampler.Source, error) {
			return sampler.NewSeededStream(s, worker), nil
		}
	}
	return func(worker int) (sampler.Source, error) {
		r, err := sampler.NewStream(worker)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}
