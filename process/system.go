// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package process

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"

	"github.com/nitinol/nitinol/extension"
	"github.com/nitinol/nitinol/internal/errorschain"
	imetric "github.com/nitinol/nitinol/internal/metric"
	"github.com/nitinol/nitinol/internal/validation"
	"github.com/nitinol/nitinol/log"
)

const defaultSchedulerStopTimeout = 3 * time.Second

// stoppable is the untyped view of a Ref used when shutting the system down
type stoppable interface {
	Poison() error
	Done() <-chan struct{}
}

// System owns the runtime shared by all processes: the registry,
// the extensions, the scheduler, the logger and the metrics.
type System struct {
	logger               log.Logger
	extensions           *extension.Extensions
	meterProvider        metric.MeterProvider
	shardCount           int
	schedulerStopTimeout time.Duration

	registry  *Registry
	scheduler *Scheduler
	metric    *imetric.ProcessMetric
	started   *atomic.Bool
}

// NewSystem creates a System.
func NewSystem(opts ...Option) (*System, error) {
	system := &System{
		logger:               log.DefaultLogger,
		extensions:           extension.Empty(),
		shardCount:           defaultShardCount,
		schedulerStopTimeout: defaultSchedulerStopTimeout,
		started:              atomic.NewBool(false),
	}

	for _, opt := range opts {
		opt.Apply(system)
	}

	if err := validation.New(validation.AllErrors()).
		AddAssertion(system.logger != nil, "logger is required").
		AddAssertion(system.extensions != nil, "extensions are required").
		AddAssertion(system.shardCount > 0, "shard count must be positive").
		AddAssertion(system.schedulerStopTimeout > 0, "scheduler stop timeout must be positive").
		Validate(); err != nil {
		return nil, fmt.Errorf("invalid system configuration: %w", err)
	}

	processMetric, err := imetric.NewProcessMetric(imetric.NewProvider(system.meterProvider).Meter())
	if err != nil {
		return nil, err
	}

	scheduler, err := newScheduler(system.logger, system.schedulerStopTimeout)
	if err != nil {
		return nil, err
	}

	system.registry = NewRegistry(system.shardCount)
	system.metric = processMetric
	system.scheduler = scheduler
	return system, nil
}

// Start starts the scheduler. Processes can be spawned before Start;
// scheduled deliveries cannot.
func (x *System) Start(ctx context.Context) {
	if x.started.Swap(true) {
		return
	}
	x.scheduler.start(ctx)
	x.logger.Info("System started")
}

// Stop poisons every registered process, waits for all of them to stop
// and then stops the scheduler. It returns ctx.Err() when ctx is done
// before every process stopped.
func (x *System) Stop(ctx context.Context) error {
	chain := errorschain.New()

	pending := make([]stoppable, 0, x.registry.Len())
	for _, id := range x.registry.IDs() {
		handle, ok := x.registry.Get(id)
		if !ok {
			continue
		}

		process, ok := handle.(stoppable)
		if !ok {
			continue
		}

		// a process stopping on its own is not an error here
		_ = process.Poison()
		pending = append(pending, process)
	}

	chain.RunContext(ctx, func(ctx context.Context) error {
		for _, process := range pending {
			select {
			case <-process.Done():
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	chain.Run(func() error { return x.scheduler.stop(ctx) })
	x.started.Store(false)

	if err := chain.Err(); err != nil {
		x.logger.Errorf("System stopped with errors: %v", err)
		return err
	}

	x.logger.Info("System stopped")
	return nil
}

// Registry returns the process registry
func (x *System) Registry() *Registry {
	return x.registry
}

// Extensions returns the installed extensions
func (x *System) Extensions() *extension.Extensions {
	return x.extensions
}

// Scheduler returns the scheduler
func (x *System) Scheduler() *Scheduler {
	return x.scheduler
}

// Logger returns the system logger
func (x *System) Logger() log.Logger {
	return x.logger
}
