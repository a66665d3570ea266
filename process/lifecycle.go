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
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/identity"
	"github.com/nitinol/nitinol/internal/recovery"
)

// Spawn starts a process for entity under id and returns its handle.
//
// Registration and the Starter hook run before Spawn returns. Spawn fails
// with ErrAlreadyExist when id is taken and leaves the running process
// untouched. When the Starter hook fails the process is deregistered and
// the hook error returned.
//
// ctx only carries values: cancelling it does not stop the process.
// Use Ref.Poison or System.Stop for that.
func Spawn[T any](ctx context.Context, system *System, id identity.Identity, entity T, opts ...SpawnOption) (*Ref[T], error) {
	if id.IsZero() {
		return nil, gerrors.ErrInvalidIdentity
	}

	config := newSpawnConfig(opts...)
	ref := newRef[T](id, newMailbox[T](config.idleTimeout))
	if err := system.registry.Register(id, ref); err != nil {
		return nil, err
	}

	pctx := newContext(context.WithoutCancel(ctx), id, config.sequence, atomic.NewBool(true), system)
	w := &worker[T]{
		ref:    ref,
		entity: entity,
		pctx:   pctx,
		system: system,
		attrs:  metric.WithAttributes(attribute.String("process.type", typeName[T]())),
	}

	if starter, ok := any(entity).(Starter); ok {
		if err := recovery.Try(func() error { return starter.Started(pctx) }); err != nil {
			w.deregister()
			w.dispose()
			return nil, err
		}
	}

	system.metric.SpawnCount().Add(pctx.Context(), 1, w.attrs)
	pctx.Logger().Debugf("Process %s started", id)

	go w.run()
	return ref, nil
}

// worker drives one process from Running to Stopped
type worker[T any] struct {
	ref    *Ref[T]
	entity T
	pctx   *Context
	system *System
	attrs  metric.MeasurementOption
}

func (w *worker[T]) run() {
	defer w.stop()

	logger := w.pctx.Logger()
	for w.pctx.IsActive() {
		task, err := w.ref.mailbox.dequeue()
		if err != nil {
			if errors.Is(err, errIdle) {
				logger.Debugf("Process %s idle, stopping", w.ref.id)
			}
			return
		}

		if err := w.process(task); err != nil {
			var (
				fatal      *gerrors.FatalError
				panicError *gerrors.PanicError
			)

			if errors.As(err, &fatal) || errors.As(err, &panicError) {
				logger.Errorf("Process %s failed: %v", w.ref.id, err)
				return
			}
			logger.Warnf("Process %s: %v", w.ref.id, err)
		}
	}
}

func (w *worker[T]) process(task Task[T]) error {
	start := time.Now()
	err := recovery.Try(func() error { return task.Apply(w.entity, w.pctx) })

	ctx := w.pctx.Context()
	w.system.metric.ProcessedCount().Add(ctx, 1, w.attrs)
	w.system.metric.ProcessingDuration().Record(ctx, float64(time.Since(start))/float64(time.Millisecond), w.attrs)
	if err != nil {
		w.system.metric.FailureCount().Add(ctx, 1, w.attrs)
	}
	return err
}

func (w *worker[T]) stop() {
	w.pctx.Poison()
	w.deregister()

	if stopper, ok := any(w.entity).(Stopper); ok {
		if err := recovery.Try(func() error { return stopper.Stopped(w.pctx) }); err != nil {
			w.pctx.Logger().Warnf("Process %s stop hook failed: %v", w.ref.id, err)
		}
	}

	if dropped := w.dispose(); dropped > 0 {
		w.pctx.Logger().Warnf("Process %s stopped with %d pending tasks dropped", w.ref.id, dropped)
	}

	w.system.metric.StopCount().Add(w.pctx.Context(), 1, w.attrs)
	w.pctx.Logger().Debugf("Process %s stopped", w.ref.id)
}

// deregister closes the handle to new tasks and removes it from the registry
func (w *worker[T]) deregister() {
	w.ref.alive.Store(false)
	if err := w.system.registry.Deregister(w.ref.id); err != nil {
		w.pctx.Logger().Warnf("Process %s: %v", w.ref.id, err)
	}
}

// dispose releases the mailbox and wakes up every waiting caller.
// It returns the number of tasks dropped.
func (w *worker[T]) dispose() int {
	dropped := w.ref.mailbox.dispose()
	close(w.ref.done)
	return dropped
}

func typeName[T any]() string {
	var entity T
	return fmt.Sprintf("%T", entity)
}
