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

	"go.uber.org/atomic"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/identity"
)

// Ref is the handle to a running process.
//
// A Ref is shared by pointer: every holder talks to the same mailbox.
// Methods cannot carry type parameters in Go, hence the typed
// interactions are free functions taking the Ref (Handle, Apply, ...).
type Ref[T any] struct {
	id      identity.Identity
	mailbox *mailbox[T]
	alive   *atomic.Bool
	done    chan struct{}
}

func newRef[T any](id identity.Identity, mailbox *mailbox[T]) *Ref[T] {
	return &Ref[T]{
		id:      id,
		mailbox: mailbox,
		alive:   atomic.NewBool(true),
		done:    make(chan struct{}),
	}
}

// ID returns the process identity
func (ref *Ref[T]) ID() identity.Identity {
	return ref.id
}

// IsAlive reports whether the process worker is still running
func (ref *Ref[T]) IsAlive() bool {
	return ref.alive.Load()
}

// Done returns a channel closed once the process is stopped
func (ref *Ref[T]) Done() <-chan struct{} {
	return ref.done
}

// Poison asks the process to stop. Tasks enqueued before the poison
// are processed first.
func (ref *Ref[T]) Poison() error {
	return ref.enqueue(poisonTask[T]{})
}

// Pending returns the number of tasks waiting in the mailbox
func (ref *Ref[T]) Pending() int64 {
	return ref.mailbox.len()
}

func (ref *Ref[T]) enqueue(task Task[T]) error {
	if !ref.alive.Load() {
		return gerrors.ErrChannelDropped
	}
	return ref.mailbox.enqueue(task)
}

// await waits for the reply of a task. When the process stops before
// answering the caller gets ErrChannelDropped.
func await[R any](ctx context.Context, done <-chan struct{}, replies <-chan reply[R]) (R, error) {
	var zero R
	select {
	case r := <-replies:
		return r.value, r.err
	case <-done:
		// the reply may have been sent right before the process stopped
		select {
		case r := <-replies:
			return r.value, r.err
		default:
			return zero, gerrors.ErrChannelDropped
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Handle sends a command to the process and waits for the resulting event.
// The event is applied to the entity before Handle returns.
//
// A rejected command is returned as a RejectedError wrapping the entity error.
// ErrChannelDropped means the process is gone.
func Handle[C, E any, T Entity[C, E]](ctx context.Context, ref *Ref[T], cmd C) (E, error) {
	task := &handleTask[C, E, T]{command: cmd, reply: newReply[E]()}
	if err := ref.enqueue(task); err != nil {
		var zero E
		return zero, err
	}
	return await(ctx, ref.done, task.reply)
}

// Employ sends a command to the process and waits until the resulting
// event is applied, without returning the event.
func Employ[C, E any, T Entity[C, E]](ctx context.Context, ref *Ref[T], cmd C) error {
	task := &employTask[C, E, T]{command: cmd, reply: newReply[struct{}]()}
	if err := ref.enqueue(task); err != nil {
		return err
	}
	_, err := await(ctx, ref.done, task.reply)
	return err
}

// Entrust sends a command without waiting. A rejection is logged by the process.
func Entrust[C, E any, T Entity[C, E]](ref *Ref[T], cmd C) error {
	return ref.enqueue(&entrustTask[C, E, T]{command: cmd})
}

// Apply applies an event to the process state and waits until it is applied
func Apply[E any, T Applicator[E]](ctx context.Context, ref *Ref[T], event E) error {
	task := &applyTask[E, T]{event: event, reply: newReply[struct{}]()}
	if err := ref.enqueue(task); err != nil {
		return err
	}
	_, err := await(ctx, ref.done, task.reply)
	return err
}

// Notify applies an event to the process state without waiting
func Notify[E any, T Applicator[E]](ref *Ref[T], event E) error {
	return ref.enqueue(&applyTask[E, T]{event: event})
}

// TryApply applies an event the entity may reject and waits for the outcome.
// A rejection is returned as a RejectedError and leaves the sequence untouched.
func TryApply[E any, T TryApplicator[E]](ctx context.Context, ref *Ref[T], event E) error {
	task := &tryApplyTask[E, T]{event: event, reply: newReply[struct{}]()}
	if err := ref.enqueue(task); err != nil {
		return err
	}
	_, err := await(ctx, ref.done, task.reply)
	return err
}

// Receive delivers a raw message without waiting.
// A failure of the receiver stops the process.
func Receive[M any, T Receiver[M]](ref *Ref[T], msg M) error {
	return ref.enqueue(&receiveTask[M, T]{message: msg})
}

// Submit enqueues an arbitrary task
func Submit[T any](ref *Ref[T], task Task[T]) error {
	return ref.enqueue(task)
}

// Ask runs fn on the process worker and waits for its result.
// It is the way to read entity state without racing the worker.
func Ask[R, T any](ctx context.Context, ref *Ref[T], fn func(entity T, pctx *Context) (R, error)) (R, error) {
	replies := newReply[R]()
	task := TaskFunc[T](func(entity T, pctx *Context) error {
		value, err := fn(entity, pctx)
		replies <- reply[R]{value: value, err: err}
		return nil
	})

	if err := ref.enqueue(task); err != nil {
		var zero R
		return zero, err
	}
	return await(ctx, ref.done, replies)
}
