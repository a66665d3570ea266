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
	gerrors "github.com/nitinol/nitinol/errors"
)

// Task is one unit of work delivered through a process mailbox.
// Tasks are applied by the process worker one at a time, so Apply may
// mutate the entity without any locking.
//
// A non-nil error is logged and the worker keeps running, unless the
// error is a FatalError (see Fatal) in which case the worker stops.
type Task[T any] interface {
	Apply(entity T, pctx *Context) error
}

// TaskFunc adapts a function to the Task interface
type TaskFunc[T any] func(entity T, pctx *Context) error

// Apply calls f(entity, pctx)
func (f TaskFunc[T]) Apply(entity T, pctx *Context) error {
	return f(entity, pctx)
}

// Fatal marks err as fatal to the worker applying the task
func Fatal(err error) error {
	return gerrors.NewFatalError(err)
}

type reply[R any] struct {
	value R
	err   error
}

func newReply[R any]() chan reply[R] {
	return make(chan reply[R], 1)
}

type handleTask[C, E any, T Entity[C, E]] struct {
	command C
	reply   chan reply[E]
}

func (t *handleTask[C, E, T]) Apply(entity T, pctx *Context) error {
	event, err := entity.Publish(pctx, t.command)
	if err != nil {
		t.reply <- reply[E]{err: gerrors.NewRejectedError(err)}
		return nil
	}

	entity.Apply(pctx, event)
	pctx.advance()
	t.reply <- reply[E]{value: event}
	return nil
}

type employTask[C, E any, T Entity[C, E]] struct {
	command C
	reply   chan reply[struct{}]
}

func (t *employTask[C, E, T]) Apply(entity T, pctx *Context) error {
	event, err := entity.Publish(pctx, t.command)
	if err != nil {
		t.reply <- reply[struct{}]{err: gerrors.NewRejectedError(err)}
		return nil
	}

	entity.Apply(pctx, event)
	pctx.advance()
	t.reply <- reply[struct{}]{}
	return nil
}

type entrustTask[C, E any, T Entity[C, E]] struct {
	command C
}

func (t *entrustTask[C, E, T]) Apply(entity T, pctx *Context) error {
	event, err := entity.Publish(pctx, t.command)
	if err != nil {
		pctx.Logger().Warnf("command %T rejected: %v", t.command, err)
		return nil
	}

	entity.Apply(pctx, event)
	pctx.advance()
	return nil
}

// applyTask serves both the blocking and the non-blocking event apply.
// The reply channel is nil for the latter.
type applyTask[E any, T Applicator[E]] struct {
	event E
	reply chan reply[struct{}]
}

func (t *applyTask[E, T]) Apply(entity T, pctx *Context) error {
	entity.Apply(pctx, t.event)
	pctx.advance()
	if t.reply != nil {
		t.reply <- reply[struct{}]{}
	}
	return nil
}

type tryApplyTask[E any, T TryApplicator[E]] struct {
	event E
	reply chan reply[struct{}]
}

func (t *tryApplyTask[E, T]) Apply(entity T, pctx *Context) error {
	if err := entity.TryApply(pctx, t.event); err != nil {
		t.reply <- reply[struct{}]{err: gerrors.NewRejectedError(err)}
		return nil
	}

	pctx.advance()
	t.reply <- reply[struct{}]{}
	return nil
}

type receiveTask[M any, T Receiver[M]] struct {
	message M
}

func (t *receiveTask[M, T]) Apply(entity T, pctx *Context) error {
	if err := entity.Receive(pctx, t.message); err != nil {
		return Fatal(err)
	}
	return nil
}

type poisonTask[T any] struct{}

func (poisonTask[T]) Apply(_ T, pctx *Context) error {
	pctx.Poison()
	return nil
}
