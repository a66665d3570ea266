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
	"errors"
	"fmt"
	"time"

	"github.com/Workiva/go-datastructures/queue"

	gerrors "github.com/nitinol/nitinol/errors"
)

// errIdle is returned by dequeue when no task arrived within the idle timeout
var errIdle = errors.New("mailbox idle")

// mailbox is an unbounded, blocking MPSC FIFO of tasks.
//
// Producers never block. The single consumer blocks until a task is
// available, the mailbox is disposed or the idle timeout elapses.
type mailbox[T any] struct {
	underlying  *queue.Queue
	idleTimeout time.Duration
}

func newMailbox[T any](idleTimeout time.Duration) *mailbox[T] {
	return &mailbox[T]{
		underlying:  queue.New(16),
		idleTimeout: idleTimeout,
	}
}

// enqueue appends task to the mailbox.
// It returns ErrChannelDropped once the mailbox has been disposed.
func (m *mailbox[T]) enqueue(task Task[T]) error {
	if err := m.underlying.Put(task); err != nil {
		return gerrors.ErrChannelDropped
	}
	return nil
}

// dequeue returns the next task, waiting for one when the mailbox is empty
func (m *mailbox[T]) dequeue() (Task[T], error) {
	var (
		items []any
		err   error
	)

	if m.idleTimeout > 0 {
		items, err = m.underlying.Poll(1, m.idleTimeout)
	} else {
		items, err = m.underlying.Get(1)
	}

	switch {
	case errors.Is(err, queue.ErrTimeout):
		return nil, errIdle
	case err != nil:
		return nil, gerrors.ErrChannelDropped
	case len(items) == 0:
		return nil, gerrors.ErrChannelDropped
	}

	task, ok := items[0].(Task[T])
	if !ok {
		return nil, gerrors.NewInvalidCastError("Task", fmt.Sprintf("%T", items[0]))
	}
	return task, nil
}

func (m *mailbox[T]) len() int64 {
	return m.underlying.Len()
}

// dispose closes the mailbox and returns the number of tasks left unprocessed
func (m *mailbox[T]) dispose() int {
	return len(m.underlying.Dispose())
}
