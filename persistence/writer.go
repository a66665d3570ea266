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

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/flowchartsman/retry"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/identity"
	"github.com/nitinol/nitinol/log"
	"github.com/nitinol/nitinol/payload"
)

const (
	defaultMaxRetries   = 3
	defaultInitialDelay = 10 * time.Millisecond
	defaultMaxDelay     = 500 * time.Millisecond
)

// EventWriter writes records through a Writer with a bounded number of
// attempts. Once the attempts are exhausted the failure is logged and
// ErrRetryLimitExceeded is returned: the record is not written.
type EventWriter struct {
	writer       Writer
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
	policy       FailurePolicy
	logger       log.Logger
}

var _ Writer = (*EventWriter)(nil)

// NewEventWriter creates an EventWriter on top of writer
func NewEventWriter(writer Writer, opts ...Option) *EventWriter {
	eventWriter := &EventWriter{
		writer:       writer,
		maxRetries:   defaultMaxRetries,
		initialDelay: defaultInitialDelay,
		maxDelay:     defaultMaxDelay,
		policy:       LogAndDrop,
		logger:       log.DiscardLogger,
	}

	for _, opt := range opts {
		opt.Apply(eventWriter)
	}
	return eventWriter
}

// Write writes record, retrying failed attempts.
// A duplicate sequence or a cancelled context is not retried.
func (w *EventWriter) Write(ctx context.Context, id identity.Identity, record payload.Payload) error {
	// the retrier hands back its stop wrapper untouched on the final attempt,
	// so the outcome is classified from the last writer error
	var last error
	retrier := retry.NewRetrier(w.maxRetries, w.initialDelay, w.maxDelay)
	err := retrier.RunContext(ctx, func(ctx context.Context) error {
		last = w.writer.Write(ctx, id, record)
		if permanent(last) {
			return retry.Stop(last)
		}
		return last
	})

	switch {
	case err == nil:
		return nil
	case permanent(last):
		w.logger.Errorf("failed to write event %s of %s at sequence %d: %v", record.RegistryKey, id, record.SequenceID, last)
		return last
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		w.logger.Errorf("failed to write event %s of %s at sequence %d: %v", record.RegistryKey, id, record.SequenceID, err)
		return err
	default:
		if last == nil {
			last = err
		}
		w.logger.Errorf("retry limit exceeded, event %s of %s at sequence %d dropped: %v", record.RegistryKey, id, record.SequenceID, last)
		return gerrors.NewErrRetryLimitExceeded(last)
	}
}

func permanent(err error) bool {
	return errors.Is(err, gerrors.ErrAlreadyExist) || errors.Is(err, gerrors.ErrInvalidPayload)
}

// Policy returns the failure policy
func (w *EventWriter) Policy() FailurePolicy {
	return w.policy
}
