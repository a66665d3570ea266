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

package errorschain

import (
	"context"

	"go.uber.org/multierr"
)

// Chain accumulates the errors of a sequence of steps,
// typically the teardown steps of a component.
type Chain struct {
	stopOnFirst bool
	errs        []error
}

// Option configures a Chain at creation time.
type Option func(*Chain)

// StopOnFirst makes the chain skip the remaining steps once one failed
// and report only that failure.
func StopOnFirst() Option {
	return func(c *Chain) { c.stopOnFirst = true }
}

// New creates an empty Chain
func New(opts ...Option) *Chain {
	chain := &Chain{errs: make([]error, 0)}
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

func (c *Chain) failed() bool {
	return c.stopOnFirst && len(c.errs) > 0
}

// Add records err. Nil errors are ignored.
func (c *Chain) Add(errs ...error) *Chain {
	for _, err := range errs {
		if err == nil || c.failed() {
			continue
		}
		c.errs = append(c.errs, err)
	}
	return c
}

// Run executes fn and records its error.
// fn is not executed when the chain stops on first failure and already failed.
func (c *Chain) Run(fn func() error) *Chain {
	if c.failed() {
		return c
	}
	return c.Add(fn())
}

// RunContext executes fn with ctx and records its error.
// fn is skipped and the context error recorded when ctx is already done.
func (c *Chain) RunContext(ctx context.Context, fn func(context.Context) error) *Chain {
	if c.failed() {
		return c
	}
	if err := ctx.Err(); err != nil {
		return c.Add(err)
	}
	return c.Add(fn(ctx))
}

// Err returns the recorded errors combined, or nil when no step failed
func (c *Chain) Err() error {
	return multierr.Combine(c.errs...)
}
