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
	"time"

	"github.com/nitinol/nitinol/log"
)

// FailurePolicy decides what happens to an entity whose event could not
// be persisted after every retry
type FailurePolicy int

const (
	// LogAndDrop logs the failure and lets the entity keep running.
	// The event is lost.
	LogAndDrop FailurePolicy = iota
	// Poison stops the entity once the current envelope is processed
	Poison
)

// String returns the policy name
func (p FailurePolicy) String() string {
	switch p {
	case LogAndDrop:
		return "log-and-drop"
	case Poison:
		return "poison"
	default:
		return "unknown"
	}
}

// Option is the interface that applies an EventWriter option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(writer *EventWriter)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(writer *EventWriter)

// Apply applies the EventWriter's option
func (f OptionFunc) Apply(writer *EventWriter) {
	f(writer)
}

// WithMaxRetries sets the number of write attempts. Values below one are ignored.
func WithMaxRetries(maxRetries int) Option {
	return OptionFunc(func(writer *EventWriter) {
		if maxRetries > 0 {
			writer.maxRetries = maxRetries
		}
	})
}

// WithRetryDelay sets the initial and the maximum delay between two attempts
func WithRetryDelay(initial, maximum time.Duration) Option {
	return OptionFunc(func(writer *EventWriter) {
		writer.initialDelay = initial
		writer.maxDelay = maximum
	})
}

// WithFailurePolicy sets the policy applied once the retries are exhausted
func WithFailurePolicy(policy FailurePolicy) Option {
	return OptionFunc(func(writer *EventWriter) {
		writer.policy = policy
	})
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(writer *EventWriter) {
		writer.logger = logger
	})
}
