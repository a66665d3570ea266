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

package nats

import (
	"time"

	"github.com/nitinol/nitinol/log"
)

// Option is the interface that applies a Bridge option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(bridge *Bridge)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(bridge *Bridge)

// Apply applies the Bridge's option
func (f OptionFunc) Apply(bridge *Bridge) {
	f(bridge)
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(bridge *Bridge) {
		bridge.logger = logger
	})
}

// WithMaxRetries sets the number of connection attempts made by Start
func WithMaxRetries(retries int) Option {
	return OptionFunc(func(bridge *Bridge) {
		if retries > 0 {
			bridge.maxRetries = retries
		}
	})
}

// WithReconnectWait sets the delay between two reconnection attempts
func WithReconnectWait(wait time.Duration) Option {
	return OptionFunc(func(bridge *Bridge) {
		if wait > 0 {
			bridge.reconnectWait = wait
		}
	})
}
