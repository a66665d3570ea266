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
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/nitinol/nitinol/extension"
	"github.com/nitinol/nitinol/log"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(sys *System)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*System)

func (f OptionFunc) Apply(c *System) {
	f(c)
}

// WithLogger sets the system logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(sys *System) {
		sys.logger = logger
	})
}

// WithExtensions sets the extensions every process can reach through its Context.
// Build them once with an extension.Installer before creating the System.
func WithExtensions(extensions *extension.Extensions) Option {
	return OptionFunc(func(sys *System) {
		sys.extensions = extensions
	})
}

// WithMeterProvider sets the OpenTelemetry meter provider used for the runtime metrics
func WithMeterProvider(provider metric.MeterProvider) Option {
	return OptionFunc(func(sys *System) {
		sys.meterProvider = provider
	})
}

// WithShardCount sets the number of registry shards
func WithShardCount(count int) Option {
	return OptionFunc(func(sys *System) {
		sys.shardCount = count
	})
}

// WithSchedulerStopTimeout sets how long Stop waits for running scheduled jobs
func WithSchedulerStopTimeout(timeout time.Duration) Option {
	return OptionFunc(func(sys *System) {
		sys.schedulerStopTimeout = timeout
	})
}
