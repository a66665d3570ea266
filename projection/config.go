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

package projection

import (
	"time"

	"github.com/nitinol/nitinol/log"
)

// Config holds the settings of a Projector
type Config struct {
	// Retries is the number of attempts of a journal read
	Retries int
	// RetryDelay is the longest delay between two read attempts
	RetryDelay time.Duration
	// Logger specifies the logger
	Logger log.Logger
}

// NewConfig creates a Config with the given options applied on the defaults
func NewConfig(options ...Option) *Config {
	config := &Config{
		Retries:    5,
		RetryDelay: time.Second,
		Logger:     log.DiscardLogger,
	}
	for _, opt := range options {
		opt.Apply(config)
	}
	return config
}
