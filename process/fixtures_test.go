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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/atomic"

	"github.com/nitinol/nitinol/extension"
	"github.com/nitinol/nitinol/log"
)

var (
	errNegative       = errors.New("counter cannot go below zero")
	errUnknownCommand = errors.New("unknown command")
	errStartFailure   = errors.New("start failure")
)

type counterCommand interface{ isCounterCommand() }

type increase struct{ by int }
type decrease struct{ by int }
type crash struct{}

func (increase) isCounterCommand() {}
func (decrease) isCounterCommand() {}
func (crash) isCounterCommand()    {}

type counterEvent interface{ isCounterEvent() }

type increased struct{ by int }
type decreased struct{ by int }

func (increased) isCounterEvent() {}
func (decreased) isCounterEvent() {}

// counter is the entity used across the process tests
type counter struct {
	value         int
	failOnStart   bool
	poisonOnStart bool
	started       *atomic.Bool
	stopped       *atomic.Bool
	received      []string
}

func newCounter() *counter {
	return &counter{
		started: atomic.NewBool(false),
		stopped: atomic.NewBool(false),
	}
}

func (c *counter) Started(pctx *Context) error {
	if c.failOnStart {
		return errStartFailure
	}
	if c.poisonOnStart {
		pctx.Poison()
	}
	c.started.Store(true)
	return nil
}

func (c *counter) Stopped(*Context) error {
	c.stopped.Store(true)
	return nil
}

func (c *counter) Publish(_ *Context, cmd counterCommand) (counterEvent, error) {
	switch cmd := cmd.(type) {
	case increase:
		return increased(cmd), nil
	case decrease:
		if c.value-cmd.by < 0 {
			return nil, errNegative
		}
		return decreased(cmd), nil
	case crash:
		panic("command handler crashed")
	default:
		return nil, errUnknownCommand
	}
}

func (c *counter) Apply(_ *Context, event counterEvent) {
	switch event := event.(type) {
	case increased:
		c.value += event.by
	case decreased:
		c.value -= event.by
	}
}

func (c *counter) TryApply(ctx *Context, event counterEvent) error {
	if event, ok := event.(decreased); ok && c.value-event.by < 0 {
		return errNegative
	}
	c.Apply(ctx, event)
	return nil
}

func (c *counter) Receive(_ *Context, msg string) error {
	if msg == "fail" {
		return errors.New("receive failure")
	}
	c.received = append(c.received, msg)
	return nil
}

// testExtension is a minimal extension installed in some tests
type testExtension struct{ id string }

func (x testExtension) ID() string { return x.id }

func newTestSystem(t *testing.T, opts ...Option) *System {
	t.Helper()
	opts = append([]Option{
		WithLogger(log.DiscardLogger),
		WithMeterProvider(noop.NewMeterProvider()),
		WithExtensions(extension.Empty()),
	}, opts...)

	system, err := NewSystem(opts...)
	require.NoError(t, err)
	return system
}

func counterValue(t *testing.T, ref *Ref[*counter]) int {
	t.Helper()
	value, err := Ask(t.Context(), ref, func(c *counter, _ *Context) (int, error) {
		return c.value, nil
	})
	require.NoError(t, err)
	return value
}

func counterSequence(t *testing.T, ref *Ref[*counter]) int64 {
	t.Helper()
	seq, err := Ask(t.Context(), ref, func(_ *counter, pctx *Context) (int64, error) {
		return pctx.Sequence(), nil
	})
	require.NoError(t, err)
	return seq
}

func waitStopped[T any](t *testing.T, ref *Ref[T]) {
	t.Helper()
	select {
	case <-ref.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("process %s did not stop", ref.ID())
	}
}
