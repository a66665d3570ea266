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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain(t *testing.T) {
	t.Run("With no error", func(t *testing.T) {
		chain := New().Add(nil).Run(func() error { return nil })
		require.NoError(t, chain.Err())
	})
	t.Run("With all errors kept", func(t *testing.T) {
		e1 := errors.New("err1")
		e2 := errors.New("err2")

		err := New().
			Add(e1).
			Run(func() error { return nil }).
			Run(func() error { return e2 }).
			Err()

		require.EqualError(t, err, "err1; err2")
		assert.ErrorIs(t, err, e1)
		assert.ErrorIs(t, err, e2)
	})
	t.Run("With StopOnFirst", func(t *testing.T) {
		called := false
		e1 := errors.New("err1")

		err := New(StopOnFirst()).
			Run(func() error { return e1 }).
			Run(func() error { called = true; return errors.New("err2") }).
			Add(errors.New("err3")).
			Err()

		require.EqualError(t, err, "err1")
		assert.False(t, called)
	})
	t.Run("With RunContext", func(t *testing.T) {
		ctx := context.Background()
		called := false

		err := New().RunContext(ctx, func(context.Context) error {
			called = true
			return nil
		}).Err()

		require.NoError(t, err)
		assert.True(t, called)
	})
	t.Run("With RunContext on a cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		called := false

		err := New().RunContext(ctx, func(context.Context) error {
			called = true
			return nil
		}).Err()

		require.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})
}
