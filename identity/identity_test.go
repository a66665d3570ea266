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

package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/nitinol/nitinol/errors"
)

func TestIdentity(t *testing.T) {
	t.Run("With value equality", func(t *testing.T) {
		a := New("counter-1")
		b := New("counter" + "-1")
		assert.True(t, a.Equals(b))
		assert.True(t, a == b)
		assert.Equal(t, "counter-1", a.String())
		assert.False(t, a.IsZero())
		assert.Zero(t, a.Compare(b))

		c := New("counter-2")
		assert.False(t, a.Equals(c))
		assert.Equal(t, -1, a.Compare(c))
		assert.Equal(t, 1, c.Compare(a))
	})
	t.Run("With map key", func(t *testing.T) {
		m := map[Identity]int{New("a"): 1}
		m[New("a")]++
		assert.Len(t, m, 1)
		assert.Equal(t, 2, m[New("a")])
	})
	t.Run("With parse", func(t *testing.T) {
		id, err := Parse("account-9")
		require.NoError(t, err)
		assert.Equal(t, New("account-9"), id)

		_, err = Parse("  ")
		assert.ErrorIs(t, err, gerrors.ErrInvalidIdentity)

		_, err = Parse("")
		assert.ErrorIs(t, err, gerrors.ErrInvalidIdentity)
	})
	t.Run("With zero value", func(t *testing.T) {
		var id Identity
		assert.True(t, id.IsZero())
		assert.Empty(t, id.String())
	})
}
