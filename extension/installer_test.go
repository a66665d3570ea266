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

package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/nitinol/nitinol/errors"
)

type clock struct{ id string }

func (c *clock) ID() string { return c.id }

type tracer struct{}

func (tracer) ID() string { return "tracer" }

func TestInstaller(t *testing.T) {
	t.Run("With install and get", func(t *testing.T) {
		installer := NewInstaller()
		require.NoError(t, installer.Install(&clock{id: "clock"}))
		require.NoError(t, installer.Install(tracer{}))

		exts := installer.Build()
		require.Equal(t, 2, exts.Len())
		assert.Equal(t, []string{"clock", "tracer"}, exts.IDs())
		assert.True(t, exts.Has("clock"))

		ext, err := exts.Get("clock")
		require.NoError(t, err)
		assert.Equal(t, "clock", ext.ID())

		typed, err := Get[*clock](exts, "clock")
		require.NoError(t, err)
		assert.Equal(t, "clock", typed.id)
	})
	t.Run("With duplicate install", func(t *testing.T) {
		installer := NewInstaller()
		require.NoError(t, installer.Install(&clock{id: "clock"}))
		err := installer.Install(&clock{id: "clock"})
		require.ErrorIs(t, err, gerrors.ErrAlreadyInstalled)
	})
	t.Run("With invalid id", func(t *testing.T) {
		installer := NewInstaller()
		err := installer.Install(&clock{id: "$clock"})
		require.ErrorIs(t, err, gerrors.ErrInvalidExtensionID)
		require.Error(t, installer.Install(nil))
	})
	t.Run("With missing extension", func(t *testing.T) {
		exts := NewInstaller().Build()
		_, err := exts.Get("clock")
		require.ErrorIs(t, err, gerrors.ErrExtensionMissing)

		var missing *gerrors.MissingExtensionError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "clock", missing.ID)

		_, err = Get[*clock](exts, "clock")
		require.ErrorIs(t, err, gerrors.ErrExtensionMissing)
	})
	t.Run("With wrong type", func(t *testing.T) {
		installer := NewInstaller()
		require.NoError(t, installer.Install(tracer{}))
		exts := installer.Build()

		_, err := Get[*clock](exts, "tracer")
		require.ErrorIs(t, err, gerrors.ErrInvalidCast)
	})
	t.Run("With nil and empty containers", func(t *testing.T) {
		var exts *Extensions
		assert.Zero(t, exts.Len())
		assert.False(t, exts.Has("clock"))
		assert.Nil(t, exts.IDs())
		_, err := exts.Get("clock")
		require.ErrorIs(t, err, gerrors.ErrExtensionMissing)

		assert.Zero(t, Empty().Len())
	})
	t.Run("With build freezing the set", func(t *testing.T) {
		installer := NewInstaller()
		require.NoError(t, installer.Install(tracer{}))
		exts := installer.Build()
		require.NoError(t, installer.Install(&clock{id: "clock"}))
		assert.False(t, exts.Has("clock"))
	})
}
