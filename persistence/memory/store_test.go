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

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/identity"
	"github.com/nitinol/nitinol/internal/testutil"
	"github.com/nitinol/nitinol/persistence"
)

func TestStore(t *testing.T) {
	testutil.TestStore(t, func(t *testing.T) persistence.Store {
		store := NewStore()
		require.NoError(t, store.Connect(context.Background()))
		return store
	})
}

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	err := store.Write(ctx, identity.New("counter-1"), testutil.Record("counter-1", 0, "increased", "one"))
	require.ErrorIs(t, err, gerrors.ErrStoreClosed)

	require.NoError(t, store.Connect(ctx))
	require.NoError(t, store.Write(ctx, identity.New("counter-1"), testutil.Record("counter-1", 0, "increased", "one")))
	assert.Equal(t, 1, store.Len())

	// the journal is owned by the store
	record, err := store.Read(ctx, identity.New("counter-1"), 0)
	require.NoError(t, err)
	record.Bytes[0] = 'x'

	record, err = store.Read(ctx, identity.New("counter-1"), 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), record.Bytes)

	require.NoError(t, store.Disconnect(ctx))
	require.NoError(t, store.Connect(ctx))
	assert.Zero(t, store.Len())
}
