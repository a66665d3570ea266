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

package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/identity"
	"github.com/nitinol/nitinol/payload"
	"github.com/nitinol/nitinol/persistence"
)

// Record builds a payload with a deterministic creation time
func Record(id string, seq int64, kind string, data string) payload.Payload {
	return payload.Payload{
		ID:          identity.New(id),
		SequenceID:  seq,
		RegistryKey: kind,
		Bytes:       []byte(data),
		CreatedAt:   time.Date(2024, time.January, 1, 0, 0, int(seq), 0, time.UTC),
	}
}

// TestStore runs the behaviors every persistence.Store must honor.
// newStore must return a connected store with empty journals.
func TestStore(t *testing.T, newStore func(t *testing.T) persistence.Store) {
	t.Helper()

	write := func(t *testing.T, ctx context.Context, store persistence.Store, records ...payload.Payload) {
		t.Helper()
		for _, record := range records {
			require.NoError(t, store.Write(ctx, record.ID, record))
		}
	}

	t.Run("With Write and Read", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		record := Record("counter-1", 0, "increased", "one")
		write(t, ctx, store, record)

		actual, err := store.Read(ctx, record.ID, 0)
		require.NoError(t, err)
		assert.True(t, payload.Equal(record, actual), "got %+v", actual)

		_, err = store.Read(ctx, record.ID, 1)
		require.ErrorIs(t, err, gerrors.ErrRecordNotFound)
		_, err = store.Read(ctx, identity.New("unknown"), 0)
		require.ErrorIs(t, err, gerrors.ErrRecordNotFound)
	})
	t.Run("With a duplicate sequence", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		write(t, ctx, store, Record("counter-1", 0, "increased", "one"))

		err := store.Write(ctx, identity.New("counter-1"), Record("counter-1", 0, "increased", "again"))
		require.ErrorIs(t, err, gerrors.ErrAlreadyExist)

		actual, err := store.Read(ctx, identity.New("counter-1"), 0)
		require.NoError(t, err)
		assert.Equal(t, []byte("one"), actual.Bytes)
	})
	t.Run("With a record of another identity", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		err := store.Write(ctx, identity.New("counter-2"), Record("counter-1", 0, "increased", "one"))
		require.ErrorIs(t, err, gerrors.ErrInvalidPayload)
	})
	t.Run("With ReadRange and ReadToLatest", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		// written out of order on purpose
		for _, seq := range []int64{3, 0, 4, 1, 2} {
			write(t, ctx, store, Record("counter-1", seq, "increased", fmt.Sprintf("event-%d", seq)))
		}
		write(t, ctx, store, Record("counter-2", 0, "increased", "other"))

		records, err := store.ReadRange(ctx, identity.New("counter-1"), 1, 3)
		require.NoError(t, err)
		require.Len(t, records, 3)
		for i, record := range records {
			assert.EqualValues(t, i+1, record.SequenceID)
			assert.Equal(t, "counter-1", record.ID.String())
		}

		records, err = store.ReadToLatest(ctx, identity.New("counter-1"), 0)
		require.NoError(t, err)
		require.Len(t, records, 5)
		assert.EqualValues(t, 0, records[0].SequenceID)
		assert.EqualValues(t, 4, records[4].SequenceID)

		records, err = store.ReadToLatest(ctx, identity.New("counter-3"), 0)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
	t.Run("With ReadAllByEventKind", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		write(t, ctx, store,
			Record("counter-1", 0, "increased", "a"),
			Record("counter-1", 1, "decreased", "b"),
			Record("counter-2", 0, "increased", "c"),
			Record("counter-2", 1, "increased", "d"),
		)

		records, err := store.ReadAllByEventKind(ctx, "increased")
		require.NoError(t, err)
		require.Len(t, records, 3)
		for _, record := range records {
			assert.Equal(t, "increased", record.RegistryKey)
		}
		assert.True(t, payload.Less(records[0], records[1]) || payload.Equal(records[0], records[1]))
		assert.True(t, payload.Less(records[1], records[2]))

		records, err = store.ReadAllByEventKind(ctx, "unknown")
		require.NoError(t, err)
		assert.Empty(t, records)
	})
	t.Run("With a cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		store := newStore(t)

		err := store.Write(ctx, identity.New("counter-1"), Record("counter-1", 0, "increased", "one"))
		require.ErrorIs(t, err, context.Canceled)
	})
	t.Run("With a disconnected store", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)
		require.NoError(t, store.Disconnect(ctx))

		err := store.Write(ctx, identity.New("counter-1"), Record("counter-1", 0, "increased", "one"))
		require.ErrorIs(t, err, gerrors.ErrStoreClosed)
		_, err = store.ReadToLatest(ctx, identity.New("counter-1"), 0)
		require.ErrorIs(t, err, gerrors.ErrStoreClosed)

		// disconnecting twice is harmless
		require.NoError(t, store.Disconnect(ctx))
	})
}
