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

package payload

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/identity"
)

type increased struct{ by int }

func (increased) RegistryKey() string { return "increased" }

func (e increased) MarshalBinary() ([]byte, error) {
	return []byte{byte(e.by)}, nil
}

type broken struct{}

func (broken) RegistryKey() string { return "broken" }

func (broken) MarshalBinary() ([]byte, error) {
	return nil, errors.New("cannot encode")
}

func TestNew(t *testing.T) {
	t.Run("With encodable event", func(t *testing.T) {
		id := identity.New("counter-1")
		p, err := New(id, 3, increased{by: 2})
		require.NoError(t, err)
		assert.Equal(t, id, p.ID)
		assert.EqualValues(t, 3, p.SequenceID)
		assert.Equal(t, "increased", p.RegistryKey)
		assert.Equal(t, []byte{2}, p.Bytes)
		assert.False(t, p.CreatedAt.IsZero())
	})
	t.Run("With encoding failure", func(t *testing.T) {
		_, err := New(identity.New("counter-1"), 0, broken{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broken")
	})
}

func TestOrdering(t *testing.T) {
	now := time.Now()
	t.Run("With sequence first", func(t *testing.T) {
		a := Payload{SequenceID: 1, CreatedAt: now.Add(time.Hour)}
		b := Payload{SequenceID: 2, CreatedAt: now}
		assert.True(t, Less(a, b))
		assert.False(t, Less(b, a))
	})
	t.Run("With timestamp tie-break", func(t *testing.T) {
		a := Payload{SequenceID: 1, CreatedAt: now}
		b := Payload{SequenceID: 1, CreatedAt: now.Add(time.Millisecond)}
		assert.Equal(t, -1, Compare(a, b))
	})
	t.Run("With identity tie-break", func(t *testing.T) {
		a := Payload{ID: identity.New("a"), SequenceID: 1, CreatedAt: now}
		b := Payload{ID: identity.New("b"), SequenceID: 1, CreatedAt: now}
		assert.True(t, Less(a, b))
	})
	t.Run("With full tie-break", func(t *testing.T) {
		a := Payload{ID: identity.New("a"), SequenceID: 1, CreatedAt: now, RegistryKey: "k", Bytes: []byte{1}}
		b := Payload{ID: identity.New("a"), SequenceID: 1, CreatedAt: now, RegistryKey: "k", Bytes: []byte{2}}
		c := Payload{ID: identity.New("a"), SequenceID: 1, CreatedAt: now, RegistryKey: "j", Bytes: []byte{9}}
		assert.True(t, Less(a, b))
		assert.True(t, Less(c, a))
		assert.Zero(t, Compare(a, a))
	})
	t.Run("With any input permutation", func(t *testing.T) {
		records := make([]Payload, 0, 20)
		for i := range 20 {
			records = append(records, Payload{
				ID:          identity.New("counter-1"),
				SequenceID:  int64(i % 7),
				RegistryKey: "increased",
				Bytes:       []byte{byte(i)},
				CreatedAt:   now.Add(time.Duration(i%3) * time.Second),
			})
		}

		expected := Sorted(records)
		for range 10 {
			shuffled := make([]Payload, len(records))
			copy(shuffled, records)
			rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
			Sort(shuffled)
			require.Equal(t, len(expected), len(shuffled))
			for i := range expected {
				require.True(t, Equal(expected[i], shuffled[i]))
			}
		}

		for i := 1; i < len(expected); i++ {
			assert.LessOrEqual(t, expected[i-1].SequenceID, expected[i].SequenceID)
		}
	})
}

func TestCodec(t *testing.T) {
	t.Run("With round trip", func(t *testing.T) {
		expected := Payload{
			ID:          identity.New("counter-1"),
			SequenceID:  42,
			RegistryKey: "increased",
			Bytes:       []byte("hello"),
			CreatedAt:   time.Date(2024, 5, 1, 10, 0, 0, 123, time.UTC),
		}

		data, err := expected.MarshalBinary()
		require.NoError(t, err)

		var actual Payload
		require.NoError(t, actual.UnmarshalBinary(data))
		assert.True(t, Equal(expected, actual))
	})
	t.Run("With unknown field skipped", func(t *testing.T) {
		data, err := Marshal(Payload{ID: identity.New("x"), SequenceID: 1})
		require.NoError(t, err)
		data = protowire.AppendTag(data, 99, protowire.VarintType)
		data = protowire.AppendVarint(data, 7)

		actual, err := Unmarshal(data)
		require.NoError(t, err)
		assert.Equal(t, "x", actual.ID.String())
	})
	t.Run("With corrupted data", func(t *testing.T) {
		_, err := Unmarshal([]byte{0x0a, 0xff})
		require.ErrorIs(t, err, gerrors.ErrInvalidPayload)

		wrongType := protowire.AppendTag(nil, 2, protowire.BytesType)
		wrongType = protowire.AppendBytes(wrongType, []byte("x"))
		_, err = Unmarshal(wrongType)
		require.ErrorIs(t, err, gerrors.ErrInvalidPayload)

		var p Payload
		require.Error(t, p.UnmarshalBinary([]byte{0x0a, 0xff}))
	})
}
