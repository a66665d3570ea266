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

// Package payload defines the durable and wire unit of one persisted event.
package payload

import (
	"bytes"
	"cmp"
	"encoding"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nitinol/nitinol/identity"
)

// Event is implemented by every event that can be persisted or published.
// RegistryKey returns the stable event-kind token used by resolvers.
type Event interface {
	encoding.BinaryMarshaler
	RegistryKey() string
}

// Payload is one persisted event record
type Payload struct {
	// ID is the identity of the owning process
	ID identity.Identity
	// SequenceID is the per-identity sequence of the event
	SequenceID int64
	// RegistryKey is the event-kind token
	RegistryKey string
	// Bytes is the encoded event
	Bytes []byte
	// CreatedAt is the creation timestamp
	CreatedAt time.Time
}

// New encodes the event into a Payload stamped with the current time
func New(id identity.Identity, seq int64, event Event) (Payload, error) {
	data, err := event.MarshalBinary()
	if err != nil {
		return Payload{}, fmt.Errorf("failed to encode event %s: %w", event.RegistryKey(), err)
	}

	return Payload{
		ID:          id,
		SequenceID:  seq,
		RegistryKey: event.RegistryKey(),
		Bytes:       data,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Compare orders records by sequence, then creation time, then owning identity.
// Registry key and bytes break the remaining ties so that the order is total.
func Compare(a, b Payload) int {
	if c := cmp.Compare(a.SequenceID, b.SequenceID); c != 0 {
		return c
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	if c := a.ID.Compare(b.ID); c != 0 {
		return c
	}
	if c := strings.Compare(a.RegistryKey, b.RegistryKey); c != 0 {
		return c
	}
	return bytes.Compare(a.Bytes, b.Bytes)
}

// Less reports whether a sorts before b
func Less(a, b Payload) bool {
	return Compare(a, b) < 0
}

// Sort sorts records in place in their total order
func Sort(records []Payload) {
	sort.SliceStable(records, func(i, j int) bool {
		return Less(records[i], records[j])
	})
}

// Sorted returns a sorted copy of the given records
func Sorted(records []Payload) []Payload {
	out := make([]Payload, len(records))
	copy(out, records)
	Sort(out)
	return out
}

// Equal reports whether both records carry the same fields
func Equal(a, b Payload) bool {
	return a.ID == b.ID &&
		a.SequenceID == b.SequenceID &&
		a.RegistryKey == b.RegistryKey &&
		a.CreatedAt.Equal(b.CreatedAt) &&
		bytes.Equal(a.Bytes, b.Bytes)
}
