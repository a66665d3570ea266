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

package persistence

import (
	"context"
	"math"

	"github.com/nitinol/nitinol/identity"
	"github.com/nitinol/nitinol/payload"
)

// LatestSequence is the upper bound used to read up to the latest record
const LatestSequence int64 = math.MaxInt64

// Writer appends records to the journal of an identity.
// The journal is append-only: writing a sequence twice fails with ErrAlreadyExist.
type Writer interface {
	Write(ctx context.Context, id identity.Identity, record payload.Payload) error
}

// Reader reads journals back. Every read returns the records sorted
// with payload.Sort.
type Reader interface {
	// Read returns the record of id at seq or ErrRecordNotFound
	Read(ctx context.Context, id identity.Identity, seq int64) (payload.Payload, error)
	// ReadRange returns the records of id with from <= sequence <= to
	ReadRange(ctx context.Context, id identity.Identity, from, to int64) ([]payload.Payload, error)
	// ReadToLatest returns the records of id from the given sequence onwards
	ReadToLatest(ctx context.Context, id identity.Identity, from int64) ([]payload.Payload, error)
	// ReadAllByEventKind returns the records of every identity carrying the registry key kind
	ReadAllByEventKind(ctx context.Context, kind string) ([]payload.Payload, error)
}

// Store is a journal backend
type Store interface {
	Writer
	Reader
	// Connect opens the underlying resources
	Connect(ctx context.Context) error
	// Disconnect releases the underlying resources
	Disconnect(ctx context.Context) error
}
