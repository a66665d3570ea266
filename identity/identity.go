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

// Package identity defines the addressing key of every process.
package identity

import (
	"strings"

	gerrors "github.com/nitinol/nitinol/errors"
)

// Identity is an immutable, string-backed identifier.
// Two identities are equal iff their underlying text is equal,
// so Identity can be compared with == and used as a map key.
type Identity struct {
	value string
}

// New creates an Identity from the given text without validation
func New(value string) Identity {
	return Identity{value: value}
}

// Parse creates an Identity and rejects empty or blank text
func Parse(value string) (Identity, error) {
	if strings.TrimSpace(value) == "" {
		return Identity{}, gerrors.ErrInvalidIdentity
	}
	return Identity{value: value}, nil
}

// String returns the underlying text
func (x Identity) String() string {
	return x.value
}

// Equals reports whether both identities carry the same text
func (x Identity) Equals(other Identity) bool {
	return x.value == other.value
}

// IsZero reports whether the identity is empty
func (x Identity) IsZero() bool {
	return x.value == ""
}

// Compare orders identities by their underlying bytes
func (x Identity) Compare(other Identity) int {
	return strings.Compare(x.value, other.value)
}
