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

package resolver

import (
	"context"
	"encoding"
	"encoding/json"
	"strings"

	"google.golang.org/protobuf/proto"
)

// HandlerKind names the capability an event is resolved into.
//
// A kind may be qualified with a slash, for instance "subscribe/audit".
// Its class is the part before the slash.
type HandlerKind string

const (
	// Projection resolves events while replaying persisted records
	Projection HandlerKind = "projection"
	// Subscription resolves events delivered by a live stream
	Subscription HandlerKind = "subscribe"
)

// Class returns the unqualified handler kind
func (k HandlerKind) Class() HandlerKind {
	if i := strings.IndexByte(string(k), '/'); i >= 0 {
		return k[:i]
	}
	return k
}

// Is reports whether k belongs to the class of other
func (k HandlerKind) Is(other HandlerKind) bool {
	return k.Class() == other.Class()
}

// ResolveKey identifies a resolver in a Mapping
type ResolveKey struct {
	// Event is the registry key of the event
	Event string
	// Handler is the capability the event is resolved into
	Handler HandlerKind
}

// NewResolveKey creates a ResolveKey
func NewResolveKey(event string, handler HandlerKind) ResolveKey {
	return ResolveKey{Event: event, Handler: handler}
}

// String returns the textual form of the key
func (k ResolveKey) String() string {
	return k.Event + "@" + string(k.Handler)
}

// Resolver decodes the bytes of one event kind and applies the event
// to an existing entity.
//
// Decoding failures are reported as ErrDeserialize and failures of
// the entity as InProcessError.
type Resolver[T any] interface {
	Resolve(ctx context.Context, entity T, data []byte) error
}

// Former is implemented by resolvers able to create the first entity
// instance out of an event. It reports ErrFirstFormationNotImplemented
// when the entity type defines no such constructor.
type Former[T any] interface {
	Form(ctx context.Context, data []byte) (T, error)
}

// Decoder turns the persisted bytes into an event
type Decoder[E any] func(data []byte) (E, error)

// JSONDecoder decodes JSON encoded events
func JSONDecoder[E any]() Decoder[E] {
	return func(data []byte) (E, error) {
		var event E
		err := json.Unmarshal(data, &event)
		return event, err
	}
}

// BinaryDecoder decodes events implementing encoding.BinaryUnmarshaler
// on their pointer type.
func BinaryDecoder[E any, P interface {
	*E
	encoding.BinaryUnmarshaler
}]() Decoder[E] {
	return func(data []byte) (E, error) {
		var event E
		err := P(&event).UnmarshalBinary(data)
		return event, err
	}
}

// ProtoDecoder decodes protocol buffers events.
// factory returns the empty message to decode into.
func ProtoDecoder[E proto.Message](factory func() E) Decoder[E] {
	return func(data []byte) (E, error) {
		event := factory()
		err := proto.Unmarshal(data, event)
		return event, err
	}
}
