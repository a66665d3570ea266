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
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/identity"
)

// wire field numbers
const (
	idField          protowire.Number = 1
	sequenceIDField  protowire.Number = 2
	registryKeyField protowire.Number = 3
	bytesField       protowire.Number = 4
	createdAtField   protowire.Number = 5
)

// Marshal encodes the payload in protobuf wire format:
//
//	message Payload {
//	  string id = 1;
//	  int64 sequence_id = 2;
//	  string registry_key = 3;
//	  bytes bytes = 4;
//	  google.protobuf.Timestamp created_at = 5;
//	}
func Marshal(p Payload) ([]byte, error) {
	createdAt, err := proto.Marshal(timestamppb.New(p.CreatedAt))
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, len(p.Bytes)+len(p.RegistryKey)+len(p.ID.String())+len(createdAt)+24)
	buf = protowire.AppendTag(buf, idField, protowire.BytesType)
	buf = protowire.AppendString(buf, p.ID.String())
	buf = protowire.AppendTag(buf, sequenceIDField, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(p.SequenceID))
	buf = protowire.AppendTag(buf, registryKeyField, protowire.BytesType)
	buf = protowire.AppendString(buf, p.RegistryKey)
	buf = protowire.AppendTag(buf, bytesField, protowire.BytesType)
	buf = protowire.AppendBytes(buf, p.Bytes)
	buf = protowire.AppendTag(buf, createdAtField, protowire.BytesType)
	buf = protowire.AppendBytes(buf, createdAt)
	return buf, nil
}

// Unmarshal decodes a payload produced by Marshal.
// Unknown fields are skipped.
func Unmarshal(data []byte) (Payload, error) {
	var p Payload
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return Payload{}, gerrors.NewErrInvalidPayload(protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case idField, registryKeyField, bytesField, createdAtField:
			if typ != protowire.BytesType {
				return Payload{}, gerrors.NewErrInvalidPayload(fmt.Errorf("field %d has wire type %d", num, typ))
			}

			value, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return Payload{}, gerrors.NewErrInvalidPayload(protowire.ParseError(n))
			}
			data = data[n:]

			switch num {
			case idField:
				p.ID = identity.New(string(value))
			case registryKeyField:
				p.RegistryKey = string(value)
			case bytesField:
				p.Bytes = append([]byte(nil), value...)
			case createdAtField:
				ts := new(timestamppb.Timestamp)
				if err := proto.Unmarshal(value, ts); err != nil {
					return Payload{}, gerrors.NewErrInvalidPayload(err)
				}
				p.CreatedAt = ts.AsTime()
			}
		case sequenceIDField:
			if typ != protowire.VarintType {
				return Payload{}, gerrors.NewErrInvalidPayload(fmt.Errorf("field %d has wire type %d", num, typ))
			}

			value, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return Payload{}, gerrors.NewErrInvalidPayload(protowire.ParseError(n))
			}
			data = data[n:]
			p.SequenceID = int64(value)
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return Payload{}, gerrors.NewErrInvalidPayload(protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return p, nil
}

// MarshalBinary implements encoding.BinaryMarshaler
func (p Payload) MarshalBinary() ([]byte, error) {
	return Marshal(p)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler
func (p *Payload) UnmarshalBinary(data []byte) error {
	decoded, err := Unmarshal(data)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}
