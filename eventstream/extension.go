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

package eventstream

import (
	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/extension"
	"github.com/nitinol/nitinol/payload"
	"github.com/nitinol/nitinol/process"
)

// ExtensionID is the id the stream extension is installed under
const ExtensionID = "eventstream"

// Extension makes a Publisher reachable from every process Context
type Extension struct {
	publisher Publisher
}

var _ extension.Extension = (*Extension)(nil)

// NewExtension creates the stream extension. publisher is usually a
// Stream, or a transport bridge publishing to a Stream.
func NewExtension(publisher Publisher) *Extension {
	return &Extension{publisher: publisher}
}

// ID returns the extension id
func (x *Extension) ID() string {
	return ExtensionID
}

// Publisher returns the installed publisher
func (x *Extension) Publisher() Publisher {
	return x.publisher
}

// Publish publishes event stamped with the identity and current sequence of the calling process
func Publish(pctx *process.Context, event payload.Event) error {
	ext, err := extension.Get[*Extension](pctx.Extensions(), ExtensionID)
	if err != nil {
		return err
	}

	record, err := payload.New(pctx.ID(), pctx.Sequence(), event)
	if err != nil {
		return gerrors.NewErrInvalidPayload(err)
	}
	return ext.publisher.Publish(pctx.Context(), record)
}
