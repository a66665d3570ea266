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
	"errors"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/extension"
	"github.com/nitinol/nitinol/payload"
	"github.com/nitinol/nitinol/process"
)

// ExtensionID is the id the persistence extension is installed under
const ExtensionID = "persistence"

// Extension makes an EventWriter reachable from every process Context
type Extension struct {
	writer *EventWriter
}

var _ extension.Extension = (*Extension)(nil)

// NewExtension creates the persistence extension
func NewExtension(writer *EventWriter) *Extension {
	return &Extension{writer: writer}
}

// ID returns the extension id
func (x *Extension) ID() string {
	return ExtensionID
}

// Writer returns the EventWriter
func (x *Extension) Writer() *EventWriter {
	return x.writer
}

// Persist writes event to the journal of the calling process at its current sequence.
// Call it from the event applicator: the sequence is advanced once the apply returns.
//
// A missing extension is reported as a MissingExtensionError. When the
// writer gives up, the failure policy decides whether the process keeps running.
func Persist(pctx *process.Context, event payload.Event) error {
	ext, err := extension.Get[*Extension](pctx.Extensions(), ExtensionID)
	if err != nil {
		return err
	}

	record, err := payload.New(pctx.ID(), pctx.Sequence(), event)
	if err != nil {
		return gerrors.NewErrInvalidPayload(err)
	}

	err = ext.writer.Write(pctx.Context(), pctx.ID(), record)
	if errors.Is(err, gerrors.ErrRetryLimitExceeded) && ext.writer.Policy() == Poison {
		pctx.Logger().Warnf("Process %s poisoned after losing event %s", pctx.ID(), record.RegistryKey)
		pctx.Poison()
	}
	return err
}
