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

package process

import (
	"context"

	"go.uber.org/atomic"

	"github.com/nitinol/nitinol/extension"
	"github.com/nitinol/nitinol/identity"
	"github.com/nitinol/nitinol/log"
)

// Context is the execution environment of one process.
// It is owned by the worker and lives as long as the worker does.
//
// The sequence is only advanced by the runtime, exactly once for every
// applied event. The active flag goes from true to false once.
type Context struct {
	ctx      context.Context
	id       identity.Identity
	sequence int64
	active   *atomic.Bool
	system   *System
	logger   log.Logger
}

func newContext(ctx context.Context, id identity.Identity, sequence int64, active *atomic.Bool, system *System) *Context {
	return &Context{
		ctx:      ctx,
		id:       id,
		sequence: sequence,
		active:   active,
		system:   system,
		logger:   system.logger.With("id", id.String()),
	}
}

// Context returns the context.Context the process was spawned with.
// It carries values but is never cancelled by the caller of Spawn.
func (x *Context) Context() context.Context {
	return x.ctx
}

// ID returns the process identity
func (x *Context) ID() identity.Identity {
	return x.id
}

// Sequence returns the number of events applied so far, offset by the starting sequence.
// While an event is being applied it is the sequence of that event.
func (x *Context) Sequence() int64 {
	return x.sequence
}

// IsActive reports whether the process has not been poisoned
func (x *Context) IsActive() bool {
	return x.active.Load()
}

// Poison asks the worker to stop once the current envelope is processed
func (x *Context) Poison() {
	x.active.Store(false)
}

// Registry returns the registry of the owning System
func (x *Context) Registry() *Registry {
	return x.system.registry
}

// System returns the owning System
func (x *Context) System() *System {
	return x.system
}

// Extensions returns the installed extensions
func (x *Context) Extensions() *extension.Extensions {
	return x.system.extensions
}

// Extension returns the extension installed under id.
// A missing extension is reported as a MissingExtensionError.
func (x *Context) Extension(id string) (extension.Extension, error) {
	return x.system.extensions.Get(id)
}

// Logger returns the process logger
func (x *Context) Logger() log.Logger {
	return x.logger
}

func (x *Context) advance() {
	x.sequence++
}
