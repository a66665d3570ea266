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

// Publisher handles commands of type C. An accepted command produces
// an event of type E; a returned error is the business rejection.
type Publisher[C, E any] interface {
	Publish(ctx *Context, cmd C) (E, error)
}

// Applicator applies events of type E to the entity state
type Applicator[E any] interface {
	Apply(ctx *Context, event E)
}

// TryApplicator applies events of type E and may reject them
type TryApplicator[E any] interface {
	TryApply(ctx *Context, event E) error
}

// Receiver handles raw messages of type M that are neither commands nor events
type Receiver[M any] interface {
	Receive(ctx *Context, msg M) error
}

// Entity is implemented by a process that turns commands into events
// and applies them to its state.
type Entity[C, E any] interface {
	Publisher[C, E]
	Applicator[E]
}

// Starter is an optional hook invoked before the process receives any envelope.
// An error aborts the spawn.
type Starter interface {
	Started(ctx *Context) error
}

// Stopper is an optional hook invoked once the process is deregistered
type Stopper interface {
	Stopped(ctx *Context) error
}
