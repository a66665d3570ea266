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


package log

import (
	"fmt"
	"io"
	golog "log"
	"os"
)

// DiscardLogger drops every entry. Fatal and Panic still terminate the
// caller so a silenced process cannot outlive an unrecoverable state.
var DiscardLogger Logger = nop{}

var (
	nopOutputs   = []io.Writer{io.Discard}
	nopStdLogger = golog.New(io.Discard, "", 0)
)

type nop struct{}

var _ Logger = nop{}

func (nop) Debug(...any)          {}
func (nop) Debugf(string, ...any) {}
func (nop) Info(...any)           {}
func (nop) Infof(string, ...any)  {}
func (nop) Warn(...any)           {}
func (nop) Warnf(string, ...any)  {}
func (nop) Error(...any)          {}
func (nop) Errorf(string, ...any) {}

func (nop) Fatal(...any)          { os.Exit(1) }
func (nop) Fatalf(string, ...any) { os.Exit(1) }

func (nop) Panic(v ...any)                 { panic(fmt.Sprint(v...)) }
func (nop) Panicf(format string, v ...any) { panic(fmt.Sprintf(format, v...)) }

// LogLevel reports InfoLevel so callers comparing levels treat it like the default logger.
func (nop) LogLevel() Level { return InfoLevel }

// Enabled only holds for the levels that still act.
func (nop) Enabled(level Level) bool { return level == FatalLevel || level == PanicLevel }

func (n nop) With(...any) Logger     { return n }
func (nop) LogOutput() []io.Writer   { return nopOutputs }
func (nop) StdLogger() *golog.Logger { return nopStdLogger }
func (nop) Flush() error             { return nil }
