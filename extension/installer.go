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

package extension

import (
	"fmt"
	"sort"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/internal/validation"
)

// Installer collects extensions at startup.
// It is not safe for concurrent use; build the set on one goroutine
// and hand the result of Build to the System.
type Installer struct {
	installed map[string]Extension
}

// NewInstaller creates an empty Installer
func NewInstaller() *Installer {
	return &Installer{installed: make(map[string]Extension)}
}

// Install adds the given extension. Installing two extensions with the
// same ID returns ErrAlreadyInstalled.
func (x *Installer) Install(ext Extension) error {
	if ext == nil {
		return fmt.Errorf("extension is nil: %w", gerrors.ErrInvalidExtensionID)
	}

	id := ext.ID()
	if err := validation.NewIDValidator(id).Validate(); err != nil {
		return err
	}

	if _, ok := x.installed[id]; ok {
		return gerrors.NewErrAlreadyInstalled(id)
	}

	x.installed[id] = ext
	return nil
}

// Build freezes the installed set into an Extensions container
// and resets the Installer.
func (x *Installer) Build() *Extensions {
	exts := &Extensions{items: x.installed}
	x.installed = make(map[string]Extension)
	return exts
}

// Extensions is the read-only set of installed extensions.
// It requires no locking since it never changes after Build.
type Extensions struct {
	items map[string]Extension
}

// Empty returns an Extensions container with nothing installed
func Empty() *Extensions {
	return &Extensions{items: make(map[string]Extension)}
}

// Get returns the extension installed under id or a MissingExtensionError
func (x *Extensions) Get(id string) (Extension, error) {
	if x == nil {
		return nil, gerrors.NewMissingExtensionError(id)
	}

	ext, ok := x.items[id]
	if !ok {
		return nil, gerrors.NewMissingExtensionError(id)
	}
	return ext, nil
}

// Has reports whether an extension is installed under id
func (x *Extensions) Has(id string) bool {
	if x == nil {
		return false
	}
	_, ok := x.items[id]
	return ok
}

// IDs returns the sorted identifiers of the installed extensions
func (x *Extensions) IDs() []string {
	if x == nil {
		return nil
	}

	ids := make([]string, 0, len(x.items))
	for id := range x.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of installed extensions
func (x *Extensions) Len() int {
	if x == nil {
		return 0
	}
	return len(x.items)
}

// Get returns the extension installed under id as T.
// A missing extension returns MissingExtensionError; an extension of
// another type returns InvalidCastError.
func Get[T Extension](exts *Extensions, id string) (T, error) {
	var zero T
	ext, err := exts.Get(id)
	if err != nil {
		return zero, err
	}

	typed, ok := ext.(T)
	if !ok {
		return zero, gerrors.NewInvalidCastError(fmt.Sprintf("%T", zero), fmt.Sprintf("%T", ext))
	}
	return typed, nil
}
