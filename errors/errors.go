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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrChannelDropped is returned when the worker of the addressed process is gone.
	// The mailbox may have been closed or the worker may have been stopped.
	ErrChannelDropped = errors.New("channel may have been dropped or the process may have been stopped")

	// ErrAlreadyExist is returned when registering an identity that is already registered.
	ErrAlreadyExist = errors.New("already exists")

	// ErrNotFound is returned when deregistering an identity that is not registered.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCast is returned when a registered handle does not have the requested type.
	ErrInvalidCast = errors.New("invalid cast")

	// ErrExtensionMissing is returned when looking up an extension that was not installed.
	ErrExtensionMissing = errors.New("extension is missing")

	// ErrAlreadyInstalled is returned when installing the same extension twice.
	ErrAlreadyInstalled = errors.New("extension is already installed")

	// ErrInvalidExtensionID is returned when an extension identifier is malformed.
	ErrInvalidExtensionID = errors.New("invalid extension id, must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-' or '_')")

	// ErrInvalidIdentity is returned when an identity is empty or blank.
	ErrInvalidIdentity = errors.New("invalid identity")

	// ErrNotCompatible is returned when a persisted event kind has no resolver.
	ErrNotCompatible = errors.New("not compatible")

	// ErrFirstFormation is returned when the first record of a replay cannot form the entity.
	ErrFirstFormation = errors.New("first formation failed")

	// ErrFirstFormationNotImplemented is returned when the entity type cannot be formed from an event.
	ErrFirstFormationNotImplemented = errors.New("first formation is not implemented")

	// ErrApplyEvent is returned when a replayed record cannot be applied.
	ErrApplyEvent = errors.New("failed to apply event")

	// ErrDeserialize is returned when a resolver cannot decode the record bytes.
	ErrDeserialize = errors.New("failed to deserialize event")

	// ErrInProcess is returned when a resolver handler rejects the decoded event.
	ErrInProcess = errors.New("failed in process")

	// ErrFailedProjection is returned when no record could be applied during a replay.
	ErrFailedProjection = errors.New("failed projection")

	// ErrRetryLimitExceeded is returned when a persistence write keeps failing after all retries.
	ErrRetryLimitExceeded = errors.New("retry limit exceeded")

	// ErrStreamClosed is returned by a subscriber once its stream is closed and drained.
	ErrStreamClosed = errors.New("stream is closed")

	// ErrLagged is the sentinel behind LaggedError.
	ErrLagged = errors.New("subscriber lagged")

	// ErrRecordNotFound is returned when a store has no record for the requested key.
	ErrRecordNotFound = errors.New("record not found")

	// ErrStoreClosed is returned when using a store after Disconnect.
	ErrStoreClosed = errors.New("store is closed")

	// ErrInvalidPayload is returned when a payload cannot be decoded from its wire form.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrSchedulerNotStarted is returned when scheduling before the scheduler has started.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrPanic is the sentinel behind PanicError.
	ErrPanic = errors.New("panic")
)

// NewErrAlreadyExist formats ErrAlreadyExist for the given identity
func NewErrAlreadyExist(id string) error {
	return fmt.Errorf("(id=%s) %w", id, ErrAlreadyExist)
}

// NewErrNotFound formats ErrNotFound for the given identity
func NewErrNotFound(id string) error {
	return fmt.Errorf("(id=%s) %w", id, ErrNotFound)
}

// NewErrAlreadyInstalled formats ErrAlreadyInstalled for the given extension id
func NewErrAlreadyInstalled(id string) error {
	return fmt.Errorf("(extension=%s) %w", id, ErrAlreadyInstalled)
}

// NewErrFirstFormation wraps the cause of a failed first formation
func NewErrFirstFormation(err error) error {
	return errors.Join(ErrFirstFormation, err)
}

// NewErrApplyEvent wraps the cause of a failed apply during replay
func NewErrApplyEvent(err error) error {
	return errors.Join(ErrApplyEvent, err)
}

// NewErrDeserialize wraps a decoding failure
func NewErrDeserialize(err error) error {
	return errors.Join(ErrDeserialize, err)
}

// NewErrFailedProjection names the identity and the keys of a replay that applied nothing
func NewErrFailedProjection(id string, keys []string) error {
	return fmt.Errorf("(id=%s, keys=%v) %w", id, keys, ErrFailedProjection)
}

// NewErrRetryLimitExceeded wraps the last write failure
func NewErrRetryLimitExceeded(err error) error {
	return errors.Join(ErrRetryLimitExceeded, err)
}

// NewErrRecordNotFound formats ErrRecordNotFound for the given identity and sequence
func NewErrRecordNotFound(id string, seq int64) error {
	return fmt.Errorf("(id=%s, sequence=%d) %w", id, seq, ErrRecordNotFound)
}

// NewErrInvalidPayload wraps a payload decoding failure
func NewErrInvalidPayload(err error) error {
	return errors.Join(ErrInvalidPayload, err)
}

// InvalidCastError is returned when a type-erased value is not of the requested type
type InvalidCastError struct {
	To   string
	From string
}

var _ error = (*InvalidCastError)(nil)

// NewInvalidCastError creates an InvalidCastError
func NewInvalidCastError(to, from string) *InvalidCastError {
	return &InvalidCastError{To: to, From: from}
}

// Error implements the standard error interface
func (e *InvalidCastError) Error() string {
	return fmt.Sprintf("invalid cast to %s (found %s)", e.To, e.From)
}

func (e *InvalidCastError) Unwrap() error {
	return ErrInvalidCast
}

// MissingExtensionError is returned when an extension is looked up but not installed
type MissingExtensionError struct {
	ID string
}

var _ error = (*MissingExtensionError)(nil)

// NewMissingExtensionError creates a MissingExtensionError
func NewMissingExtensionError(id string) *MissingExtensionError {
	return &MissingExtensionError{ID: id}
}

// Error implements the standard error interface
func (e *MissingExtensionError) Error() string {
	return fmt.Sprintf("extension %s is missing", e.ID)
}

func (e *MissingExtensionError) Unwrap() error {
	return ErrExtensionMissing
}

// NotCompatibleError is returned when no resolver is registered for a persisted event kind
type NotCompatibleError struct {
	Key string
}

var _ error = (*NotCompatibleError)(nil)

// NewNotCompatibleError creates a NotCompatibleError
func NewNotCompatibleError(key string) *NotCompatibleError {
	return &NotCompatibleError{Key: key}
}

// Error implements the standard error interface
func (e *NotCompatibleError) Error() string {
	return fmt.Sprintf("not compatible: no resolver registered for %s", e.Key)
}

func (e *NotCompatibleError) Unwrap() error {
	return ErrNotCompatible
}

// InProcessError carries a readable trace of a handler failure inside a resolver
type InProcessError struct {
	Trace string
}

var _ error = (*InProcessError)(nil)

// NewInProcessError creates an InProcessError
func NewInProcessError(trace string) *InProcessError {
	return &InProcessError{Trace: trace}
}

// Error implements the standard error interface
func (e *InProcessError) Error() string {
	return fmt.Sprintf("failed in process: %s", e.Trace)
}

func (e *InProcessError) Unwrap() error {
	return ErrInProcess
}

// LaggedError is returned once to a subscriber that fell behind its buffer
type LaggedError struct {
	Skipped uint64
}

var _ error = (*LaggedError)(nil)

// NewLaggedError creates a LaggedError
func NewLaggedError(skipped uint64) *LaggedError {
	return &LaggedError{Skipped: skipped}
}

// Error implements the standard error interface
func (e *LaggedError) Error() string {
	return fmt.Sprintf("lagged(%d)", e.Skipped)
}

func (e *LaggedError) Unwrap() error {
	return ErrLagged
}

// RejectedError wraps the business rejection returned by an entity
type RejectedError struct {
	err error
}

var _ error = (*RejectedError)(nil)

// NewRejectedError wraps the given rejection
func NewRejectedError(err error) *RejectedError {
	return &RejectedError{err: err}
}

// Error implements the standard error interface
func (e *RejectedError) Error() string {
	return fmt.Sprintf("rejected: %v", e.err)
}

func (e *RejectedError) Unwrap() error {
	return e.err
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() []error {
	return []error{ErrPanic, e.err}
}

// FatalError marks a task failure that must end the worker
type FatalError struct {
	err error
}

var _ error = (*FatalError)(nil)

// NewFatalError creates an instance of FatalError
func NewFatalError(err error) *FatalError {
	return &FatalError{err}
}

// Error implements the standard error interface
func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %v", e.err)
}

func (e *FatalError) Unwrap() error {
	return e.err
}

// IsRejection reports whether err carries a business rejection
func IsRejection(err error) bool {
	var rejected *RejectedError
	return errors.As(err, &rejected)
}
