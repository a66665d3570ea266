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

package nats

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/atomic"

	"github.com/nitinol/nitinol/eventstream"
	"github.com/nitinol/nitinol/internal/errorschain"
	"github.com/nitinol/nitinol/internal/validation"
	"github.com/nitinol/nitinol/log"
	"github.com/nitinol/nitinol/payload"
)

// OriginHeader carries the id of the bridge that published a message
const OriginHeader = "Nitinol-Origin"

// subjectPattern accepts literal NATS subjects: dot separated tokens without wildcards
const subjectPattern = `^[^\s.*>]+(\.[^\s.*>]+)*$`

var (
	// ErrNotStarted is returned when publishing through a bridge that is not started
	ErrNotStarted = errors.New("nats bridge is not started")
	// ErrInvalidSubject is returned when the subject is not a literal NATS subject
	ErrInvalidSubject = errors.New("invalid nats subject")
)

// Bridge connects a local Stream to a NATS subject.
//
// Records published through the bridge reach the local stream and every
// other bridge listening on the subject. Records received from the subject
// are published on the local stream. A bridge ignores its own messages.
type Bridge struct {
	mu sync.Mutex

	url     string
	subject string
	stream  *eventstream.Stream
	origin  string

	connection   *nats.Conn
	subscription *nats.Subscription

	maxRetries    int
	reconnectWait time.Duration
	logger        log.Logger
	started       *atomic.Bool
}

var _ eventstream.Publisher = (*Bridge)(nil)

// NewBridge creates a Bridge between stream and the subject served at url
func NewBridge(url, subject string, stream *eventstream.Stream, opts ...Option) *Bridge {
	bridge := &Bridge{
		url:           url,
		subject:       subject,
		stream:        stream,
		origin:        uuid.NewString(),
		maxRetries:    5,
		reconnectWait: 2 * time.Second,
		logger:        log.DiscardLogger,
		started:       atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt.Apply(bridge)
	}
	return bridge
}

// Origin returns the id stamped on the messages published by the bridge
func (b *Bridge) Origin() string {
	return b.origin
}

// Start connects to the server and subscribes to the subject
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started.Load() {
		return nil
	}

	if err := validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("url", b.url)).
		AddValidator(validation.NewPatternValidator(subjectPattern, b.subject, ErrInvalidSubject)).
		Validate(); err != nil {
		return err
	}

	opts := nats.GetDefaultOptions()
	opts.Url = b.url
	opts.Name = b.origin
	opts.ReconnectWait = b.reconnectWait
	opts.MaxReconnect = -1

	var connection *nats.Conn
	retrier := retry.NewRetrier(b.maxRetries, min(100*time.Millisecond, b.reconnectWait), b.reconnectWait)
	err := retrier.RunContext(ctx, func(context.Context) error {
		var err error
		connection, err = opts.Connect()
		return err
	})
	if err != nil {
		return err
	}

	// the flush makes sure the server registered the subscription before anything is published
	var subscription *nats.Subscription
	err = errorschain.New(errorschain.StopOnFirst()).
		Run(func() (err error) {
			subscription, err = connection.Subscribe(b.subject, b.handle)
			return err
		}).
		RunContext(ctx, connection.FlushWithContext).
		Err()
	if err != nil {
		connection.Close()
		return err
	}

	b.connection = connection
	b.subscription = subscription
	b.started.Store(true)
	b.logger.Infof("nats bridge %s listening on %s", b.origin, b.subject)
	return nil
}

// Publish publishes record on the local stream and on the subject
func (b *Bridge) Publish(ctx context.Context, record payload.Payload) error {
	if !b.started.Load() {
		return ErrNotStarted
	}

	if err := b.stream.Publish(ctx, record); err != nil {
		return err
	}

	data, err := payload.Marshal(record)
	if err != nil {
		return err
	}

	msg := nats.NewMsg(b.subject)
	msg.Header.Set(OriginHeader, b.origin)
	msg.Data = data
	return b.connection.PublishMsg(msg)
}

// Stop unsubscribes and closes the connection
func (b *Bridge) Stop(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.started.Swap(false) {
		return nil
	}

	err := errorschain.New(errorschain.StopOnFirst()).
		Run(b.subscription.Unsubscribe).
		Run(b.connection.Flush).
		Err()
	b.connection.Close()
	b.logger.Infof("nats bridge %s stopped", b.origin)
	return err
}

func (b *Bridge) handle(msg *nats.Msg) {
	if msg.Header.Get(OriginHeader) == b.origin {
		return
	}

	record, err := payload.Unmarshal(msg.Data)
	if err != nil {
		b.logger.Warnf("nats bridge %s dropped an invalid message: %v", b.origin, err)
		return
	}

	if err := b.stream.Publish(context.Background(), record); err != nil {
		b.logger.Warnf("nats bridge %s failed to publish %s locally: %v", b.origin, record.RegistryKey, err)
	}
}
