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

package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/atomic"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/identity"
	"github.com/nitinol/nitinol/log"
	"github.com/nitinol/nitinol/payload"
	"github.com/nitinol/nitinol/persistence"
)

const defaultKeyPrefix = "nitinol"

// Store keeps journals in Redis.
//
// Layout, with <p> the key prefix:
//   - <p>:journal:<identity> hash of sequence to encoded record
//   - <p>:sequences:<identity> sorted set of the sequences, scored by sequence
//   - <p>:kind:<registry key> sorted set of encoded records, scored by sequence
//
// The hash field is claimed with HSETNX which makes a sequence writable once.
type Store struct {
	client    goredis.UniversalClient
	keyPrefix string
	logger    log.Logger
	connected *atomic.Bool
}

var _ persistence.Store = (*Store)(nil)

// NewStore creates a Store on top of client. The Store owns the client
// and closes it on Disconnect.
func NewStore(client goredis.UniversalClient, opts ...Option) *Store {
	store := &Store{
		client:    client,
		keyPrefix: defaultKeyPrefix,
		logger:    log.DiscardLogger,
		connected: atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt.Apply(store)
	}
	return store
}

// Connect checks the server is reachable
func (s *Store) Connect(ctx context.Context) error {
	if s.connected.Load() {
		return nil
	}
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	s.connected.Store(true)
	s.logger.Debug("redis store connected")
	return nil
}

// Disconnect closes the client
func (s *Store) Disconnect(context.Context) error {
	if !s.connected.Swap(false) {
		return nil
	}
	s.logger.Debug("redis store disconnected")
	return s.client.Close()
}

// Write appends record to the journal of id
func (s *Store) Write(ctx context.Context, id identity.Identity, record payload.Payload) error {
	if err := s.ensureUsable(ctx); err != nil {
		return err
	}
	if !record.ID.Equals(id) {
		return gerrors.NewErrInvalidPayload(fmt.Errorf("record of %s written to %s", record.ID, id))
	}

	data, err := payload.Marshal(record)
	if err != nil {
		return err
	}

	field := strconv.FormatInt(record.SequenceID, 10)
	claimed, err := s.client.HSetNX(ctx, s.journalKey(id), field, data).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return gerrors.NewErrAlreadyExist(fmt.Sprintf("%s/%d", id, record.SequenceID))
	}

	score := float64(record.SequenceID)
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.ZAdd(ctx, s.sequencesKey(id), goredis.Z{Score: score, Member: field})
		pipe.ZAdd(ctx, s.kindKey(record.RegistryKey), goredis.Z{Score: score, Member: data})
		return nil
	})
	if err != nil {
		// release the claim so that the write can be retried
		s.client.HDel(context.WithoutCancel(ctx), s.journalKey(id), field)
		return err
	}
	return nil
}

// Read returns the record of id at seq
func (s *Store) Read(ctx context.Context, id identity.Identity, seq int64) (payload.Payload, error) {
	if err := s.ensureUsable(ctx); err != nil {
		return payload.Payload{}, err
	}

	data, err := s.client.HGet(ctx, s.journalKey(id), strconv.FormatInt(seq, 10)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return payload.Payload{}, gerrors.NewErrRecordNotFound(id.String(), seq)
	}
	if err != nil {
		return payload.Payload{}, err
	}
	return payload.Unmarshal(data)
}

// ReadRange returns the records of id with from <= sequence <= to
func (s *Store) ReadRange(ctx context.Context, id identity.Identity, from, to int64) ([]payload.Payload, error) {
	if err := s.ensureUsable(ctx); err != nil {
		return nil, err
	}

	upper := strconv.FormatInt(to, 10)
	if to == persistence.LatestSequence {
		upper = "+inf"
	}

	fields, err := s.client.ZRangeByScore(ctx, s.sequencesKey(id), &goredis.ZRangeBy{
		Min: strconv.FormatInt(from, 10),
		Max: upper,
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return []payload.Payload{}, nil
	}

	values, err := s.client.HMGet(ctx, s.journalKey(id), fields...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]payload.Payload, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		record, err := payload.Unmarshal([]byte(raw))
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	payload.Sort(records)
	return records, nil
}

// ReadToLatest returns the records of id from the given sequence onwards
func (s *Store) ReadToLatest(ctx context.Context, id identity.Identity, from int64) ([]payload.Payload, error) {
	return s.ReadRange(ctx, id, from, persistence.LatestSequence)
}

// ReadAllByEventKind returns the records of every identity with the given registry key
func (s *Store) ReadAllByEventKind(ctx context.Context, kind string) ([]payload.Payload, error) {
	if err := s.ensureUsable(ctx); err != nil {
		return nil, err
	}

	members, err := s.client.ZRange(ctx, s.kindKey(kind), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	records := make([]payload.Payload, 0, len(members))
	for _, member := range members {
		record, err := payload.Unmarshal([]byte(member))
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	payload.Sort(records)
	return records, nil
}

func (s *Store) ensureUsable(ctx context.Context) error {
	if !s.connected.Load() {
		return gerrors.ErrStoreClosed
	}
	return ctx.Err()
}

func (s *Store) journalKey(id identity.Identity) string {
	return s.keyPrefix + ":journal:" + id.String()
}

func (s *Store) sequencesKey(id identity.Identity) string {
	return s.keyPrefix + ":sequences:" + id.String()
}

func (s *Store) kindKey(kind string) string {
	return s.keyPrefix + ":kind:" + kind
}
