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

package boltdb

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	bbolt "go.etcd.io/bbolt"
	"go.uber.org/atomic"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/identity"
	"github.com/nitinol/nitinol/log"
	"github.com/nitinol/nitinol/payload"
	"github.com/nitinol/nitinol/persistence"
)

const boltFileMode os.FileMode = 0o600

var (
	boltTimeout = 5 * time.Second

	journalsBucket = []byte("journals")
	kindsBucket    = []byte("kinds")

	// compressed values start with this marker, plain ones with a non zero protobuf tag
	compressedMarker = []byte{0x00, 'z'}
)

// Store is a durable journal kept in a single bbolt file.
//
// Layout:
//   - journals/<identity>/<sequence> holds the encoded record
//   - kinds/<registry key>/<identity>0x00<sequence> holds the same record
//
// Sequences are encoded big endian with the sign bit flipped so that the
// bucket cursor walks them in numeric order.
type Store struct {
	path        string
	compression bool
	logger      log.Logger

	mu      sync.Mutex
	db      *bbolt.DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	closed  *atomic.Bool
}

var _ persistence.Store = (*Store)(nil)

// NewStore creates a Store backed by the file at path. The file is
// created on Connect when missing.
func NewStore(path string, opts ...Option) *Store {
	store := &Store{
		path:   path,
		logger: log.DiscardLogger,
		closed: atomic.NewBool(true),
	}
	for _, opt := range opts {
		opt.Apply(store)
	}
	return store
}

// Connect opens the bbolt file and creates the buckets
func (s *Store) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed.Load() {
		return nil
	}

	db, err := bbolt.Open(s.path, boltFileMode, &bbolt.Options{Timeout: boltTimeout, NoGrowSync: true})
	if err != nil {
		return fmt.Errorf("boltdb: opening %s: %w", s.path, err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(journalsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(kindsBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return fmt.Errorf("boltdb: initializing buckets: %w", err)
	}

	if s.compression {
		if s.encoder, err = zstd.NewWriter(nil); err != nil {
			_ = db.Close()
			return err
		}
		if s.decoder, err = zstd.NewReader(nil); err != nil {
			s.encoder.Close()
			_ = db.Close()
			return err
		}
	}

	s.db = db
	s.closed.Store(false)
	s.logger.Debugf("boltdb store %s opened", s.path)
	return nil
}

// Disconnect closes the bbolt file. The journals remain on disk.
func (s *Store) Disconnect(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Swap(true) {
		return nil
	}

	if s.decoder != nil {
		s.decoder.Close()
	}
	var err error
	if s.encoder != nil {
		err = s.encoder.Close()
	}

	s.logger.Debugf("boltdb store %s closed", s.path)
	return errors.Join(err, s.db.Close())
}

// Write appends record to the journal of id
func (s *Store) Write(ctx context.Context, id identity.Identity, record payload.Payload) error {
	if err := s.ensureUsable(ctx); err != nil {
		return err
	}
	if !record.ID.Equals(id) {
		return gerrors.NewErrInvalidPayload(fmt.Errorf("record of %s written to %s", record.ID, id))
	}

	data, err := s.encode(record)
	if err != nil {
		return err
	}

	seqKey := sequenceKey(record.SequenceID)
	return s.db.Update(func(tx *bbolt.Tx) error {
		journal, err := tx.Bucket(journalsBucket).CreateBucketIfNotExists([]byte(id.String()))
		if err != nil {
			return err
		}
		if journal.Get(seqKey) != nil {
			return gerrors.NewErrAlreadyExist(fmt.Sprintf("%s/%d", id, record.SequenceID))
		}
		if err := journal.Put(seqKey, data); err != nil {
			return err
		}

		kind, err := tx.Bucket(kindsBucket).CreateBucketIfNotExists([]byte(record.RegistryKey))
		if err != nil {
			return err
		}
		return kind.Put(kindKey(id, record.SequenceID), data)
	})
}

// Read returns the record of id at seq
func (s *Store) Read(ctx context.Context, id identity.Identity, seq int64) (payload.Payload, error) {
	if err := s.ensureUsable(ctx); err != nil {
		return payload.Payload{}, err
	}

	var record payload.Payload
	err := s.db.View(func(tx *bbolt.Tx) error {
		journal := tx.Bucket(journalsBucket).Bucket([]byte(id.String()))
		if journal == nil {
			return gerrors.NewErrRecordNotFound(id.String(), seq)
		}

		raw := journal.Get(sequenceKey(seq))
		if raw == nil {
			return gerrors.NewErrRecordNotFound(id.String(), seq)
		}

		var err error
		record, err = s.decode(raw)
		return err
	})
	return record, err
}

// ReadRange returns the records of id with from <= sequence <= to
func (s *Store) ReadRange(ctx context.Context, id identity.Identity, from, to int64) ([]payload.Payload, error) {
	if err := s.ensureUsable(ctx); err != nil {
		return nil, err
	}

	records := make([]payload.Payload, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		journal := tx.Bucket(journalsBucket).Bucket([]byte(id.String()))
		if journal == nil {
			return nil
		}

		upper := sequenceKey(to)
		cursor := journal.Cursor()
		for k, v := cursor.Seek(sequenceKey(from)); k != nil && bytes.Compare(k, upper) <= 0; k, v = cursor.Next() {
			record, err := s.decode(v)
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
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

	records := make([]payload.Payload, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(kindsBucket).Bucket([]byte(kind))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(_, v []byte) error {
			record, err := s.decode(v)
			if err != nil {
				return err
			}
			records = append(records, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	payload.Sort(records)
	return records, nil
}

func (s *Store) ensureUsable(ctx context.Context) error {
	if s.closed.Load() {
		return gerrors.ErrStoreClosed
	}
	return ctx.Err()
}

func (s *Store) encode(record payload.Payload) ([]byte, error) {
	data, err := payload.Marshal(record)
	if err != nil {
		return nil, err
	}
	if !s.compression {
		return data, nil
	}

	out := append([]byte(nil), compressedMarker...)
	return s.encoder.EncodeAll(data, out), nil
}

// decode copies the value out of the bbolt page before returning
func (s *Store) decode(raw []byte) (payload.Payload, error) {
	data := raw
	if bytes.HasPrefix(raw, compressedMarker) {
		if s.decoder == nil {
			return payload.Payload{}, gerrors.NewErrInvalidPayload(errors.New("compressed record in an uncompressed store"))
		}

		var err error
		if data, err = s.decoder.DecodeAll(raw[len(compressedMarker):], nil); err != nil {
			return payload.Payload{}, gerrors.NewErrInvalidPayload(err)
		}
	} else {
		data = append([]byte(nil), raw...)
	}
	return payload.Unmarshal(data)
}

func sequenceKey(seq int64) []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(seq)^(1<<63))
}

func kindKey(id identity.Identity, seq int64) []byte {
	key := append([]byte(id.String()), 0x00)
	return append(key, sequenceKey(seq)...)
}
