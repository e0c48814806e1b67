package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// BadgerConfig holds configuration for the BadgerDB backend.
type BadgerConfig struct {
	// Path is the directory for BadgerDB files.
	// Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives BadgerDB's internal logging.
	// If nil, BadgerDB's internal logging is disabled.
	Logger *slog.Logger
}

// DefaultBadgerConfig returns a durable on-disk configuration.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{SyncWrites: true}
}

// InMemoryBadgerConfig returns configuration for tests.
func InMemoryBadgerConfig() BadgerConfig {
	return BadgerConfig{InMemory: true}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// BadgerStore keeps table lines in an embedded BadgerDB.
//
// Key layout:
//
//	t/<space>/<table>            next sequence number (uint64, big endian)
//	l/<space>/<table>/<seq:020>  one stored line
//
// Zero-padded sequence numbers make prefix iteration return lines in
// append order.
type BadgerStore struct {
	SpaceScope

	db   *badger.DB
	opts options
}

var _ Store = (*BadgerStore)(nil)

// OpenBadger opens a BadgerDB at cfg.Path, or in memory if cfg.InMemory.
func OpenBadger(cfg BadgerConfig, space string, opts ...Option) (*BadgerStore, error) {
	if err := validateName("space", space); err != nil {
		return nil, err
	}
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var bopts badger.Options
	if cfg.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		bopts = badger.DefaultOptions(cfg.Path)
	}
	bopts = bopts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		bopts = bopts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		bopts = bopts.WithLogger(nil)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	return &BadgerStore{
		SpaceScope: NewSpaceScope(space),
		db:         db,
		opts:       applyOptions(opts),
	}, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func counterKey(space, table string) []byte {
	return []byte("t/" + space + "/" + table)
}

func linePrefix(space, table string) []byte {
	return []byte("l/" + space + "/" + table + "/")
}

func lineKey(space, table string, seq uint64) []byte {
	return []byte(fmt.Sprintf("l/%s/%s/%020d", space, table, seq))
}

// nextSeq returns the table's next sequence number and whether the table
// exists.
func nextSeq(txn *badger.Txn, space, table string) (uint64, bool, error) {
	item, err := txn.Get(counterKey(space, table))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	var seq uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupt counter for %s/%s", space, table)
		}
		seq = binary.BigEndian.Uint64(val)
		return nil
	})
	return seq, true, err
}

func setSeq(txn *badger.Txn, space, table string, seq uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], seq)
	return txn.Set(counterKey(space, table), buf[:])
}

func (s *BadgerStore) Append(ctx context.Context, table, line string) error {
	space := s.EffectiveSpace()
	if err := s.check(table); err != nil {
		return storageErr("append", space, table, err)
	}
	if err := validateLine(line); err != nil {
		return storageErr("append", space, table, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		seq, _, err := nextSeq(txn, space, table)
		if err != nil {
			return err
		}
		if err := txn.Set(lineKey(space, table, seq), []byte(line)); err != nil {
			return err
		}
		return setSeq(txn, space, table, seq+1)
	})
	return storageErr("append", space, table, err)
}

func (s *BadgerStore) ReadAll(ctx context.Context, table string) (string, error) {
	space := s.EffectiveSpace()
	if err := s.check(table); err != nil {
		return "", storageErr("read", space, table, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var b strings.Builder
	err := s.db.Update(func(txn *badger.Txn) error {
		_, exists, err := nextSeq(txn, space, table)
		if err != nil {
			return err
		}
		if !exists {
			return setSeq(txn, space, table, 0)
		}

		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := linePrefix(space, table)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				b.Write(val)
				b.WriteByte('\n')
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", storageErr("read", space, table, err)
	}
	return b.String(), nil
}

func (s *BadgerStore) Select(ctx context.Context, table, whereID string) (string, error) {
	content, err := s.ReadAll(ctx, table)
	if err != nil {
		return "", err
	}
	return filterLines(content, whereID, s.opts.match), nil
}

func (s *BadgerStore) Clear(ctx context.Context, table string) error {
	space := s.EffectiveSpace()
	if err := s.check(table); err != nil {
		return storageErr("clear", space, table, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var exists bool
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		_, exists, err = nextSeq(txn, space, table)
		return err
	})
	if err != nil {
		return storageErr("clear", space, table, err)
	}
	if !exists {
		s.opts.logger.Warn("clear on missing table",
			slog.String("space", space),
			slog.String("table", table))
		return nil
	}
	return storageErr("clear", space, table, s.db.DropPrefix(linePrefix(space, table)))
}

func (s *BadgerStore) check(table string) error {
	if err := validateName("space", s.EffectiveSpace()); err != nil {
		return err
	}
	return validateName("table", table)
}
