package storage

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const (
	EngineLevelDB = "leveldb"
	EngineMemory  = "memory"
)

var ErrUnknownEngine = errors.New("unknown storage engine")

// Options select and open an engine
type Options struct {
	Engine   string
	Path     string
	ReadOnly bool
}

// Store the single shared handle over the ordered keyspace.
//
// Every single operation is safe for concurrent use and needs no
// external locking. Nothing spanning two calls is atomic; a Batch is
// the only way to make several mutations land together.
type Store struct {
	engine Engine
	write  WriteHandler
	sugar  *zap.SugaredLogger

	closeOnce sync.Once
	closeErr  error
}

// Open opens the engine named in opts with the default write chain
func Open(opts Options, logger *zap.Logger) (*Store, error) {
	var (
		engine Engine
		err    error
	)
	switch opts.Engine {
	case EngineLevelDB, "":
		engine, err = OpenLevelEngine(opts.Path, opts.ReadOnly)
	case EngineMemory:
		engine = NewTreeEngine()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, opts.Engine)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s %q: %w", opts.Engine, opts.Path, err)
	}

	chain := NewWriteChain()
	if opts.ReadOnly {
		chain.Attach(NewReadOnlyUnit().WriteMiddleware)
	}
	chain.Attach(NewLogUnit(logger).WriteMiddleware)

	logger.Sugar().Infow("store opened", "engine", opts.Engine, "path", opts.Path, "readOnly", opts.ReadOnly)
	return NewStore(engine, logger, chain), nil
}

// NewStore wraps an engine, chain may be nil
func NewStore(engine Engine, logger *zap.Logger, chain *WriteChain) *Store {
	if chain == nil {
		chain = NewWriteChain()
	}
	return &Store{
		engine: engine,
		write:  chain.then(WriteHandlerFunc(engine.Write)),
		sugar:  logger.Sugar(),
	}
}

// Get point lookup, absence is not an error
func (s *Store) Get(key Key) ([]byte, bool, error) {
	value, found, err := s.engine.Get(key)
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, found, nil
}

// Has reports whether key is present
func (s *Store) Has(key Key) (bool, error) {
	found, err := s.engine.Has(key)
	if err != nil {
		return false, fmt.Errorf("has %s: %w", key, err)
	}
	return found, nil
}

// Put unconditional upsert, last writer wins
func (s *Store) Put(key Key, value []byte) error {
	return s.Write(NewBatch().Put(key, value))
}

// Delete unconditional, deleting an absent key succeeds
func (s *Store) Delete(key Key) error {
	return s.Write(NewBatch().Delete(key))
}

// Write applies the batch atomically through the write chain
func (s *Store) Write(b *Batch) error {
	if b == nil || b.Len() == 0 {
		return nil
	}
	if err := s.write.Write(b); err != nil {
		return fmt.Errorf("write %d ops: %w", b.Len(), err)
	}
	return nil
}

// Scan returns an iterator over every entry starting with prefix.
// The caller must Release it.
func (s *Store) Scan(prefix Key) Iterator {
	return s.engine.NewPrefixIterator(prefix)
}

// Map runs f on every entry under prefix in key order, stopping at the
// first error returned by f or by the engine
func (s *Store) Map(prefix Key, f func(key Key, value []byte) error) error {
	it := s.Scan(prefix)
	defer it.Release()

	for it.Next() {
		if err := f(it.Key(), it.Value()); err != nil {
			return err
		}
	}
	if err := it.Error(); err != nil {
		return fmt.Errorf("scan %s: %w", prefix, err)
	}
	return nil
}

// Close releases the engine, safe to call more than once
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.engine.Close()
		s.sugar.Infow("store closed", "err", s.closeErr)
	})
	return s.closeErr
}
