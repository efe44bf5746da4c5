package storage

import "errors"

var (
	ErrClosed   = errors.New("store closed")
	ErrReadOnly = errors.New("store is read-only")
)

// Engine the primitive ordered key-value store under a Store.
//
// Point operations must be safe for concurrent use. Write applies a
// whole batch atomically.
type Engine interface {
	Get(key []byte) ([]byte, bool, error)
	Has(key []byte) (bool, error)
	Write(b *Batch) error
	NewPrefixIterator(prefix []byte) Iterator
	Close() error
}

// Iterator walks the entries under one prefix in byte order.
//
// It is not a snapshot: entries written during the walk may or may not
// be observed. Key and Value are copies owned by the caller.
type Iterator interface {
	Next() bool
	Key() Key
	Value() []byte
	Release()
	Error() error
}
