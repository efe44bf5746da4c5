package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"
)

// levelEngine LevelDB backed engine, every collection shares one keyspace
type levelEngine struct {
	db *leveldb.DB
}

// OpenLevelEngine opens (creating if missing) the database directory
func OpenLevelEngine(path string, readOnly bool) (Engine, error) {
	opt := &ldb_opt.Options{
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}
	db, err := leveldb.OpenFile(path, opt)
	if err != nil {
		return nil, err
	}
	return &levelEngine{db: db}, nil
}

// NewMemLevelEngine LevelDB over in-memory storage, nothing touches disk
func NewMemLevelEngine() (Engine, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &levelEngine{db: db}, nil
}

func (e *levelEngine) Get(key []byte) ([]byte, bool, error) {
	value, err := e.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, mapLevelErr(err)
	}
	return value, true, nil
}

func (e *levelEngine) Has(key []byte) (bool, error) {
	found, err := e.db.Has(key, nil)
	return found, mapLevelErr(err)
}

func (e *levelEngine) Write(b *Batch) error {
	batch := new(leveldb.Batch)
	for _, op := range b.Ops() {
		if op.Delete {
			batch.Delete(op.Key)
		} else {
			batch.Put(op.Key, op.Value)
		}
	}
	return mapLevelErr(e.db.Write(batch, nil))
}

func (e *levelEngine) NewPrefixIterator(prefix []byte) Iterator {
	return &levelIterator{iter: e.db.NewIterator(ldb_util.BytesPrefix(prefix), nil)}
}

func (e *levelEngine) Close() error {
	return e.db.Close()
}

func mapLevelErr(err error) error {
	if err == leveldb.ErrClosed {
		return ErrClosed
	}
	return err
}

// levelIterator copies out of the LevelDB iterator, whose slices are
// only valid until the next call to Next
type levelIterator struct {
	iter  iterator.Iterator
	key   Key
	value []byte
}

func (it *levelIterator) Next() bool {
	if !it.iter.Next() {
		it.key = nil
		it.value = nil
		return false
	}
	it.key = append(Key{}, it.iter.Key()...)
	it.value = append([]byte{}, it.iter.Value()...)
	return true
}

func (it *levelIterator) Key() Key {
	return it.key
}

func (it *levelIterator) Value() []byte {
	return it.value
}

func (it *levelIterator) Release() {
	it.iter.Release()
}

func (it *levelIterator) Error() error {
	return mapLevelErr(it.iter.Error())
}
