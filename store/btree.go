package store

import (
	"bytes"

	"github.com/google/btree"
)

// btreeDegree keeps nodes small, a cache wrap holds the writes of a single
// operation.
const btreeDegree = 2

// MemStore returns a store without persistence, useful for tests and for
// genesis dry runs.
func MemStore() CacheableKVStore {
	return EmptyKVStore{}.CacheWrap()
}

// BTreeCacheWrap is a unit of work on top of a store. Writes are kept in an
// ordered btree and forwarded to a batch. The backing store sees them only
// on Write, and Discard drops them.
type BTreeCacheWrap struct {
	pending *btree.BTree
	back    ReadOnlyKVStore
	batch   Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap caches writes on top of kv. kv is read only on
// purpose: all writes must go through the batch.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch) BTreeCacheWrap {
	return BTreeCacheWrap{
		pending: btree.New(btreeDegree),
		back:    kv,
		batch:   batch,
	}
}

// CacheWrap layers another cache on top of this one. Nested wraps are
// write-back into this cache, so a non-atomic batch is enough.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch())
}

// NewBatch returns a batch that writes into this cache.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all pending writes to the backing store and empties the
// cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all pending writes.
func (b BTreeCacheWrap) Discard() {
	for b.pending.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.pending.ReplaceOrInsert(entry{key: key, value: value})
	return b.batch.Set(key, value)
}

// Delete hides the key from readers of this cache until the deletion is
// written.
func (b BTreeCacheWrap) Delete(key []byte) error {
	b.pending.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if e, ok := b.lookup(key); ok {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return b.back.Get(key)
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if e, ok := b.lookup(key); ok {
		return !e.deleted, nil
	}
	return b.back.Has(key)
}

// lookup returns the pending write for key, if there is one.
func (b BTreeCacheWrap) lookup(key []byte) (entry, bool) {
	item := b.pending.Get(entry{key: key})
	if item == nil {
		return entry{}, false
	}
	return item.(entry), true
}

// Iterator returns pending writes merged with the backing store, in
// ascending key order. End is exclusive.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return mergeIterators(pendingRange(b.pending, start, end), parent, false)
}

// ReverseIterator is Iterator in descending key order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	entries := pendingRange(b.pending, start, end)
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return mergeIterators(entries, parent, true)
}

// entry is a pending write. A deleted entry shadows the backing store
// value.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
