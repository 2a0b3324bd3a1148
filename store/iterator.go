package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/bazaar/errors"
)

// pendingRange collects the pending entries in [start, end) in ascending
// order. A nil bound is open.
func pendingRange(bt *btree.BTree, start, end []byte) []entry {
	var entries []entry
	collect := func(item btree.Item) bool {
		entries = append(entries, item.(entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(entry{key: end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(entry{key: start}, collect)
	default:
		bt.AscendRange(entry{key: start}, entry{key: end}, collect)
	}
	return entries
}

// mergeIterators combines the cached items with the parent iterator.
// Cached entries shadow the parent, deleted entries hide them.
//
// The result is materialized, so the parent is released before returning
// and writes during iteration cannot corrupt it.
func mergeIterators(entries []entry, parent Iterator, reverse bool) (Iterator, error) {
	defer parent.Release()

	// before reports whether a must be emitted before b.
	before := func(a, b []byte) bool {
		if reverse {
			return bytes.Compare(a, b) > 0
		}
		return bytes.Compare(a, b) < 0
	}

	var (
		out     []Model
		pk, pv  []byte
		pDone   bool
		advance = func() error {
			var err error
			pk, pv, err = parent.Next()
			if errors.ErrIteratorDone.Is(err) {
				pDone = true
				return nil
			}
			return err
		}
	)
	if err := advance(); err != nil {
		return nil, err
	}

	for _, e := range entries {
		key := e.key
		for !pDone && before(pk, key) {
			out = append(out, Model{Key: pk, Value: pv})
			if err := advance(); err != nil {
				return nil, err
			}
		}
		// Cached item shadows the parent entry with the same key.
		if !pDone && bytes.Equal(pk, key) {
			if err := advance(); err != nil {
				return nil, err
			}
		}
		if !e.deleted {
			out = append(out, Model{Key: e.key, Value: e.value})
		}
	}
	for !pDone {
		out = append(out, Model{Key: pk, Value: pv})
		if err := advance(); err != nil {
			return nil, err
		}
	}
	return NewSliceIterator(out), nil
}
