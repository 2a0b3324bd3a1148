package orm

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// ConsumeIterator will read all remaining data into an
// array and release the iterator
func ConsumeIterator(itr bazaar.Iterator) ([]bazaar.Model, error) {
	defer itr.Release()

	var res []bazaar.Model
	for {
		key, value, err := itr.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, bazaar.Pair(key, value))
	}
}

// queryPrefix returns all entries whose key starts with prefix.
func queryPrefix(db bazaar.ReadOnlyKVStore, prefix []byte) ([]bazaar.Model, error) {
	itr, err := db.Iterator(prefix, prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}

// prefixRange returns the exclusive end of the range covering all keys with
// the given prefix. nil means no upper bound.
func prefixRange(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
