package orm

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

const indexPrefix = "_i."

// Indexer calculates the secondary index value for a given model. A nil
// value means the model is not indexed.
type Indexer func(Model) ([]byte, error)

// index stores one db entry per indexed entity, so that a prefix scan
// returns all primary keys stored under a value:
//
//   _i.<name>: | len(value) BE2 | value | primary key  ->  primary key
type index struct {
	name    string
	id      []byte
	unique  bool
	indexer Indexer
}

func newIndex(name string, indexer Indexer, unique bool) *index {
	return &index{
		name:    name,
		id:      []byte(indexPrefix + name + ":"),
		unique:  unique,
		indexer: indexer,
	}
}

func (i *index) valuePrefix(value []byte) []byte {
	out := make([]byte, len(i.id)+2+len(value))
	copy(out, i.id)
	binary.BigEndian.PutUint16(out[len(i.id):], uint16(len(value)))
	copy(out[len(i.id)+2:], value)
	return out
}

func (i *index) entryKey(value, pk []byte) []byte {
	return append(i.valuePrefix(value), pk...)
}

// update moves the reference to key from the value of prev to the value of
// next. A nil prev is an insert, a nil next a delete.
func (i *index) update(db bazaar.KVStore, key []byte, prev, next Model) error {
	if prev == nil && next == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil model")
	}
	var before, after []byte
	var err error
	if prev != nil {
		if before, err = i.indexer(prev); err != nil {
			return errors.Wrapf(err, "index %s", i.name)
		}
	}
	if next != nil {
		if after, err = i.indexer(next); err != nil {
			return errors.Wrapf(err, "index %s", i.name)
		}
	}
	if prev != nil && next != nil && bytes.Equal(before, after) {
		return nil
	}
	if len(after) > math.MaxUint16 {
		return errors.Wrapf(errors.ErrInvalidInput, "index %s value too long", i.name)
	}

	if before != nil {
		if err := db.Delete(i.entryKey(before, key)); err != nil {
			return err
		}
	}
	if after != nil {
		if i.unique {
			taken, err := i.keys(db, after)
			if err != nil {
				return err
			}
			if len(taken) > 0 {
				return errors.Wrapf(ErrUniqueConstraint, "index %s", i.name)
			}
		}
		if err := db.Set(i.entryKey(after, key), key); err != nil {
			return err
		}
	}
	return nil
}

// keys returns all primary keys stored under value, ordered by key.
func (i *index) keys(db bazaar.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	prefix := i.valuePrefix(value)
	models, err := queryPrefix(db, prefix)
	if err != nil {
		return nil, err
	}
	res := make([][]byte, len(models))
	for n, m := range models {
		res[n] = m.Value
	}
	return res, nil
}
