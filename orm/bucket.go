/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* It has a primary index, the key an entity is saved under.
* It may possess one or more secondary indexes (1:1 or 1:N)
* Easy queries for one and iteration.
*/
package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// Bucket is a prefixed subspace of the DB that holds entities of a single
// Model type, and keeps its secondary indexes up to date.
//
// This is a generic building block that should generally be embedded in a
// type-safe wrapper.
type Bucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	indexes map[string]*index
}

var _ bazaar.QueryHandler = Bucket{}

// NewBucket creates a bucket to store entities of the same type as model.
func NewBucket(name string, model Model) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	tp := reflect.TypeOf(model)
	if tp.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("model must be a pointer, got %T", model))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		model:  tp,
	}
}

// Name returns the name of the bucket.
func (b Bucket) Name() string {
	return b.name
}

// WithIndex returns a copy of this bucket with given index,
// panics if it an index with that name is already registered.
//
// Designed to be chained.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("Index %s registered twice", name))
	}
	indexes := make(map[string]*index, len(b.indexes)+1)
	for n, i := range b.indexes {
		indexes[n] = i
	}
	indexes[name] = newIndex(b.name+"_"+name, indexer, unique)
	b.indexes = indexes
	return b
}

// Register registers this Bucket and all indexes.
// You can define a name here for queries, which is
// different than the bucket name used to prefix the data
func (b Bucket) Register(name string, r bazaar.QueryRouter) {
	if name == "" {
		name = b.name
	}
	root := "/" + name
	r.Register(root, b)
	for iname := range b.indexes {
		r.Register(root+"/"+iname, indexQuery{bucket: b, name: iname})
	}
}

// Query handles queries from the QueryRouter
func (b Bucket) Query(db bazaar.ReadOnlyKVStore, mod string, data []byte) ([]bazaar.Model, error) {
	switch mod {
	case bazaar.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []bazaar.Model{bazaar.Pair(key, value)}, nil
	case bazaar.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown query mod %q", mod)
	}
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// One loads the entity stored under key into dest. It returns ErrNotFound
// if there is no such entity.
func (b Bucket) One(db bazaar.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != b.model {
		return errors.Wrapf(errors.ErrInvalidType, "%s bucket holds %s, got %T", b.name, b.model, dest)
	}
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	return bazaar.Unmarshal(raw, dest)
}

// Has returns true if an entity is stored under key.
func (b Bucket) Has(db bazaar.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Put validates and saves the model under given key, updating all indexes.
func (b Bucket) Put(db bazaar.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if reflect.TypeOf(m) != b.model {
		return errors.Wrapf(errors.ErrInvalidType, "%s bucket holds %s, got %T", b.name, b.model, m)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := bazaar.Marshal(m)
	if err != nil {
		return err
	}
	if err := b.updateIndexes(db, key, m); err != nil {
		return err
	}
	if err := db.Set(b.DBKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

// Delete removes an entity with given primary key from the database.
// It returns ErrNotFound if an entity with given key does not exist.
func (b Bucket) Delete(db bazaar.KVStore, key []byte) error {
	ok, err := b.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	if err := b.updateIndexes(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

func (b Bucket) updateIndexes(db bazaar.KVStore, key []byte, next Model) error {
	if len(b.indexes) == 0 {
		return nil
	}
	var prev Model
	switch ok, err := b.Has(db, key); {
	case err != nil:
		return err
	case ok:
		prev = reflect.New(b.model.Elem()).Interface().(Model)
		if err := b.One(db, key, prev); err != nil {
			return err
		}
	}
	for _, idx := range b.indexes {
		if err := idx.update(db, key, prev, next); err != nil {
			return err
		}
	}
	return nil
}

// IndexKeys returns the primary keys of all entities indexed under value.
func (b Bucket) IndexKeys(db bazaar.ReadOnlyKVStore, indexName string, value []byte) ([][]byte, error) {
	idx, ok := b.indexes[indexName]
	if !ok {
		return nil, errors.Wrap(ErrInvalidIndex, indexName)
	}
	return idx.keys(db, value)
}

// ByIndex loads all entities indexed under value into dest, which must be
// a pointer to a slice of model pointers. Primary keys are returned in the
// same order.
func (b Bucket) ByIndex(db bazaar.ReadOnlyKVStore, indexName string, value []byte, dest ModelSlicePtr) ([][]byte, error) {
	keys, err := b.IndexKeys(db, indexName, value)
	if err != nil {
		return nil, err
	}

	ptr := reflect.ValueOf(dest)
	if ptr.Kind() != reflect.Ptr || ptr.Elem().Kind() != reflect.Slice || ptr.Elem().Type().Elem() != b.model {
		return nil, errors.Wrapf(errors.ErrInvalidType, "want *[]%s, got %T", b.model, dest)
	}
	slice := reflect.MakeSlice(ptr.Elem().Type(), 0, len(keys))
	for _, key := range keys {
		m := reflect.New(b.model.Elem())
		if err := b.One(db, key, m.Interface().(Model)); err != nil {
			return nil, errors.Wrapf(err, "indexed key %X", key)
		}
		slice = reflect.Append(slice, m)
	}
	ptr.Elem().Set(slice)
	return keys, nil
}

// indexQuery exposes an index through the QueryRouter. The query data is
// the index value, the result the entities stored under it.
type indexQuery struct {
	bucket Bucket
	name   string
}

func (q indexQuery) Query(db bazaar.ReadOnlyKVStore, mod string, data []byte) ([]bazaar.Model, error) {
	if mod != bazaar.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "index query supports only key mod, got %q", mod)
	}
	keys, err := q.bucket.IndexKeys(db, q.name, data)
	if err != nil {
		return nil, err
	}
	res := make([]bazaar.Model, 0, len(keys))
	for _, key := range keys {
		dbkey := q.bucket.DBKey(key)
		value, err := db.Get(dbkey)
		if err != nil {
			return nil, err
		}
		res = append(res, bazaar.Pair(dbkey, value))
	}
	return res, nil
}
