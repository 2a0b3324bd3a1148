package store

import "github.com/iov-one/bazaar"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = bazaar.ReadOnlyKVStore
	SetDeleter       = bazaar.SetDeleter
	KVStore          = bazaar.KVStore
	Batch            = bazaar.Batch
	Iterator         = bazaar.Iterator
	CacheableKVStore = bazaar.CacheableKVStore
	KVCacheWrap      = bazaar.KVCacheWrap
	CommitKVStore    = bazaar.CommitKVStore
	CommitID         = bazaar.CommitID
	Model            = bazaar.Model
)

// Pair constructs a Model from a key and a value.
var Pair = bazaar.Pair
