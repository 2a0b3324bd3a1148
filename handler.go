package bazaar

import (
	"encoding/json"
)

// Handler is a core engine that can process a few specific messages,
// such as "create escrow" or "send tokens".
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// Check must not have side effects that outlive the call.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality like
// authentication, atomicity or logging, to many Handlers.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is an interface to register a handler for a message, the setup
// side of a Router.
type Registry interface {
	Handle(m Msg, h Handler)
}

// CheckResult captures any non-error result of checking a transaction.
type CheckResult struct {
	// Data is a machine-parseable return value.
	Data []byte
	// Log is human-readable informational string.
	Log string
	// GasAllocated is the cost the handler declares for the operation.
	GasAllocated int64
}

// DeliverResult captures any non-error result of executing a transaction.
type DeliverResult struct {
	// Data is a machine-parseable return value, like the address of a
	// created record.
	Data []byte
	// Log is human-readable informational string.
	Log string
	// Tags describe the effects of the operation, for indexing.
	Tags []Tag
}

// Tag is a key value pair attached to a DeliverResult.
type Tag struct {
	Key   string
	Value string
}

// Options are the app options. Each extension can look up its key and
// parse the json as desired.
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key, and parses the
// json into the given obj. Returns an error if it cannot parse. Noop and no
// error if key is missing.
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize extensions from the
// genesis file contents.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers lets you initialize many extensions with one function.
func ChainInitializers(inits ...Initializer) Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []Initializer
}

// FromGenesis passes the options to every initializer in order and stops
// on the first error.
func (c chainInitializer) FromGenesis(opts Options, kv KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
