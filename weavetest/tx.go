package weavetest

import "github.com/iov-one/bazaar"

// Tx represents a transaction holding a single message that is to be
// processed.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg bazaar.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ bazaar.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (bazaar.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Reset()         { *tx = Tx{} }
func (tx *Tx) String() string { return "weavetest.Tx" }
func (*Tx) ProtoMessage()     {}

// Msg represents a message with a configurable route path.
type Msg struct {
	// Path returned by the path method, consumed by the router.
	RoutePath string
	// Err if set is returned by Validate.
	Err error
}

var _ bazaar.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Reset()         { *m = Msg{} }
func (m *Msg) String() string { return "weavetest.Msg(" + m.RoutePath + ")" }
func (*Msg) ProtoMessage()    {}
