package bazaar

import (
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar/errors"
)

// Msg is a request for a state transition. It is just the request, and must
// be authorized by the Handlers. All authentication information is in the
// wrapping Tx.
type Msg interface {
	proto.Message

	// Path returns the message path, used by the Router to locate the
	// proper Handler. Must be alphanumeric [0-9A-Za-z_\-/]+
	Path() string

	// Validate performs all checks that do not require the state.
	Validate() error
}

// Tx represents the data sent from the user. It includes the actual message,
// along with information needed to authenticate the sender (cryptographic
// signatures).
type Tx interface {
	proto.Message

	// GetMsg returns the action we wish to communicate.
	GetMsg() (Msg, error)
}

// TxDecoder can parse bytes into a Tx.
type TxDecoder func(txBytes []byte) (Tx, error)

// GetPath returns the path of the message, or (missing) if no message.
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg extracts the message represented by the given transaction into the
// destination, which must be a pointer to the same message type. The
// message is validated.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrInvalidMsg, "no message")
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return errors.Wrapf(errors.ErrHuman, "destination must be a pointer, got %T", destination)
	}
	src := reflect.ValueOf(msg)
	if src.Type() != dst.Type() {
		return errors.Wrapf(errors.ErrInvalidMsg, "want %T message, got %T", destination, msg)
	}
	dst.Elem().Set(src.Elem())
	return nil
}

// Marshal serializes a protobuf message.
func Marshal(m proto.Message) ([]byte, error) {
	raw, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "marshal %T: %s", m, err)
	}
	return raw, nil
}

// MustMarshal is Marshal that panics on error. Use only with data known to
// be valid, like in tests.
func MustMarshal(m proto.Message) []byte {
	raw, err := Marshal(m)
	if err != nil {
		panic(err)
	}
	return raw
}

// Unmarshal decodes raw into the given protobuf message.
func Unmarshal(raw []byte, m proto.Message) error {
	if err := proto.Unmarshal(raw, m); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "unmarshal %T: %s", m, err)
	}
	return nil
}
