package bazaar

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar/errors"
)

// Metadata is embedded in every persisted model and message. Schema is the
// version of the serialized layout.
type Metadata struct {
	Schema uint32 `protobuf:"varint,1,opt,name=schema,proto3" json:"schema,omitempty"`
}

func (m *Metadata) Reset()         { *m = Metadata{} }
func (m *Metadata) String() string { return proto.CompactTextString(m) }
func (*Metadata) ProtoMessage()    {}

// Validate requires the schema to be set.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrEmpty, "metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrInvalidModel, "schema version")
	}
	return nil
}

// Copy returns a copy of this object.
func (m *Metadata) Copy() *Metadata {
	cpy := *m
	return &cpy
}
