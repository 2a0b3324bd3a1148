package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

const (
	pathBumpSequenceMsg = "sigs/bump_sequence"

	maxSequenceIncrement = 1000
	minSequenceIncrement = 1
)

// BumpSequenceMsg increments the sequence of the signer, invalidating all
// signatures made with the skipped sequence values.
type BumpSequenceMsg struct {
	Metadata  *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Increment uint32           `protobuf:"varint,2,opt,name=increment,proto3" json:"increment,omitempty"`
}

func (m *BumpSequenceMsg) Reset()         { *m = BumpSequenceMsg{} }
func (m *BumpSequenceMsg) String() string { return proto.CompactTextString(m) }
func (*BumpSequenceMsg) ProtoMessage()    {}

var _ bazaar.Msg = (*BumpSequenceMsg)(nil)

func (m *BumpSequenceMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Increment < minSequenceIncrement {
		return errors.Wrapf(errors.ErrInvalidMsg, "increment must be at least %d", minSequenceIncrement)
	}
	if m.Increment > maxSequenceIncrement {
		return errors.Wrapf(errors.ErrInvalidMsg, "increment must not be greater than %d", maxSequenceIncrement)
	}
	return nil
}

func (BumpSequenceMsg) Path() string {
	return pathBumpSequenceMsg
}
