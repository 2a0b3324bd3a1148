package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/crypto"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is the greatest sequence a client can represent without
// loss, Number.MAX_SAFE_INTEGER.
const maxSequenceValue = (1 << 53) - 1

// UserData is the replay protection state of a single key.
type UserData struct {
	Metadata *bazaar.Metadata  `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Pubkey   *crypto.PublicKey `protobuf:"bytes,2,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Sequence int64             `protobuf:"varint,3,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

func (m *UserData) Reset()         { *m = UserData{} }
func (m *UserData) String() string { return proto.CompactTextString(m) }
func (*UserData) ProtoMessage()    {}

var _ orm.Model = (*UserData)(nil)

func (m *UserData) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Sequence < 0 {
		return errors.Wrap(errors.ErrInvalidSequence, "negative")
	}
	if m.Pubkey == nil {
		return errors.Wrap(errors.ErrEmpty, "pubkey")
	}
	return m.Pubkey.Validate()
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (m *UserData) CheckAndIncrementSequence(expected int64) error {
	if m.Sequence != expected {
		return errors.Wrapf(errors.ErrInvalidSequence, "mismatch expected %d, got %d", expected, m.Sequence)
	}
	next := m.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	m.Sequence = next
	return nil
}

// Bucket stores UserData under the address of its public key.
type Bucket struct {
	orm.Bucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, &UserData{}),
	}
}

// GetOrCreate loads the UserData of the given key, or initializes a new one
// with sequence zero if none exist.
func (b Bucket) GetOrCreate(db bazaar.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	var user UserData
	switch err := b.One(db, pubkey.Address(), &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{
			Metadata: &bazaar.Metadata{Schema: 1},
			Pubkey:   pubkey,
		}, nil
	default:
		return nil, err
	}
}

// Save stores the user under its key address.
func (b Bucket) Save(db bazaar.KVStore, user *UserData) error {
	return b.Put(db, user.Pubkey.Address(), user)
}
