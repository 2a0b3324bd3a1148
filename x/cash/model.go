package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
)

// BucketName is where we store the accounts.
const BucketName = "cash"

// Account is a holding account of a single asset.
type Account struct {
	Metadata *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Owner is the identity allowed to spend from this account.
	Owner bazaar.Address `protobuf:"bytes,2,opt,name=owner,proto3,casttype=github.com/iov-one/bazaar.Address" json:"owner,omitempty"`
	Asset string         `protobuf:"bytes,3,opt,name=asset,proto3" json:"asset,omitempty"`
	// Amount is the current balance.
	Amount uint64 `protobuf:"varint,4,opt,name=amount,proto3" json:"amount,omitempty"`
	// Reserve is the existence deposit, in the native asset, paid when the
	// account was opened.
	Reserve uint64 `protobuf:"varint,5,opt,name=reserve,proto3" json:"reserve,omitempty"`
}

func (m *Account) Reset()         { *m = Account{} }
func (m *Account) String() string { return proto.CompactTextString(m) }
func (*Account) ProtoMessage()    {}

var _ orm.Model = (*Account)(nil)

// Validate ensures the account is fit to be stored.
func (m *Account) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := coin.ValidateAsset(m.Asset); err != nil {
		return errors.Wrap(err, "asset")
	}
	return nil
}

// Bucket stores holding accounts under their derived address, with a
// secondary index by owner.
type Bucket struct {
	orm.Bucket
}

// NewBucket returns a bucket for holding accounts.
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, &Account{}).
			WithIndex("owner", ownerIndex, false),
	}
}

func ownerIndex(obj orm.Model) ([]byte, error) {
	acc, ok := obj.(*Account)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", obj)
	}
	return acc.Owner, nil
}

// Get returns the account stored under given address. It returns
// ErrNotFound if there is no such account.
func (b Bucket) Get(db bazaar.ReadOnlyKVStore, addr bazaar.Address) (*Account, error) {
	var acc Account
	if err := b.One(db, addr, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// ByOwner returns all accounts of the given owner.
func (b Bucket) ByOwner(db bazaar.ReadOnlyKVStore, owner bazaar.Address) ([]*Account, error) {
	var accs []*Account
	if _, err := b.ByIndex(db, "owner", owner, &accs); err != nil {
		return nil, err
	}
	return accs, nil
}
