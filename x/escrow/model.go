package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/orm"
)

// BucketName is where we store the escrow records.
const BucketName = "esc"

// Escrow is the record of a pending trade. It never changes once created.
// The deposited amount is not stored, the vault balance is the only
// source of truth.
type Escrow struct {
	Metadata *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Maker    bazaar.Address   `protobuf:"bytes,2,opt,name=maker,proto3,casttype=github.com/iov-one/bazaar.Address" json:"maker,omitempty"`
	Salt     uint64           `protobuf:"varint,3,opt,name=salt,proto3" json:"salt,omitempty"`
	// AssetA is held in the vault.
	AssetA string `protobuf:"bytes,4,opt,name=asset_a,json=assetA,proto3" json:"asset_a,omitempty"`
	// AssetB is what the maker expects in return.
	AssetB string `protobuf:"bytes,5,opt,name=asset_b,json=assetB,proto3" json:"asset_b,omitempty"`
	// Receive is the amount of AssetB a taker must pay.
	Receive uint64 `protobuf:"varint,6,opt,name=receive,proto3" json:"receive,omitempty"`
	Bump    uint32 `protobuf:"varint,7,opt,name=bump,proto3" json:"bump,omitempty"`
	// Reserve is the existence deposit paid by the maker for this record.
	Reserve uint64 `protobuf:"varint,8,opt,name=reserve,proto3" json:"reserve,omitempty"`
}

func (m *Escrow) Reset()         { *m = Escrow{} }
func (m *Escrow) String() string { return proto.CompactTextString(m) }
func (*Escrow) ProtoMessage()    {}

var _ orm.Model = (*Escrow)(nil)

// Validate ensures the escrow is fit to be stored.
func (m *Escrow) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if err := coin.ValidateAsset(m.AssetA); err != nil {
		return errors.Wrap(err, "asset a")
	}
	if err := coin.ValidateAsset(m.AssetB); err != nil {
		return errors.Wrap(err, "asset b")
	}
	if m.Receive == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "receive")
	}
	if m.Bump > 255 {
		return errors.Wrapf(errors.ErrInvalidModel, "bump %d", m.Bump)
	}
	return nil
}

// Bucket stores escrow records under their derived address, with a
// secondary index by maker.
type Bucket struct {
	orm.Bucket
}

// NewBucket returns a bucket for escrow records.
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, &Escrow{}).
			WithIndex("maker", makerIndex, false),
	}
}

func makerIndex(obj orm.Model) ([]byte, error) {
	e, ok := obj.(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", obj)
	}
	return e.Maker, nil
}

// Get returns the record stored under given address, or ErrNotFound.
func (b Bucket) Get(db bazaar.ReadOnlyKVStore, addr bazaar.Address) (*Escrow, error) {
	var e Escrow
	if err := b.One(db, addr, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByMaker returns all pending records of the maker together with their
// addresses.
func (b Bucket) ListByMaker(db bazaar.ReadOnlyKVStore, maker bazaar.Address) ([]bazaar.Address, []*Escrow, error) {
	var records []*Escrow
	keys, err := b.ByIndex(db, "maker", maker, &records)
	if err != nil {
		return nil, nil, err
	}
	addrs := make([]bazaar.Address, len(keys))
	for i, k := range keys {
		addrs[i] = k
	}
	return addrs, records, nil
}
