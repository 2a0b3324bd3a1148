package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/gconf"
)

const packageName = "cash"

// Configuration holds the chain parameters of holding accounts.
type Configuration struct {
	Metadata *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Owner may update this configuration.
	Owner bazaar.Address `protobuf:"bytes,2,opt,name=owner,proto3,casttype=github.com/iov-one/bazaar.Address" json:"owner,omitempty"`
	// NativeAsset is the asset reserves are paid in.
	NativeAsset string `protobuf:"bytes,3,opt,name=native_asset,json=nativeAsset,proto3" json:"native_asset,omitempty"`
	// AccountReserve is charged for every opened account. Zero disables
	// reserves.
	AccountReserve uint64 `protobuf:"varint,4,opt,name=account_reserve,json=accountReserve,proto3" json:"account_reserve,omitempty"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

var _ gconf.OwnedConfig = (*Configuration)(nil)

// GetOwner returns the identity allowed to change the configuration.
func (m *Configuration) GetOwner() bazaar.Address {
	return m.Owner
}

func (m *Configuration) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if len(m.Owner) != 0 {
		if err := m.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
	}
	if err := coin.ValidateAsset(m.NativeAsset); err != nil {
		return errors.Wrap(err, "native asset")
	}
	return nil
}

// loadConf returns the current configuration of this package.
func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, packageName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// SaveConf stores the configuration of this package. Useful for tests and
// tooling, genesis goes through the Initializer.
func SaveConf(db gconf.Store, conf *Configuration) error {
	return gconf.Save(db, packageName, conf)
}
