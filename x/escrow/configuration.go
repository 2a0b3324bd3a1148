package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/gconf"
)

const packageName = "escrow"

// Configuration holds the chain parameters of escrows.
type Configuration struct {
	Metadata *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Owner    bazaar.Address   `protobuf:"bytes,2,opt,name=owner,proto3,casttype=github.com/iov-one/bazaar.Address" json:"owner,omitempty"`
	// RecordReserve is charged, in the native asset, for every created
	// record. Zero disables it.
	RecordReserve uint64 `protobuf:"varint,3,opt,name=record_reserve,json=recordReserve,proto3" json:"record_reserve,omitempty"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (m *Configuration) GetOwner() bazaar.Address {
	return m.Owner
}

func (m *Configuration) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if len(m.Owner) != 0 {
		return errors.Wrap(m.Owner.Validate(), "owner")
	}
	return nil
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, packageName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// SaveConf stores the configuration of this package.
func SaveConf(db gconf.Store, conf *Configuration) error {
	return gconf.Save(db, packageName, conf)
}
