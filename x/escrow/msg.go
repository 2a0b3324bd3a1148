package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
)

const (
	pathCreateMsg              = "escrow/create"
	pathCancelMsg              = "escrow/cancel"
	pathFulfillMsg             = "escrow/fulfill"
	pathUpdateConfigurationMsg = "escrow/update_configuration"
)

// CreateMsg opens a new escrow. The maker deposits Deposit of AssetA and
// asks Receive of AssetB in return.
type CreateMsg struct {
	Metadata *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Maker    bazaar.Address   `protobuf:"bytes,2,opt,name=maker,proto3,casttype=github.com/iov-one/bazaar.Address" json:"maker,omitempty"`
	AssetA   string           `protobuf:"bytes,3,opt,name=asset_a,json=assetA,proto3" json:"asset_a,omitempty"`
	AssetB   string           `protobuf:"bytes,4,opt,name=asset_b,json=assetB,proto3" json:"asset_b,omitempty"`
	Salt     uint64           `protobuf:"varint,5,opt,name=salt,proto3" json:"salt,omitempty"`
	Deposit  uint64           `protobuf:"varint,6,opt,name=deposit,proto3" json:"deposit,omitempty"`
	Receive  uint64           `protobuf:"varint,7,opt,name=receive,proto3" json:"receive,omitempty"`
}

func (m *CreateMsg) Reset()         { *m = CreateMsg{} }
func (m *CreateMsg) String() string { return proto.CompactTextString(m) }
func (*CreateMsg) ProtoMessage()    {}

var _ bazaar.Msg = (*CreateMsg)(nil)

func (CreateMsg) Path() string {
	return pathCreateMsg
}

func (m *CreateMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Deposit == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "deposit must be greater than zero")
	}
	if m.Receive == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "receive must be greater than zero")
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
	return nil
}

// CancelMsg destroys an escrow and returns the vault to the maker.
type CancelMsg struct {
	Metadata *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Maker    bazaar.Address   `protobuf:"bytes,2,opt,name=maker,proto3,casttype=github.com/iov-one/bazaar.Address" json:"maker,omitempty"`
	Escrow   bazaar.Address   `protobuf:"bytes,3,opt,name=escrow,proto3,casttype=github.com/iov-one/bazaar.Address" json:"escrow,omitempty"`
	Vault    bazaar.Address   `protobuf:"bytes,4,opt,name=vault,proto3,casttype=github.com/iov-one/bazaar.Address" json:"vault,omitempty"`
}

func (m *CancelMsg) Reset()         { *m = CancelMsg{} }
func (m *CancelMsg) String() string { return proto.CompactTextString(m) }
func (*CancelMsg) ProtoMessage()    {}

var _ bazaar.Msg = (*CancelMsg)(nil)

func (CancelMsg) Path() string {
	return pathCancelMsg
}

func (m *CancelMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if err := m.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	return errors.Wrap(m.Vault.Validate(), "vault")
}

// FulfillMsg completes an escrow. The taker pays the requested amount of
// asset B from TakerB to MakerB and receives the vault into TakerA.
type FulfillMsg struct {
	Metadata *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Taker    bazaar.Address   `protobuf:"bytes,2,opt,name=taker,proto3,casttype=github.com/iov-one/bazaar.Address" json:"taker,omitempty"`
	Escrow   bazaar.Address   `protobuf:"bytes,3,opt,name=escrow,proto3,casttype=github.com/iov-one/bazaar.Address" json:"escrow,omitempty"`
	Vault    bazaar.Address   `protobuf:"bytes,4,opt,name=vault,proto3,casttype=github.com/iov-one/bazaar.Address" json:"vault,omitempty"`
	// MakerB receives the payment.
	MakerB bazaar.Address `protobuf:"bytes,5,opt,name=maker_b,json=makerB,proto3,casttype=github.com/iov-one/bazaar.Address" json:"maker_b,omitempty"`
	// TakerA receives the vault content.
	TakerA bazaar.Address `protobuf:"bytes,6,opt,name=taker_a,json=takerA,proto3,casttype=github.com/iov-one/bazaar.Address" json:"taker_a,omitempty"`
	// TakerB pays.
	TakerB bazaar.Address `protobuf:"bytes,7,opt,name=taker_b,json=takerB,proto3,casttype=github.com/iov-one/bazaar.Address" json:"taker_b,omitempty"`
}

func (m *FulfillMsg) Reset()         { *m = FulfillMsg{} }
func (m *FulfillMsg) String() string { return proto.CompactTextString(m) }
func (*FulfillMsg) ProtoMessage()    {}

var _ bazaar.Msg = (*FulfillMsg)(nil)

func (FulfillMsg) Path() string {
	return pathFulfillMsg
}

func (m *FulfillMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	fields := []struct {
		name string
		addr bazaar.Address
	}{
		{"taker", m.Taker},
		{"escrow", m.Escrow},
		{"vault", m.Vault},
		{"maker b", m.MakerB},
		{"taker a", m.TakerA},
		{"taker b", m.TakerB},
	}
	for _, f := range fields {
		if err := f.addr.Validate(); err != nil {
			return errors.Wrap(err, f.name)
		}
	}
	return nil
}

// UpdateConfigurationMsg patches the escrow configuration.
type UpdateConfigurationMsg struct {
	Metadata *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Patch    *Configuration   `protobuf:"bytes,2,opt,name=patch,proto3" json:"patch,omitempty"`
}

func (m *UpdateConfigurationMsg) Reset()         { *m = UpdateConfigurationMsg{} }
func (m *UpdateConfigurationMsg) String() string { return proto.CompactTextString(m) }
func (*UpdateConfigurationMsg) ProtoMessage()    {}

var _ bazaar.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return nil
}
