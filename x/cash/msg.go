package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
)

const (
	pathSendMsg                = "cash/send"
	pathOpenAccountMsg         = "cash/open"
	pathCloseAccountMsg        = "cash/close"
	pathUpdateConfigurationMsg = "cash/update_configuration"

	maxMemoSize = 128
)

// SendMsg moves an amount between two accounts of the same asset. The
// owner of the source account must sign.
type SendMsg struct {
	Metadata    *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Source      bazaar.Address   `protobuf:"bytes,2,opt,name=source,proto3,casttype=github.com/iov-one/bazaar.Address" json:"source,omitempty"`
	Destination bazaar.Address   `protobuf:"bytes,3,opt,name=destination,proto3,casttype=github.com/iov-one/bazaar.Address" json:"destination,omitempty"`
	Amount      uint64           `protobuf:"varint,4,opt,name=amount,proto3" json:"amount,omitempty"`
	Memo        string           `protobuf:"bytes,5,opt,name=memo,proto3" json:"memo,omitempty"`
}

func (m *SendMsg) Reset()         { *m = SendMsg{} }
func (m *SendMsg) String() string { return proto.CompactTextString(m) }
func (*SendMsg) ProtoMessage()    {}

var _ bazaar.Msg = (*SendMsg)(nil)

func (SendMsg) Path() string {
	return pathSendMsg
}

func (m *SendMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero amount")
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrapf(errors.ErrInvalidInput, "memo longer than %d", maxMemoSize)
	}
	return nil
}

// OpenAccountMsg opens an empty account for owner and asset. The payer signs
// and pays the account reserve.
type OpenAccountMsg struct {
	Metadata *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Payer    bazaar.Address   `protobuf:"bytes,2,opt,name=payer,proto3,casttype=github.com/iov-one/bazaar.Address" json:"payer,omitempty"`
	Owner    bazaar.Address   `protobuf:"bytes,3,opt,name=owner,proto3,casttype=github.com/iov-one/bazaar.Address" json:"owner,omitempty"`
	Asset    string           `protobuf:"bytes,4,opt,name=asset,proto3" json:"asset,omitempty"`
}

func (m *OpenAccountMsg) Reset()         { *m = OpenAccountMsg{} }
func (m *OpenAccountMsg) String() string { return proto.CompactTextString(m) }
func (*OpenAccountMsg) ProtoMessage()    {}

var _ bazaar.Msg = (*OpenAccountMsg)(nil)

func (OpenAccountMsg) Path() string {
	return pathOpenAccountMsg
}

func (m *OpenAccountMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return coin.ValidateAsset(m.Asset)
}

// CloseAccountMsg closes an empty account. The owner signs and receives the
// reserve.
type CloseAccountMsg struct {
	Metadata *bazaar.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Account  bazaar.Address   `protobuf:"bytes,2,opt,name=account,proto3,casttype=github.com/iov-one/bazaar.Address" json:"account,omitempty"`
}

func (m *CloseAccountMsg) Reset()         { *m = CloseAccountMsg{} }
func (m *CloseAccountMsg) String() string { return proto.CompactTextString(m) }
func (*CloseAccountMsg) ProtoMessage()    {}

var _ bazaar.Msg = (*CloseAccountMsg)(nil)

func (CloseAccountMsg) Path() string {
	return pathCloseAccountMsg
}

func (m *CloseAccountMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return errors.Wrap(m.Account.Validate(), "account")
}

// UpdateConfigurationMsg patches the configuration. Zero fields of the
// patch are left unchanged.
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
	if m.Patch.NativeAsset != "" {
		if err := coin.ValidateAsset(m.Patch.NativeAsset); err != nil {
			return errors.Wrap(err, "native asset")
		}
	}
	return nil
}
