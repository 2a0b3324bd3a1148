package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/escrow"
	"github.com/iov-one/bazaar/x/sigs"
)

// Tx is the wire format of every transaction this application accepts. It
// carries signatures and exactly one message.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`

	CreateEscrowMsg              *escrow.CreateMsg              `protobuf:"bytes,10,opt,name=create_escrow_msg,json=createEscrowMsg,proto3" json:"create_escrow_msg,omitempty"`
	CancelEscrowMsg              *escrow.CancelMsg              `protobuf:"bytes,11,opt,name=cancel_escrow_msg,json=cancelEscrowMsg,proto3" json:"cancel_escrow_msg,omitempty"`
	FulfillEscrowMsg             *escrow.FulfillMsg             `protobuf:"bytes,12,opt,name=fulfill_escrow_msg,json=fulfillEscrowMsg,proto3" json:"fulfill_escrow_msg,omitempty"`
	EscrowUpdateConfigurationMsg *escrow.UpdateConfigurationMsg `protobuf:"bytes,13,opt,name=escrow_update_configuration_msg,json=escrowUpdateConfigurationMsg,proto3" json:"escrow_update_configuration_msg,omitempty"`
	SendMsg                      *cash.SendMsg                  `protobuf:"bytes,20,opt,name=send_msg,json=sendMsg,proto3" json:"send_msg,omitempty"`
	OpenAccountMsg               *cash.OpenAccountMsg           `protobuf:"bytes,21,opt,name=open_account_msg,json=openAccountMsg,proto3" json:"open_account_msg,omitempty"`
	CloseAccountMsg              *cash.CloseAccountMsg          `protobuf:"bytes,22,opt,name=close_account_msg,json=closeAccountMsg,proto3" json:"close_account_msg,omitempty"`
	CashUpdateConfigurationMsg   *cash.UpdateConfigurationMsg   `protobuf:"bytes,23,opt,name=cash_update_configuration_msg,json=cashUpdateConfigurationMsg,proto3" json:"cash_update_configuration_msg,omitempty"`
	BumpSequenceMsg              *sigs.BumpSequenceMsg          `protobuf:"bytes,30,opt,name=bump_sequence_msg,json=bumpSequenceMsg,proto3" json:"bump_sequence_msg,omitempty"`
}

func (m *Tx) Reset()         { *m = Tx{} }
func (m *Tx) String() string { return proto.CompactTextString(m) }
func (*Tx) ProtoMessage()    {}

var _ bazaar.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// GetMsg returns the single message carried by this transaction.
func (tx *Tx) GetMsg() (bazaar.Msg, error) {
	var found []bazaar.Msg
	for _, m := range tx.msgs() {
		if m != nil {
			found = append(found, m)
		}
	}
	switch len(found) {
	case 0:
		return nil, errors.Wrap(errors.ErrInvalidMsg, "no message")
	case 1:
		return found[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "%d messages in one transaction", len(found))
	}
}

// msgs lists every message slot. Unset slots are typed nil pointers, so
// they are converted one by one.
func (tx *Tx) msgs() []bazaar.Msg {
	var res []bazaar.Msg
	add := func(set bool, m bazaar.Msg) {
		if set {
			res = append(res, m)
		}
	}
	add(tx.CreateEscrowMsg != nil, tx.CreateEscrowMsg)
	add(tx.CancelEscrowMsg != nil, tx.CancelEscrowMsg)
	add(tx.FulfillEscrowMsg != nil, tx.FulfillEscrowMsg)
	add(tx.EscrowUpdateConfigurationMsg != nil, tx.EscrowUpdateConfigurationMsg)
	add(tx.SendMsg != nil, tx.SendMsg)
	add(tx.OpenAccountMsg != nil, tx.OpenAccountMsg)
	add(tx.CloseAccountMsg != nil, tx.CloseAccountMsg)
	add(tx.CashUpdateConfigurationMsg != nil, tx.CashUpdateConfigurationMsg)
	add(tx.BumpSequenceMsg != nil, tx.BumpSequenceMsg)
	return res
}

// SetMsg places the message in its slot. Any previously set message is
// removed first.
func (tx *Tx) SetMsg(msg bazaar.Msg) error {
	signatures := tx.Signatures
	tx.Reset()
	tx.Signatures = signatures

	switch m := msg.(type) {
	case *escrow.CreateMsg:
		tx.CreateEscrowMsg = m
	case *escrow.CancelMsg:
		tx.CancelEscrowMsg = m
	case *escrow.FulfillMsg:
		tx.FulfillEscrowMsg = m
	case *escrow.UpdateConfigurationMsg:
		tx.EscrowUpdateConfigurationMsg = m
	case *cash.SendMsg:
		tx.SendMsg = m
	case *cash.OpenAccountMsg:
		tx.OpenAccountMsg = m
	case *cash.CloseAccountMsg:
		tx.CloseAccountMsg = m
	case *cash.UpdateConfigurationMsg:
		tx.CashUpdateConfigurationMsg = m
	case *sigs.BumpSequenceMsg:
		tx.BumpSequenceMsg = m
	default:
		return errors.Wrapf(errors.ErrInvalidType, "unsupported message %T", msg)
	}
	return nil
}

// GetSignatures returns all signatures attached to this transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the serialized transaction without the signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	cpy := *tx
	cpy.Signatures = nil
	return bazaar.Marshal(&cpy)
}

// DecodeTx is the bazaar.TxDecoder of this application.
func DecodeTx(raw []byte) (bazaar.Tx, error) {
	var tx Tx
	if err := bazaar.Unmarshal(raw, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

var _ bazaar.TxDecoder = DecodeTx
