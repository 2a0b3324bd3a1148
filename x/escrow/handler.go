package escrow

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/gconf"
	"github.com/iov-one/bazaar/x"
	"github.com/iov-one/bazaar/x/cash"
)

const (
	// pay escrow cost up-front
	createEscrowCost  int64 = 300
	cancelEscrowCost  int64 = 0
	fulfillEscrowCost int64 = 100
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r bazaar.Registry, auth x.Authenticator, ctrl cash.Controller) {
	bucket := NewBucket()
	r.Handle(&CreateMsg{}, CreateEscrowHandler{auth: auth, bucket: bucket, bank: ctrl})
	r.Handle(&CancelMsg{}, CancelEscrowHandler{auth: auth, bucket: bucket, bank: ctrl})
	r.Handle(&FulfillMsg{}, FulfillEscrowHandler{auth: auth, bucket: bucket, bank: ctrl})
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler(packageName, &Configuration{}, auth))
}

// RegisterQuery will register this bucket as "/escrows".
func RegisterQuery(qr bazaar.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// CreateEscrowHandler creates a record and its vault, and moves the deposit
// into the vault.
type CreateEscrowHandler struct {
	auth   x.Authenticator
	bucket Bucket
	bank   cash.Controller
}

var _ bazaar.Handler = CreateEscrowHandler{}

// Check verifies the escrow can be created and returns the cost of
// executing it.
func (h CreateEscrowHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{GasAllocated: createEscrowCost}, nil
}

// Deliver creates the escrow if all preconditions are met.
func (h CreateEscrowHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	p, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	msg := p.msg

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if err := h.bank.ChargeReserve(db, msg.Maker, conf.RecordReserve); err != nil {
		return nil, errors.Wrap(err, "record reserve")
	}
	vault := p.vault
	if !p.vaultExists {
		if vault, err = h.bank.Open(db, msg.Maker, p.record, msg.AssetA); err != nil {
			return nil, errors.Wrap(err, "open vault")
		}
	}
	if err := h.bank.Transfer(db, p.makerA, vault, msg.Deposit); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}

	escrow := &Escrow{
		Metadata: &bazaar.Metadata{Schema: 1},
		Maker:    msg.Maker,
		Salt:     msg.Salt,
		AssetA:   msg.AssetA,
		AssetB:   msg.AssetB,
		Receive:  msg.Receive,
		Bump:     uint32(p.bump),
		Reserve:  conf.RecordReserve,
	}
	if err := h.bucket.Put(db, p.record, escrow); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}

	bazaar.GetLogger(ctx).Info("escrow created",
		"escrow", p.record, "vault", vault, "maker", msg.Maker,
		"deposit", msg.Deposit, "asset_a", msg.AssetA,
		"receive", msg.Receive, "asset_b", msg.AssetB)
	return &bazaar.DeliverResult{
		Data: p.record,
		Tags: []bazaar.Tag{{Key: "escrow", Value: p.record.String()}},
	}, nil
}

type createParams struct {
	msg         *CreateMsg
	record      bazaar.Address
	bump        uint8
	vault       bazaar.Address
	vaultExists bool
	makerA      bazaar.Address
}

// validate does all common pre-processing between Check and Deliver.
func (h CreateEscrowHandler) validate(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*createParams, error) {
	var msg CreateMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Maker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "maker signature required")
	}

	record, bump, err := RecordAddress(msg.Maker, msg.Salt)
	if err != nil {
		return nil, errors.Wrap(err, "derive escrow address")
	}
	switch ok, err := h.bucket.Has(db, record); {
	case err != nil:
		return nil, err
	case ok:
		return nil, errors.Wrapf(errors.ErrAddressCollision, "escrow %s", record)
	}
	vault, err := VaultAddress(record, msg.AssetA)
	if err != nil {
		return nil, errors.Wrap(err, "derive vault address")
	}
	// An empty vault owned by the record is reused. Anything else at that
	// address belongs to somebody else.
	var vaultExists bool
	switch acc, err := h.bank.Get(db, vault); {
	case errors.ErrNotFound.Is(err):
	case err != nil:
		return nil, err
	case !acc.Owner.Equals(record) || acc.Asset != msg.AssetA || acc.Amount != 0:
		return nil, errors.Wrapf(errors.ErrAddressCollision, "vault %s", vault)
	default:
		vaultExists = true
	}

	makerA, _, err := cash.AccountAddress(msg.Maker, msg.AssetA)
	if err != nil {
		return nil, err
	}
	src, err := h.bank.Get(db, makerA)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(errors.ErrInsufficientFunds, "maker has no %s account", msg.AssetA)
	case err != nil:
		return nil, err
	}
	if src.Amount < msg.Deposit {
		return nil, errors.Wrapf(errors.ErrInsufficientFunds, "have %d, need %d", src.Amount, msg.Deposit)
	}

	return &createParams{
		msg:         &msg,
		record:      record,
		bump:        bump,
		vault:       vault,
		vaultExists: vaultExists,
		makerA:      makerA,
	}, nil
}

// CancelEscrowHandler returns the vault content to the maker and destroys
// the escrow.
type CancelEscrowHandler struct {
	auth   x.Authenticator
	bucket Bucket
	bank   cash.Controller
}

var _ bazaar.Handler = CancelEscrowHandler{}

func (h CancelEscrowHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{GasAllocated: cancelEscrowCost}, nil
}

// Deliver moves the whole vault to the maker's account of asset A, then
// closes the vault and deletes the record.
func (h CancelEscrowHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	makerA, _, err := cash.AccountAddress(escrow.Maker, escrow.AssetA)
	if err != nil {
		return nil, err
	}
	if _, err := h.bank.Get(db, makerA); err != nil {
		return nil, errors.Wrap(err, "maker account")
	}
	if err := drain(db, h.bank, msg.Vault, makerA); err != nil {
		return nil, err
	}
	if err := destroy(db, h.bucket, h.bank, msg.Escrow, msg.Vault, escrow); err != nil {
		return nil, err
	}

	bazaar.GetLogger(ctx).Info("escrow cancelled", "escrow", msg.Escrow, "maker", escrow.Maker)
	return &bazaar.DeliverResult{
		Tags: []bazaar.Tag{{Key: "escrow", Value: msg.Escrow.String()}},
	}, nil
}

func (h CancelEscrowHandler) validate(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*CancelMsg, *Escrow, error) {
	var msg CancelMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := h.bucket.Get(db, msg.Escrow)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot load escrow from the store")
	}
	if !escrow.Maker.Equals(msg.Maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "not the escrow maker")
	}
	if !h.auth.HasAddress(ctx, escrow.Maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "maker signature required")
	}
	if err := verifyAddresses(escrow, msg.Escrow, msg.Vault); err != nil {
		return nil, nil, err
	}
	if _, err := h.bank.Get(db, msg.Vault); err != nil {
		return nil, nil, errors.Wrap(err, "vault")
	}
	return &msg, escrow, nil
}

// FulfillEscrowHandler settles the trade between the maker and a taker.
type FulfillEscrowHandler struct {
	auth   x.Authenticator
	bucket Bucket
	bank   cash.Controller
}

var _ bazaar.Handler = FulfillEscrowHandler{}

func (h FulfillEscrowHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{GasAllocated: fulfillEscrowCost}, nil
}

// Deliver pays the maker, gives the vault to the taker and destroys the
// escrow. Reserves go to the maker.
func (h FulfillEscrowHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.bank.Transfer(db, msg.TakerB, msg.MakerB, escrow.Receive); err != nil {
		return nil, errors.Wrap(err, "payment")
	}
	if err := drain(db, h.bank, msg.Vault, msg.TakerA); err != nil {
		return nil, err
	}
	if err := destroy(db, h.bucket, h.bank, msg.Escrow, msg.Vault, escrow); err != nil {
		return nil, err
	}

	bazaar.GetLogger(ctx).Info("escrow fulfilled",
		"escrow", msg.Escrow, "maker", escrow.Maker, "taker", msg.Taker)
	return &bazaar.DeliverResult{
		Tags: []bazaar.Tag{{Key: "escrow", Value: msg.Escrow.String()}},
	}, nil
}

func (h FulfillEscrowHandler) validate(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*FulfillMsg, *Escrow, error) {
	var msg FulfillMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := h.bucket.Get(db, msg.Escrow)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot load escrow from the store")
	}
	if !h.auth.HasAddress(ctx, msg.Taker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "taker signature required")
	}
	if err := verifyAddresses(escrow, msg.Escrow, msg.Vault); err != nil {
		return nil, nil, err
	}
	if _, err := h.bank.Get(db, msg.Vault); err != nil {
		return nil, nil, errors.Wrap(err, "vault")
	}

	makerB, err := h.bank.Get(db, msg.MakerB)
	if err != nil {
		return nil, nil, errors.Wrap(err, "maker b")
	}
	if makerB.Asset != escrow.AssetB {
		return nil, nil, errors.Wrapf(errors.ErrAssetMismatch, "maker b holds %s", makerB.Asset)
	}
	if !makerB.Owner.Equals(escrow.Maker) {
		return nil, nil, errors.Wrap(errors.ErrAddressMismatch, "maker b is not owned by the maker")
	}

	takerA, err := h.bank.Get(db, msg.TakerA)
	if err != nil {
		return nil, nil, errors.Wrap(err, "taker a")
	}
	if takerA.Asset != escrow.AssetA {
		return nil, nil, errors.Wrapf(errors.ErrAssetMismatch, "taker a holds %s", takerA.Asset)
	}
	if !takerA.Owner.Equals(msg.Taker) {
		return nil, nil, errors.Wrap(errors.ErrAddressMismatch, "taker a is not owned by the taker")
	}

	takerB, err := h.bank.Get(db, msg.TakerB)
	if err != nil {
		return nil, nil, errors.Wrap(err, "taker b")
	}
	if takerB.Asset != escrow.AssetB {
		return nil, nil, errors.Wrapf(errors.ErrAssetMismatch, "taker b holds %s", takerB.Asset)
	}
	if !takerB.Owner.Equals(msg.Taker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "taker b is not owned by the taker")
	}
	return &msg, escrow, nil
}

// drain moves the whole vault balance to dst.
func drain(db bazaar.KVStore, bank cash.Controller, vault, dst bazaar.Address) error {
	acc, err := bank.Get(db, vault)
	if err != nil {
		return errors.Wrap(err, "vault")
	}
	if acc.Amount == 0 {
		return nil
	}
	return errors.Wrap(bank.Transfer(db, vault, dst, acc.Amount), "release vault")
}

// destroy closes the vault and deletes the record. Both reserves go to the
// maker.
func destroy(db bazaar.KVStore, bucket Bucket, bank cash.Controller, record, vault bazaar.Address, e *Escrow) error {
	if err := bank.Close(db, vault, e.Maker); err != nil {
		return errors.Wrap(err, "close vault")
	}
	if err := bucket.Delete(db, record); err != nil {
		return errors.Wrap(err, "delete escrow")
	}
	return errors.Wrap(bank.RefundReserve(db, e.Maker, e.Reserve), "record reserve")
}
