package cash

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/gconf"
	"github.com/iov-one/bazaar/x"
)

const (
	sendTxCost  = 100
	openTxCost  = 200
	closeTxCost = 100
)

// RegisterQuery registers holding accounts under /accounts.
func RegisterQuery(qr bazaar.QueryRouter) {
	NewBucket().Register("accounts", qr)
}

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r bazaar.Registry, auth x.Authenticator, ctrl Controller) {
	bucket := NewBucket()
	r.Handle(&SendMsg{}, &sendHandler{auth: auth, ctrl: ctrl})
	r.Handle(&OpenAccountMsg{}, &openAccountHandler{auth: auth, ctrl: ctrl, bucket: bucket})
	r.Handle(&CloseAccountMsg{}, &closeAccountHandler{auth: auth, ctrl: ctrl})
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler(packageName, &Configuration{}, auth))
}

type sendHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ bazaar.Handler = (*sendHandler)(nil)

func (h *sendHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{GasAllocated: sendTxCost}, nil
}

func (h *sendHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Transfer(db, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	bazaar.GetLogger(ctx).Info("funds sent",
		"source", msg.Source, "destination", msg.Destination, "amount", msg.Amount)
	return &bazaar.DeliverResult{}, nil
}

func (h *sendHandler) validate(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	src, err := h.ctrl.Get(db, msg.Source)
	if err != nil {
		return nil, errors.Wrap(err, "source")
	}
	if !h.auth.HasAddress(ctx, src.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source owner signature required")
	}
	return &msg, nil
}

type openAccountHandler struct {
	auth   x.Authenticator
	ctrl   Controller
	bucket Bucket
}

var _ bazaar.Handler = (*openAccountHandler)(nil)

func (h *openAccountHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, _, err := AccountAddress(msg.Owner, msg.Asset)
	if err != nil {
		return nil, err
	}
	if ok, err := h.bucket.Has(db, addr); err != nil {
		return nil, err
	} else if ok {
		return nil, errors.Wrapf(errors.ErrAddressCollision, "account %s", addr)
	}
	return &bazaar.CheckResult{GasAllocated: openTxCost}, nil
}

func (h *openAccountHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr, err := h.ctrl.Open(db, msg.Payer, msg.Owner, msg.Asset)
	if err != nil {
		return nil, err
	}
	bazaar.GetLogger(ctx).Info("account opened",
		"account", addr, "owner", msg.Owner, "asset", msg.Asset)
	return &bazaar.DeliverResult{Data: addr}, nil
}

func (h *openAccountHandler) validate(ctx bazaar.Context, tx bazaar.Tx) (*OpenAccountMsg, error) {
	var msg OpenAccountMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Payer) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "payer signature required")
	}
	// Accounts of derived addresses are opened by the program that owns
	// them, never by a message.
	if !msg.Owner.IsOnCurve() {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "owner %s is a derived address", msg.Owner)
	}
	return &msg, nil
}

type closeAccountHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ bazaar.Handler = (*closeAccountHandler)(nil)

func (h *closeAccountHandler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	acc, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if acc.Amount != 0 {
		return nil, errors.Wrapf(errors.ErrInvalidState, "account holds %d", acc.Amount)
	}
	return &bazaar.CheckResult{GasAllocated: closeTxCost}, nil
}

func (h *closeAccountHandler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	acc, msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Close(db, msg.Account, acc.Owner); err != nil {
		return nil, err
	}
	bazaar.GetLogger(ctx).Info("account closed", "account", msg.Account)
	return &bazaar.DeliverResult{}, nil
}

func (h *closeAccountHandler) validate(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*Account, *CloseAccountMsg, error) {
	var msg CloseAccountMsg
	if err := bazaar.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	acc, err := h.ctrl.Get(db, msg.Account)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, acc.Owner) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	return acc, &msg, nil
}
