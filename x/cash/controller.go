package cash

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/coin"
	"github.com/iov-one/bazaar/errors"
)

// Controller is the only way other extensions move funds between holding
// accounts. It performs no authentication, callers must authorize the
// owner of every account they spend from.
type Controller interface {
	// Get returns the account stored under addr, or ErrNotFound.
	Get(db bazaar.ReadOnlyKVStore, addr bazaar.Address) (*Account, error)

	// Balance returns the balance of the account of owner for asset.
	Balance(db bazaar.ReadOnlyKVStore, owner bazaar.Address, asset string) (uint64, error)

	// Open creates an empty account for owner and asset. The account
	// reserve is charged from the payer's native account.
	Open(db bazaar.KVStore, payer, owner bazaar.Address, asset string) (bazaar.Address, error)

	// Close deletes an empty account. Its reserve goes to the
	// beneficiary's native account.
	Close(db bazaar.KVStore, addr, beneficiary bazaar.Address) error

	// Transfer moves amount between two accounts of the same asset.
	Transfer(db bazaar.KVStore, src, dst bazaar.Address, amount uint64) error

	// Mint adds amount to the account of owner, opening it without a
	// reserve if needed.
	Mint(db bazaar.KVStore, owner bazaar.Address, asset string, amount uint64) (bazaar.Address, error)

	// ChargeReserve takes amount of the native asset from payer.
	ChargeReserve(db bazaar.KVStore, payer bazaar.Address, amount uint64) error

	// RefundReserve gives amount of the native asset to beneficiary.
	RefundReserve(db bazaar.KVStore, beneficiary bazaar.Address, amount uint64) error
}

// BaseController implements Controller on top of a Bucket.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller over the default bucket.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

func (c BaseController) Get(db bazaar.ReadOnlyKVStore, addr bazaar.Address) (*Account, error) {
	return c.bucket.Get(db, addr)
}

func (c BaseController) Balance(db bazaar.ReadOnlyKVStore, owner bazaar.Address, asset string) (uint64, error) {
	addr, _, err := AccountAddress(owner, asset)
	if err != nil {
		return 0, err
	}
	acc, err := c.bucket.Get(db, addr)
	if err != nil {
		return 0, err
	}
	return acc.Amount, nil
}

func (c BaseController) Open(db bazaar.KVStore, payer, owner bazaar.Address, asset string) (bazaar.Address, error) {
	if err := coin.ValidateAsset(asset); err != nil {
		return nil, err
	}
	addr, _, err := AccountAddress(owner, asset)
	if err != nil {
		return nil, err
	}
	switch ok, err := c.bucket.Has(db, addr); {
	case err != nil:
		return nil, err
	case ok:
		return nil, errors.Wrapf(errors.ErrAddressCollision, "account %s", addr)
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if err := c.ChargeReserve(db, payer, conf.AccountReserve); err != nil {
		return nil, errors.Wrap(err, "account reserve")
	}
	acc := &Account{
		Metadata: &bazaar.Metadata{Schema: 1},
		Owner:    owner,
		Asset:    asset,
		Reserve:  conf.AccountReserve,
	}
	if err := c.bucket.Put(db, addr, acc); err != nil {
		return nil, err
	}
	return addr, nil
}

func (c BaseController) Close(db bazaar.KVStore, addr, beneficiary bazaar.Address) error {
	acc, err := c.bucket.Get(db, addr)
	if err != nil {
		return err
	}
	if acc.Amount != 0 {
		return errors.Wrapf(errors.ErrInvalidState, "account %s holds %d", addr, acc.Amount)
	}
	if acc.Reserve > 0 {
		native, _, err := c.nativeAccount(db, beneficiary)
		if err != nil {
			return err
		}
		if native.Equals(addr) {
			return errors.Wrap(errors.ErrInvalidState, "reserve cannot be refunded to the closed account")
		}
	}
	if err := c.bucket.Delete(db, addr); err != nil {
		return err
	}
	return c.RefundReserve(db, beneficiary, acc.Reserve)
}

func (c BaseController) Transfer(db bazaar.KVStore, src, dst bazaar.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero transfer")
	}
	from, err := c.bucket.Get(db, src)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	to, err := c.bucket.Get(db, dst)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if from.Asset != to.Asset {
		return errors.Wrapf(errors.ErrAssetMismatch, "%s to %s", from.Asset, to.Asset)
	}
	if from.Amount, err = coin.Sub(from.Amount, amount); err != nil {
		return err
	}
	if src.Equals(dst) {
		return nil
	}
	if to.Amount, err = coin.Add(to.Amount, amount); err != nil {
		return err
	}
	if err := c.bucket.Put(db, src, from); err != nil {
		return err
	}
	return c.bucket.Put(db, dst, to)
}

func (c BaseController) Mint(db bazaar.KVStore, owner bazaar.Address, asset string, amount uint64) (bazaar.Address, error) {
	if err := coin.ValidateAsset(asset); err != nil {
		return nil, err
	}
	addr, _, err := AccountAddress(owner, asset)
	if err != nil {
		return nil, err
	}
	acc, err := c.getOrEmpty(db, addr, owner, asset)
	if err != nil {
		return nil, err
	}
	if acc.Amount, err = coin.Add(acc.Amount, amount); err != nil {
		return nil, err
	}
	if err := c.bucket.Put(db, addr, acc); err != nil {
		return nil, err
	}
	return addr, nil
}

func (c BaseController) ChargeReserve(db bazaar.KVStore, payer bazaar.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	addr, asset, err := c.nativeAccount(db, payer)
	if err != nil {
		return err
	}
	acc, err := c.bucket.Get(db, addr)
	switch {
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(errors.ErrInsufficientFunds, "no %s account", asset)
	case err != nil:
		return err
	}
	if acc.Amount, err = coin.Sub(acc.Amount, amount); err != nil {
		return err
	}
	return c.bucket.Put(db, addr, acc)
}

func (c BaseController) RefundReserve(db bazaar.KVStore, beneficiary bazaar.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	addr, asset, err := c.nativeAccount(db, beneficiary)
	if err != nil {
		return err
	}
	acc, err := c.getOrEmpty(db, addr, beneficiary, asset)
	if err != nil {
		return err
	}
	if acc.Amount, err = coin.Add(acc.Amount, amount); err != nil {
		return err
	}
	return c.bucket.Put(db, addr, acc)
}

// nativeAccount returns the address of the native asset account of owner.
func (c BaseController) nativeAccount(db bazaar.ReadOnlyKVStore, owner bazaar.Address) (bazaar.Address, string, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, "", err
	}
	addr, _, err := AccountAddress(owner, conf.NativeAsset)
	if err != nil {
		return nil, "", err
	}
	return addr, conf.NativeAsset, nil
}

func (c BaseController) getOrEmpty(db bazaar.ReadOnlyKVStore, addr, owner bazaar.Address, asset string) (*Account, error) {
	acc, err := c.bucket.Get(db, addr)
	switch {
	case err == nil:
		return acc, nil
	case errors.ErrNotFound.Is(err):
		return &Account{
			Metadata: &bazaar.Metadata{Schema: 1},
			Owner:    owner,
			Asset:    asset,
		}, nil
	default:
		return nil, err
	}
}
