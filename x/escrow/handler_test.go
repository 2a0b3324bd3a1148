package escrow

import (
	"context"
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
	"github.com/iov-one/bazaar/weavetest"
	"github.com/iov-one/bazaar/weavetest/assert"
	"github.com/iov-one/bazaar/x/cash"
)

const (
	native         = "NAT"
	assetA         = "ETH"
	assetB         = "BTC"
	accountReserve = 2
	recordReserve  = 3
)

type registry map[string]bazaar.Handler

func (r registry) Handle(m bazaar.Msg, h bazaar.Handler) { r[m.Path()] = h }

// fixture is a chain state with two funded parties.
type fixture struct {
	db    bazaar.CacheableKVStore
	ctrl  cash.BaseController
	auth  *weavetest.CtxAuth
	r     registry
	maker bazaar.Address
	taker bazaar.Address
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	db := store.MemStore()
	assert.Nil(t, cash.SaveConf(db, &cash.Configuration{
		Metadata:       &bazaar.Metadata{Schema: 1},
		NativeAsset:    native,
		AccountReserve: accountReserve,
	}))
	assert.Nil(t, SaveConf(db, &Configuration{
		Metadata:      &bazaar.Metadata{Schema: 1},
		RecordReserve: recordReserve,
	}))

	f := &fixture{
		db:    db,
		ctrl:  cash.NewController(cash.NewBucket()),
		auth:  &weavetest.CtxAuth{Key: "escrow"},
		r:     registry{},
		maker: weavetest.NewAddress(),
		taker: weavetest.NewAddress(),
	}
	RegisterRoutes(f.r, f.auth, f.ctrl)

	f.mint(t, f.maker, native, 100)
	f.mint(t, f.maker, assetA, 500)
	f.mint(t, f.maker, assetB, 0)
	f.mint(t, f.taker, native, 100)
	f.mint(t, f.taker, assetA, 0)
	f.mint(t, f.taker, assetB, 1000)
	return f
}

func (f *fixture) mint(t testing.TB, owner bazaar.Address, asset string, amount uint64) bazaar.Address {
	t.Helper()
	addr, err := f.ctrl.Mint(f.db, owner, asset, amount)
	assert.Nil(t, err)
	return addr
}

func (f *fixture) account(t testing.TB, owner bazaar.Address, asset string) bazaar.Address {
	t.Helper()
	addr, _, err := cash.AccountAddress(owner, asset)
	assert.Nil(t, err)
	return addr
}

func (f *fixture) balance(t testing.TB, owner bazaar.Address, asset string) uint64 {
	t.Helper()
	b, err := f.ctrl.Balance(f.db, owner, asset)
	if errors.ErrNotFound.Is(err) {
		return 0
	}
	assert.Nil(t, err)
	return b
}

// deliver runs the message within a cache wrap that is written only on
// success, the same way the application savepoint does.
func (f *fixture) deliver(t testing.TB, msg bazaar.Msg, signers ...bazaar.Address) (*bazaar.DeliverResult, error) {
	t.Helper()
	ctx := f.auth.SetSigners(context.Background(), signers...)
	tx := &weavetest.Tx{Msg: msg}
	cache := f.db.CacheWrap()
	h := f.r[msg.Path()]
	if _, err := h.Check(ctx, cache, tx); err != nil {
		cache.Discard()
		return nil, err
	}
	res, err := h.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	assert.Nil(t, cache.Write())
	return res, nil
}

func (f *fixture) create(t testing.TB, salt, deposit, receive uint64) (bazaar.Address, bazaar.Address) {
	t.Helper()
	res, err := f.deliver(t, createMsg(f.maker, salt, deposit, receive), f.maker)
	assert.Nil(t, err)
	record := bazaar.Address(res.Data)
	vault, err := VaultAddress(record, assetA)
	assert.Nil(t, err)
	return record, vault
}

func (f *fixture) fulfillMsg(t testing.TB, record, vault bazaar.Address) *FulfillMsg {
	return &FulfillMsg{
		Metadata: &bazaar.Metadata{Schema: 1},
		Taker:    f.taker,
		Escrow:   record,
		Vault:    vault,
		MakerB:   f.account(t, f.maker, assetB),
		TakerA:   f.account(t, f.taker, assetA),
		TakerB:   f.account(t, f.taker, assetB),
	}
}

func createMsg(maker bazaar.Address, salt, deposit, receive uint64) *CreateMsg {
	return &CreateMsg{
		Metadata: &bazaar.Metadata{Schema: 1},
		Maker:    maker,
		AssetA:   assetA,
		AssetB:   assetB,
		Salt:     salt,
		Deposit:  deposit,
		Receive:  receive,
	}
}

func TestCreateEscrow(t *testing.T) {
	f := newFixture(t)
	record, vault := f.create(t, 1, 100, 200)

	wantRecord, bump, err := RecordAddress(f.maker, 1)
	assert.Nil(t, err)
	assert.Equal(t, wantRecord, record)

	e, err := NewBucket().Get(f.db, record)
	assert.Nil(t, err)
	assert.Equal(t, uint32(bump), e.Bump)
	assert.Equal(t, uint64(200), e.Receive)
	assert.Equal(t, uint64(recordReserve), e.Reserve)

	v, err := f.ctrl.Get(f.db, vault)
	assert.Nil(t, err)
	assert.Equal(t, record, v.Owner)
	assert.Equal(t, uint64(100), v.Amount)
	assert.Equal(t, uint64(accountReserve), v.Reserve)

	assert.Equal(t, uint64(400), f.balance(t, f.maker, assetA))
	assert.Equal(t, uint64(100-recordReserve-accountReserve), f.balance(t, f.maker, native))

	addrs, records, err := NewBucket().ListByMaker(f.db, f.maker)
	assert.Nil(t, err)
	assert.Equal(t, []bazaar.Address{record}, addrs)
	assert.Equal(t, 1, len(records))
}

func TestCreateEscrowFailures(t *testing.T) {
	stranger := weavetest.NewAddress()

	cases := map[string]struct {
		prepare func(t testing.TB, f *fixture)
		msg     func(f *fixture) *CreateMsg
		signer  func(f *fixture) bazaar.Address
		wantErr *errors.Error
	}{
		"zero deposit": {
			msg:     func(f *fixture) *CreateMsg { return createMsg(f.maker, 1, 0, 10) },
			wantErr: errors.ErrInvalidAmount,
		},
		"zero receive": {
			msg:     func(f *fixture) *CreateMsg { return createMsg(f.maker, 1, 10, 0) },
			wantErr: errors.ErrInvalidAmount,
		},
		"maker did not sign": {
			msg:     func(f *fixture) *CreateMsg { return createMsg(f.maker, 1, 10, 10) },
			signer:  func(*fixture) bazaar.Address { return stranger },
			wantErr: errors.ErrUnauthorized,
		},
		"salt already used": {
			prepare: func(t testing.TB, f *fixture) { f.create(t, 1, 10, 10) },
			msg:     func(f *fixture) *CreateMsg { return createMsg(f.maker, 1, 10, 10) },
			wantErr: errors.ErrAddressCollision,
		},
		"vault address holds funds": {
			prepare: func(t testing.TB, f *fixture) {
				record, _, err := RecordAddress(f.maker, 1)
				assert.Nil(t, err)
				f.mint(t, record, assetA, 1)
			},
			msg:     func(f *fixture) *CreateMsg { return createMsg(f.maker, 1, 10, 10) },
			wantErr: errors.ErrAddressCollision,
		},
		"deposit above balance": {
			msg:     func(f *fixture) *CreateMsg { return createMsg(f.maker, 1, 501, 10) },
			wantErr: errors.ErrInsufficientFunds,
		},
		"no account of asset a": {
			msg: func(f *fixture) *CreateMsg {
				m := createMsg(f.maker, 1, 10, 10)
				m.AssetA = "XRP"
				return m
			},
			wantErr: errors.ErrInsufficientFunds,
		},
		"cannot pay reserves": {
			prepare: func(t testing.TB, f *fixture) {
				sink := f.mint(t, stranger, native, 0)
				err := f.ctrl.Transfer(f.db, f.account(t, f.maker, native), sink, 96)
				assert.Nil(t, err)
			},
			msg:     func(f *fixture) *CreateMsg { return createMsg(f.maker, 1, 10, 10) },
			wantErr: errors.ErrInsufficientFunds,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			if tc.prepare != nil {
				tc.prepare(t, f)
			}
			signer := f.maker
			if tc.signer != nil {
				signer = tc.signer(f)
			}
			makerA := f.balance(t, f.maker, assetA)
			makerNative := f.balance(t, f.maker, native)
			before, _, err := NewBucket().ListByMaker(f.db, f.maker)
			assert.Nil(t, err)

			_, err = f.deliver(t, tc.msg(f), signer)
			assert.IsErr(t, tc.wantErr, err)

			// nothing changed
			assert.Equal(t, makerA, f.balance(t, f.maker, assetA))
			assert.Equal(t, makerNative, f.balance(t, f.maker, native))
			after, _, err := NewBucket().ListByMaker(f.db, f.maker)
			assert.Nil(t, err)
			assert.Equal(t, len(before), len(after))
		})
	}
}

func TestCancelEscrow(t *testing.T) {
	f := newFixture(t)
	makerA := f.balance(t, f.maker, assetA)
	makerNative := f.balance(t, f.maker, native)

	record, vault := f.create(t, 7, 100, 200)
	_, err := f.deliver(t, &CancelMsg{
		Metadata: &bazaar.Metadata{Schema: 1},
		Maker:    f.maker,
		Escrow:   record,
		Vault:    vault,
	}, f.maker)
	assert.Nil(t, err)

	assert.Equal(t, makerA, f.balance(t, f.maker, assetA))
	assert.Equal(t, makerNative, f.balance(t, f.maker, native))

	_, err = NewBucket().Get(f.db, record)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = f.ctrl.Get(f.db, vault)
	assert.IsErr(t, errors.ErrNotFound, err)

	// the salt can be used again
	again, _ := f.create(t, 7, 50, 10)
	assert.Equal(t, record, again)
}

func TestCancelEscrowFailures(t *testing.T) {
	cases := map[string]struct {
		msg     func(f *fixture, record, vault bazaar.Address) *CancelMsg
		signer  func(f *fixture) bazaar.Address
		prepare func(t testing.TB, f *fixture)
		wantErr *errors.Error
	}{
		"unknown escrow": {
			msg: func(f *fixture, record, vault bazaar.Address) *CancelMsg {
				other, _, _ := RecordAddress(f.maker, 99)
				return cancelMsg(f.maker, other, vault)
			},
			wantErr: errors.ErrNotFound,
		},
		"not the maker": {
			msg: func(f *fixture, record, vault bazaar.Address) *CancelMsg {
				return cancelMsg(f.taker, record, vault)
			},
			signer:  func(f *fixture) bazaar.Address { return f.taker },
			wantErr: errors.ErrUnauthorized,
		},
		"maker did not sign": {
			msg: func(f *fixture, record, vault bazaar.Address) *CancelMsg {
				return cancelMsg(f.maker, record, vault)
			},
			signer:  func(f *fixture) bazaar.Address { return f.taker },
			wantErr: errors.ErrUnauthorized,
		},
		"wrong vault": {
			msg: func(f *fixture, record, vault bazaar.Address) *CancelMsg {
				return cancelMsg(f.maker, record, f.account(t, f.maker, assetA))
			},
			wantErr: errors.ErrAddressMismatch,
		},
		"maker closed the account of asset a": {
			prepare: func(t testing.TB, f *fixture) {
				addr := f.account(t, f.maker, assetA)
				sink := f.mint(t, weavetest.NewAddress(), assetA, 0)
				bal := f.balance(t, f.maker, assetA)
				assert.Nil(t, f.ctrl.Transfer(f.db, addr, sink, bal))
				assert.Nil(t, f.ctrl.Close(f.db, addr, f.maker))
			},
			msg: func(f *fixture, record, vault bazaar.Address) *CancelMsg {
				return cancelMsg(f.maker, record, vault)
			},
			wantErr: errors.ErrNotFound,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			record, vault := f.create(t, 1, 100, 200)
			if tc.prepare != nil {
				tc.prepare(t, f)
			}
			signer := f.maker
			if tc.signer != nil {
				signer = tc.signer(f)
			}
			_, err := f.deliver(t, tc.msg(f, record, vault), signer)
			assert.IsErr(t, tc.wantErr, err)

			// escrow is still pending
			_, err = NewBucket().Get(f.db, record)
			assert.Nil(t, err)
			v, err := f.ctrl.Get(f.db, vault)
			assert.Nil(t, err)
			assert.Equal(t, uint64(100), v.Amount)
		})
	}
}

func cancelMsg(maker, record, vault bazaar.Address) *CancelMsg {
	return &CancelMsg{
		Metadata: &bazaar.Metadata{Schema: 1},
		Maker:    maker,
		Escrow:   record,
		Vault:    vault,
	}
}

func TestFulfillEscrow(t *testing.T) {
	f := newFixture(t)
	makerNative := f.balance(t, f.maker, native)
	takerNative := f.balance(t, f.taker, native)

	record, vault := f.create(t, 3, 100, 200)
	_, err := f.deliver(t, f.fulfillMsg(t, record, vault), f.taker)
	assert.Nil(t, err)

	assert.Equal(t, uint64(100), f.balance(t, f.taker, assetA))
	assert.Equal(t, uint64(800), f.balance(t, f.taker, assetB))
	assert.Equal(t, uint64(200), f.balance(t, f.maker, assetB))
	assert.Equal(t, uint64(400), f.balance(t, f.maker, assetA))

	// reserves went back to the maker, not to the taker
	assert.Equal(t, makerNative, f.balance(t, f.maker, native))
	assert.Equal(t, takerNative, f.balance(t, f.taker, native))

	_, err = NewBucket().Get(f.db, record)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = f.ctrl.Get(f.db, vault)
	assert.IsErr(t, errors.ErrNotFound, err)

	// a second fulfill or a cancel find nothing
	_, err = f.deliver(t, f.fulfillMsg(t, record, vault), f.taker)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = f.deliver(t, cancelMsg(f.maker, record, vault), f.maker)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestFulfillEscrowFailures(t *testing.T) {
	cases := map[string]struct {
		prepare func(t testing.TB, f *fixture)
		modify  func(t testing.TB, f *fixture, msg *FulfillMsg)
		signer  func(f *fixture) bazaar.Address
		wantErr *errors.Error
	}{
		"taker did not sign": {
			signer:  func(f *fixture) bazaar.Address { return f.maker },
			wantErr: errors.ErrUnauthorized,
		},
		"wrong escrow address": {
			modify: func(t testing.TB, f *fixture, msg *FulfillMsg) {
				msg.Escrow, _, _ = RecordAddress(f.taker, 1)
			},
			wantErr: errors.ErrNotFound,
		},
		"wrong vault address": {
			modify: func(t testing.TB, f *fixture, msg *FulfillMsg) {
				msg.Vault = f.account(t, f.taker, assetA)
			},
			wantErr: errors.ErrAddressMismatch,
		},
		"maker b holds another asset": {
			modify: func(t testing.TB, f *fixture, msg *FulfillMsg) {
				msg.MakerB = f.account(t, f.maker, assetA)
			},
			wantErr: errors.ErrAssetMismatch,
		},
		"maker b is not the maker's": {
			modify: func(t testing.TB, f *fixture, msg *FulfillMsg) {
				msg.MakerB = f.account(t, f.taker, assetB)
			},
			wantErr: errors.ErrAddressMismatch,
		},
		"maker b does not exist": {
			modify: func(t testing.TB, f *fixture, msg *FulfillMsg) {
				msg.MakerB = f.account(t, f.maker, "XRP")
			},
			wantErr: errors.ErrNotFound,
		},
		"taker a holds another asset": {
			modify: func(t testing.TB, f *fixture, msg *FulfillMsg) {
				msg.TakerA = f.account(t, f.taker, assetB)
			},
			wantErr: errors.ErrAssetMismatch,
		},
		"taker a is not the taker's": {
			modify: func(t testing.TB, f *fixture, msg *FulfillMsg) {
				msg.TakerA = f.account(t, f.maker, assetA)
			},
			wantErr: errors.ErrAddressMismatch,
		},
		"taker b is not the taker's": {
			modify: func(t testing.TB, f *fixture, msg *FulfillMsg) {
				msg.TakerB = f.account(t, f.maker, assetB)
			},
			wantErr: errors.ErrUnauthorized,
		},
		"taker b holds another asset": {
			modify: func(t testing.TB, f *fixture, msg *FulfillMsg) {
				msg.TakerB = f.account(t, f.taker, native)
			},
			wantErr: errors.ErrAssetMismatch,
		},
		"taker cannot pay": {
			prepare: func(t testing.TB, f *fixture) {
				sink := f.mint(t, weavetest.NewAddress(), assetB, 0)
				assert.Nil(t, f.ctrl.Transfer(f.db, f.account(t, f.taker, assetB), sink, 900))
			},
			wantErr: errors.ErrInsufficientFunds,
		},
		"taker a account was not opened": {
			prepare: func(t testing.TB, f *fixture) {
				assert.Nil(t, f.ctrl.Close(f.db, f.account(t, f.taker, assetA), f.taker))
			},
			wantErr: errors.ErrNotFound,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			record, vault := f.create(t, 1, 100, 200)
			if tc.prepare != nil {
				tc.prepare(t, f)
			}
			msg := f.fulfillMsg(t, record, vault)
			if tc.modify != nil {
				tc.modify(t, f, msg)
			}
			signer := f.taker
			if tc.signer != nil {
				signer = tc.signer(f)
			}
			takerB := f.balance(t, f.taker, assetB)

			_, err := f.deliver(t, msg, signer)
			assert.IsErr(t, tc.wantErr, err)

			// nothing moved
			assert.Equal(t, takerB, f.balance(t, f.taker, assetB))
			assert.Equal(t, uint64(0), f.balance(t, f.maker, assetB))
			v, err := f.ctrl.Get(f.db, vault)
			assert.Nil(t, err)
			assert.Equal(t, uint64(100), v.Amount)
			_, err = NewBucket().Get(f.db, record)
			assert.Nil(t, err)
		})
	}
}

func TestRecordIsNotMutatedByFulfillOfAnother(t *testing.T) {
	f := newFixture(t)
	r1, v1 := f.create(t, 1, 100, 200)
	r2, v2 := f.create(t, 2, 50, 20)
	assert.Equal(t, false, r1.Equals(r2))

	_, err := f.deliver(t, f.fulfillMsg(t, r2, v2), f.taker)
	assert.Nil(t, err)

	e, err := NewBucket().Get(f.db, r1)
	assert.Nil(t, err)
	assert.Equal(t, uint64(200), e.Receive)
	v, err := f.ctrl.Get(f.db, v1)
	assert.Nil(t, err)
	assert.Equal(t, uint64(100), v.Amount)
}

func TestVaultCannotBeTakenByOthers(t *testing.T) {
	f := newFixture(t)
	cash.RegisterRoutes(f.r, f.auth, f.ctrl)

	record, _, err := RecordAddress(f.maker, 7)
	assert.Nil(t, err)
	open := &cash.OpenAccountMsg{
		Metadata: &bazaar.Metadata{Schema: 1},
		Payer:    f.taker,
		Owner:    record,
		Asset:    assetA,
	}
	_, err = f.deliver(t, open, f.taker)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// the maker can still create, cancel and create again with the same salt
	record, vault := f.create(t, 7, 100, 200)
	_, err = f.deliver(t, cancelMsg(f.maker, record, vault), f.maker)
	assert.Nil(t, err)
	_, err = f.deliver(t, open, f.taker)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	f.create(t, 7, 100, 200)
}

func TestCreateReusesEmptyVault(t *testing.T) {
	f := newFixture(t)
	record, _, err := RecordAddress(f.maker, 3)
	assert.Nil(t, err)
	vault := f.mint(t, record, assetA, 0)

	makerNative := f.balance(t, f.maker, native)
	got, _ := f.create(t, 3, 100, 200)
	assert.Equal(t, record, got)

	acc, err := f.ctrl.Get(f.db, vault)
	assert.Nil(t, err)
	assert.Equal(t, uint64(100), acc.Amount)
	// only the record reserve is charged, the vault already exists
	assert.Equal(t, makerNative-recordReserve, f.balance(t, f.maker, native))

	_, err = f.deliver(t, cancelMsg(f.maker, record, vault), f.maker)
	assert.Nil(t, err)
	assert.Equal(t, makerNative, f.balance(t, f.maker, native))
	assert.Equal(t, uint64(500), f.balance(t, f.maker, assetA))
}
