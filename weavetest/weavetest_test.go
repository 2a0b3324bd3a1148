package weavetest

import (
	"context"
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
	"github.com/iov-one/bazaar/weavetest/assert"
)

func TestDecoratedHandler(t *testing.T) {
	db := store.MemStore()
	ctx := context.Background()

	h := &Handler{DeliverResult: bazaar.DeliverResult{Log: "done"}}
	d := &Decorator{}
	stack := Decorate(h, d)

	res, err := stack.Deliver(ctx, db, &Tx{})
	assert.Nil(t, err)
	assert.Equal(t, "done", res.Log)
	assert.Equal(t, 1, d.DeliverCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())

	d.CheckErr = errors.ErrUnauthorized
	_, err = stack.Check(ctx, db, &Tx{})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 0, h.CheckCallCount())
	assert.Equal(t, 2, d.CallCount())
}

func TestHandlerWrites(t *testing.T) {
	db := store.MemStore()
	h := &Handler{
		Write:      &bazaar.Model{Key: []byte("k"), Value: []byte("v")},
		DeliverErr: errors.ErrHuman,
	}
	_, err := h.Deliver(context.Background(), db, &Tx{})
	assert.IsErr(t, errors.ErrHuman, err)
	got, err := db.Get([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v"), got)

	h = &Handler{Panic: "boom"}
	assert.Panics(t, func() { _, _ = h.Check(context.Background(), db, &Tx{}) })
}

func TestCtxAuth(t *testing.T) {
	a, b := NewAddress(), NewAddress()
	auth := &CtxAuth{Key: "auth"}
	ctx := auth.SetSigners(context.Background(), a)
	assert.Equal(t, true, auth.HasAddress(ctx, a))
	assert.Equal(t, false, auth.HasAddress(ctx, b))
	assert.Equal(t, []bazaar.Address{a}, auth.GetSigners(ctx))

	other := &CtxAuth{Key: "other"}
	assert.Equal(t, false, other.HasAddress(ctx, a))
}
