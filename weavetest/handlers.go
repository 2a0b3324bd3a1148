package weavetest

import "github.com/iov-one/bazaar"

// Handler is a mock implementation of the bazaar.Handler interface that
// counts calls and returns preset results.
type Handler struct {
	checkCall   int
	CheckResult bazaar.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult bazaar.DeliverResult
	DeliverErr    error

	// Write, if set, is stored in the database on every call, before the
	// error is returned. It lets tests see if a failed call was rolled
	// back.
	Write *bazaar.Model

	// Panic, if set, is raised instead of returning.
	Panic interface{}
}

var _ bazaar.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	h.checkCall++
	if err := h.act(db); err != nil {
		return nil, err
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	h.deliverCall++
	if err := h.act(db); err != nil {
		return nil, err
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) act(db bazaar.KVStore) error {
	if h.Write != nil {
		if err := db.Set(h.Write.Key, h.Write.Value); err != nil {
			return err
		}
	}
	if h.Panic != nil {
		panic(h.Panic)
	}
	return nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
