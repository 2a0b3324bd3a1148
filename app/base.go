package app

import (
	"sync"
	"time"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// BaseApp adds DeliverTx, CheckTx, and BeginBlock
// handlers to the storage and query functionality of StoreApp
type BaseApp struct {
	*StoreApp
	decoder bazaar.TxDecoder
	handler bazaar.Handler
	debug   bool

	// mu serializes every state changing call. Requests are processed
	// one at a time and no lock is held between requests.
	mu sync.Mutex
}

// NewBaseApp constructs a basic application
func NewBaseApp(
	store *StoreApp,
	decoder bazaar.TxDecoder,
	handler bazaar.Handler,
	debug bool,
) *BaseApp {
	return &BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// InitChain initializes the state from the genesis application state.
func (b *BaseApp) InitChain(chainID string, appState []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.StoreApp.InitChain(chainID, appState)
}

// BeginBlock starts a new block at the given height and time.
func (b *BaseApp) BeginBlock(height int64, now time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.StoreApp.BeginBlock(height, now)
}

// Commit persists all delivered transactions.
func (b *BaseApp) Commit() (bazaar.CommitID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.StoreApp.Commit()
}

// DeliverTx - called on all blocks to execute the transaction
func (b *BaseApp) DeliverTx(txBytes []byte) TxResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.loadTx(txBytes)
	if err != nil {
		return errorResult(err, b.debug)
	}
	if b.blockContext == nil {
		return errorResult(errors.Wrap(errors.ErrInvalidState, "no block started"), b.debug)
	}

	ctx := bazaar.WithLogInfo(b.blockContext, "call", "deliver_tx", "path", bazaar.GetPath(tx))
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return deliverResult(res, err, b.debug)
}

// CheckTx validates a transaction against the check state without
// changing the committed state.
func (b *BaseApp) CheckTx(txBytes []byte) TxResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.loadTx(txBytes)
	if err != nil {
		return errorResult(err, b.debug)
	}
	if b.chainID == "" {
		return errorResult(errors.Wrap(errors.ErrInvalidState, "chain not initialized"), b.debug)
	}

	ctx := b.blockContext
	if ctx == nil {
		ctx = b.baseContext
	}
	ctx = bazaar.WithLogInfo(ctx, "call", "check_tx", "path", bazaar.GetPath(tx))
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return checkResult(res, err, b.debug)
}

// loadTx calls the decoder, and capture any panics
func (b *BaseApp) loadTx(txBytes []byte) (tx bazaar.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}

// Query reads from the last committed state.
func (b *BaseApp) Query(path string, data []byte) ([]bazaar.Model, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.StoreApp.Query(path, data)
}
