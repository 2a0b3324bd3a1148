package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp contains a data store and all info needed
// to perform queries and handshakes.
//
// It should be embedded in another struct for CheckTx,
// DeliverTx and initializing state from the genesis.
type StoreApp struct {
	logger log.Logger

	// name is what is returned from Info
	name string

	// Database state (committed, check, deliver....)
	store *CommitStore

	// Code to initialize from a genesis file
	initializer bazaar.Initializer

	// How to handle queries
	queryRouter bazaar.QueryRouter

	// chainID is loaded from db in initialization
	// saved once in parseGenesis
	chainID string

	// baseContext contains context info that is valid for
	// lifetime of this app (eg. chainID)
	baseContext bazaar.Context

	// blockContext contains context info that is valid for the
	// current block (eg. height, time), cleared on commit
	blockContext bazaar.Context
}

// NewStoreApp initializes this app into a ready state with some defaults
//
// panics if unable to properly load the state from the given store
func NewStoreApp(name string, store bazaar.CommitKVStore,
	queryRouter bazaar.QueryRouter, baseContext bazaar.Context) *StoreApp {
	s := &StoreApp{
		name: name,
		// note: panics if trouble initializing from store
		store:       mustNewCommitStore(store),
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	// load the chainID from the db
	chainID, err := loadChainID(s.store.committed.CacheWrap())
	if err != nil {
		panic(err)
	}
	s.chainID = chainID
	if s.chainID != "" {
		s.baseContext = bazaar.WithChainID(s.baseContext, s.chainID)
	}

	return s
}

func mustNewCommitStore(store bazaar.CommitKVStore) *CommitStore {
	cs, err := NewCommitStore(store)
	if err != nil {
		panic(err)
	}
	return cs
}

// GetChainID returns the current chainID
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit is used to set the init function we call
func (s *StoreApp) WithInit(init bazaar.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger sets the logger on the StoreApp and returns it,
// to make it easy to chain in constructors.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.baseContext = bazaar.WithLogger(s.baseContext, logger)
	return s
}

// Logger returns the application base logger
func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext returns the block context for public use
func (s *StoreApp) BlockContext() bazaar.Context {
	return s.blockContext
}

// DeliverStore is used to modify the blockchain state
func (s *StoreApp) DeliverStore() bazaar.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore is used to validate transactions against a scratch copy of
// the state
func (s *StoreApp) CheckStore() bazaar.CacheableKVStore {
	return s.store.CheckStore()
}

// Info returns the name of the application and the last committed state.
func (s *StoreApp) Info() (string, bazaar.CommitID, error) {
	info, err := s.store.CommitInfo()
	return s.name, info, err
}

// InitChain stores the chain id and initializes every extension from the
// JSON encoded application state. It can be called only once.
func (s *StoreApp) InitChain(chainID string, appState []byte) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrUnauthorized, "chain %q already initialized", s.chainID)
	}
	if s.initializer == nil {
		return errors.Wrap(errors.ErrHuman, "no initializer")
	}
	var opts bazaar.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "app state: %s", err)
	}

	// Initialize everything in one cache wrap, so a broken genesis leaves
	// nothing behind.
	cache := s.DeliverStore().CacheWrap()
	if err := saveChainID(cache, chainID); err != nil {
		cache.Discard()
		return err
	}
	if err := s.initializer.FromGenesis(opts, cache); err != nil {
		cache.Discard()
		return errors.Wrap(err, "genesis")
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write genesis state")
	}

	s.chainID = chainID
	s.baseContext = bazaar.WithChainID(s.baseContext, chainID)
	s.logger.Info("Chain initialized", "chainID", chainID)
	return nil
}

// BeginBlock sets the height and time used by all transactions until the
// next Commit.
func (s *StoreApp) BeginBlock(height int64, now time.Time) error {
	if s.chainID == "" {
		return errors.Wrap(errors.ErrInvalidState, "chain not initialized")
	}
	ctx := bazaar.WithHeight(s.baseContext, height)
	ctx = bazaar.WithBlockTime(ctx, now.UTC())
	s.blockContext = ctx
	return nil
}

// Commit implements the persistence of the current block. The block
// context is cleared.
func (s *StoreApp) Commit() (bazaar.CommitID, error) {
	commitID, err := s.store.Commit()
	if err != nil {
		return commitID, errors.Wrap(err, "commit")
	}
	s.logger.Debug("Commit synced",
		"height", commitID.Version,
		"commit", fmt.Sprintf("%X", commitID.Hash),
	)
	s.blockContext = nil
	return commitID, nil
}

// Query runs a query against the last committed state. The path has the
// form "/escrows" or "/escrows?prefix".
func (s *StoreApp) Query(path string, data []byte) ([]bazaar.Model, error) {
	path, mod := splitPath(path)
	qh := s.queryRouter.Handler(path)
	if qh == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "no query handler for %q", path)
	}

	// a fresh read only view on the committed state
	view := s.store.committed.CacheWrap()
	defer view.Discard()
	models, err := qh.Query(view, mod, data)
	if err != nil {
		return nil, errors.Wrapf(err, "query %q", path)
	}
	return models, nil
}

// splitPath splits out the real path along with the query
// modifier (everything after the ?)
func splitPath(path string) (string, string) {
	var mod string
	chunks := strings.SplitN(path, "?", 2)
	if len(chunks) == 2 {
		path = chunks[0]
		mod = chunks[1]
	}
	return path, mod
}

// newContext is the default starting context of every application.
func newContext() bazaar.Context {
	return context.Background()
}
