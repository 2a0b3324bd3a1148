package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/iov-one/bazaar/app"
	"github.com/iov-one/bazaar/store/iavl"
)

// node is the application opened on the state stored in a home directory.
type node struct {
	*app.BaseApp
	store  iavl.CommitStore
	logs   io.Closer
	closed bool
}

// openNode loads the configuration and the state from the home directory.
// Close must be called to release the database.
func openNode(home string) (*node, error) {
	conf, err := loadConfig(home)
	if err != nil {
		return nil, err
	}
	logger, logs, err := conf.logger(home)
	if err != nil {
		return nil, err
	}
	dir := conf.dbDir(home)
	if err := os.MkdirAll(dir, 0700); err != nil {
		logs.Close()
		return nil, fmt.Errorf("cannot create database directory: %s", err)
	}
	store, err := iavl.NewCommitStore(dir, "state")
	if err != nil {
		logs.Close()
		return nil, err
	}
	a, err := app.New(store, app.Options{Logger: logger, Debug: conf.Debug})
	if err != nil {
		store.Close()
		logs.Close()
		return nil, err
	}
	return &node{BaseApp: a, store: store, logs: logs}, nil
}

// submit delivers the transaction in a new block and commits it.
func (n *node) submit(raw []byte) (app.TxResult, error) {
	_, info, err := n.Info()
	if err != nil {
		return app.TxResult{}, err
	}
	if err := n.BeginBlock(info.Version+1, time.Now()); err != nil {
		return app.TxResult{}, err
	}
	res := n.DeliverTx(raw)
	if _, err := n.Commit(); err != nil {
		return res, fmt.Errorf("cannot commit: %s", err)
	}
	return res, nil
}

// Close releases the database and the log file.
func (n *node) Close() error {
	if n.closed {
		return nil
	}
	n.closed = true
	n.store.Close()
	return n.logs.Close()
}
