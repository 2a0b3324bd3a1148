package utils

import (
	"github.com/iov-one/bazaar"
)

// ActionKey is used by ActionTagger as the Key in the Tag it appends
const ActionKey = "action"

// ActionTagger will inspect the message being executed and add a tag
// `action = msg.Path()`, so clients have a standard way to search for eg.
// fulfilled escrows.
type ActionTagger struct{}

var _ bazaar.Decorator = ActionTagger{}

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along
func (ActionTagger) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx, next bazaar.Checker) (*bazaar.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends a tag on the result if there is a success.
func (ActionTagger) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx, next bazaar.Deliverer) (*bazaar.DeliverResult, error) {
	// if we error in reporting, let's do so early before dispatching
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, bazaar.Tag{Key: ActionKey, Value: msg.Path()})
	return res, nil
}
