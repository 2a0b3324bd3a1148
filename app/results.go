package app

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// TxResult is the outcome of checking or delivering one transaction.
type TxResult struct {
	// Code is zero on success, otherwise the code of the registered error.
	Code uint32
	// Log is the error message, redacted unless the application runs in
	// debug mode, or the handler log on success.
	Log  string
	Data []byte
	Tags []bazaar.Tag
	// GasAllocated is only set by checks.
	GasAllocated int64
	// Err is the unredacted error. It never leaves the process.
	Err error
}

// IsErr returns true if the transaction failed.
func (r TxResult) IsErr() bool {
	return r.Code != 0
}

// checkResult converts a check outcome into a TxResult.
func checkResult(res *bazaar.CheckResult, err error, debug bool) TxResult {
	if err != nil {
		return errorResult(err, debug)
	}
	return TxResult{
		Data:         res.Data,
		Log:          res.Log,
		GasAllocated: res.GasAllocated,
	}
}

// deliverResult converts a deliver outcome into a TxResult.
func deliverResult(res *bazaar.DeliverResult, err error, debug bool) TxResult {
	if err != nil {
		return errorResult(err, debug)
	}
	return TxResult{
		Data: res.Data,
		Log:  res.Log,
		Tags: res.Tags,
	}
}

func errorResult(err error, debug bool) TxResult {
	code, log := errors.ABCIInfo(err, debug)
	return TxResult{Code: code, Log: log, Err: err}
}
