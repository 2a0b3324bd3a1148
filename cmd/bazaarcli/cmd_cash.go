package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/x/cash"
)

func cmdOpenAccount(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that opens a holding account for an owner and an asset.
The payer is charged the account reserve.
`)
		fl.PrintDefaults()
	}
	var (
		payerFl = flAddress(fl, "payer", "", "Address paying the account reserve. Defaults to the owner.")
		ownerFl = flAddress(fl, "owner", "", "Owner of the new account.")
		assetFl = fl.String("asset", "", "Asset held by the account.")
	)
	fl.Parse(args)

	payer := *payerFl
	if len(payer) == 0 {
		payer = *ownerFl
	}
	msg := &cash.OpenAccountMsg{
		Metadata: &bazaar.Metadata{Schema: 1},
		Payer:    payer,
		Owner:    *ownerFl,
		Asset:    *assetFl,
	}
	return writeMsg(output, msg)
}

func cmdSend(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that moves an amount of an asset between the holding
accounts of two owners.
`)
		fl.PrintDefaults()
	}
	var (
		fromFl   = flAddress(fl, "from", "", "Owner of the source account.")
		toFl     = flAddress(fl, "to", "", "Owner of the destination account.")
		assetFl  = fl.String("asset", "", "Asset to send.")
		amountFl = fl.Uint64("amount", 0, "Amount to send.")
		memoFl   = fl.String("memo", "", "Optional memo.")
	)
	fl.Parse(args)

	src, _, err := cash.AccountAddress(*fromFl, *assetFl)
	if err != nil {
		return fmt.Errorf("cannot derive source account: %s", err)
	}
	dst, _, err := cash.AccountAddress(*toFl, *assetFl)
	if err != nil {
		return fmt.Errorf("cannot derive destination account: %s", err)
	}
	msg := &cash.SendMsg{
		Metadata:    &bazaar.Metadata{Schema: 1},
		Source:      src,
		Destination: dst,
		Amount:      *amountFl,
		Memo:        *memoFl,
	}
	return writeMsg(output, msg)
}
