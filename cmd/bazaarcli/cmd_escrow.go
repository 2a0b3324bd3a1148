package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/escrow"
)

func cmdMakeEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that opens a new escrow.

The maker deposits an amount of asset A and asks for an amount of asset B in
return. The escrow address is derived from the maker and the salt, so one
salt can be used for one open escrow at a time.
`)
		fl.PrintDefaults()
	}
	var (
		makerFl   = flAddress(fl, "maker", "", "Address of the escrow maker.")
		assetAFl  = fl.String("asset-a", "", "Asset deposited by the maker.")
		assetBFl  = fl.String("asset-b", "", "Asset requested by the maker.")
		saltFl    = fl.Uint64("salt", 0, "Salt used to derive the escrow address.")
		depositFl = fl.Uint64("deposit", 0, "Amount of asset A deposited.")
		receiveFl = fl.Uint64("receive", 0, "Amount of asset B requested.")
	)
	fl.Parse(args)

	msg := &escrow.CreateMsg{
		Metadata: &bazaar.Metadata{Schema: 1},
		Maker:    *makerFl,
		AssetA:   *assetAFl,
		AssetB:   *assetBFl,
		Salt:     *saltFl,
		Deposit:  *depositFl,
		Receive:  *receiveFl,
	}
	return writeMsg(output, msg)
}

func cmdCancelEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that cancels an escrow and returns the deposit to the
maker. Escrow and vault addresses are derived from the maker, the salt and
asset A.
`)
		fl.PrintDefaults()
	}
	var (
		makerFl  = flAddress(fl, "maker", "", "Address of the escrow maker.")
		assetAFl = fl.String("asset-a", "", "Asset deposited by the maker.")
		saltFl   = fl.Uint64("salt", 0, "Salt the escrow was created with.")
	)
	fl.Parse(args)

	record, vault, err := escrowAddresses(*makerFl, *saltFl, *assetAFl)
	if err != nil {
		return err
	}
	msg := &escrow.CancelMsg{
		Metadata: &bazaar.Metadata{Schema: 1},
		Maker:    *makerFl,
		Escrow:   record,
		Vault:    vault,
	}
	return writeMsg(output, msg)
}

func cmdTakeEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction that fulfills an escrow. The taker pays the requested
amount of asset B to the maker and receives the deposit of asset A.

All holding accounts are derived from their owners and assets. The taker
account of asset A and the maker account of asset B must be open.
`)
		fl.PrintDefaults()
	}
	var (
		takerFl  = flAddress(fl, "taker", "", "Address of the taker.")
		makerFl  = flAddress(fl, "maker", "", "Address of the escrow maker.")
		assetAFl = fl.String("asset-a", "", "Asset deposited by the maker.")
		assetBFl = fl.String("asset-b", "", "Asset requested by the maker.")
		saltFl   = fl.Uint64("salt", 0, "Salt the escrow was created with.")
	)
	fl.Parse(args)

	record, vault, err := escrowAddresses(*makerFl, *saltFl, *assetAFl)
	if err != nil {
		return err
	}
	makerB, _, err := cash.AccountAddress(*makerFl, *assetBFl)
	if err != nil {
		return fmt.Errorf("cannot derive maker account: %s", err)
	}
	takerA, _, err := cash.AccountAddress(*takerFl, *assetAFl)
	if err != nil {
		return fmt.Errorf("cannot derive taker account: %s", err)
	}
	takerB, _, err := cash.AccountAddress(*takerFl, *assetBFl)
	if err != nil {
		return fmt.Errorf("cannot derive taker account: %s", err)
	}
	msg := &escrow.FulfillMsg{
		Metadata: &bazaar.Metadata{Schema: 1},
		Taker:    *takerFl,
		Escrow:   record,
		Vault:    vault,
		MakerB:   makerB,
		TakerA:   takerA,
		TakerB:   takerB,
	}
	return writeMsg(output, msg)
}

func cmdDerive(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the addresses derived for an escrow: the record with its bump seed and
the vault. With -owner, print the holding account of that owner and asset A
instead.
`)
		fl.PrintDefaults()
	}
	var (
		makerFl  = flAddress(fl, "maker", "", "Address of the escrow maker.")
		ownerFl  = flAddress(fl, "owner", "", "Owner of a holding account.")
		assetAFl = fl.String("asset-a", "", "Asset deposited by the maker, or held by the owner.")
		saltFl   = fl.Uint64("salt", 0, "Salt of the escrow.")
	)
	fl.Parse(args)

	if len(*ownerFl) != 0 {
		addr, bump, err := cash.AccountAddress(*ownerFl, *assetAFl)
		if err != nil {
			return fmt.Errorf("cannot derive account: %s", err)
		}
		_, err = fmt.Fprintf(output, "account\t%s\nbump\t%d\n", addr, bump)
		return err
	}

	record, bump, err := escrow.RecordAddress(*makerFl, *saltFl)
	if err != nil {
		return fmt.Errorf("cannot derive escrow: %s", err)
	}
	vault, err := escrow.VaultAddress(record, *assetAFl)
	if err != nil {
		return fmt.Errorf("cannot derive vault: %s", err)
	}
	_, err = fmt.Fprintf(output, "escrow\t%s\nbump\t%d\nvault\t%s\n", record, bump, vault)
	return err
}

func escrowAddresses(maker bazaar.Address, salt uint64, assetA string) (bazaar.Address, bazaar.Address, error) {
	record, _, err := escrow.RecordAddress(maker, salt)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot derive escrow: %s", err)
	}
	vault, err := escrow.VaultAddress(record, assetA)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot derive vault: %s", err)
	}
	return record, vault, nil
}

// writeMsg validates the message and writes it as a transaction.
func writeMsg(output io.Writer, msg bazaar.Msg) error {
	if err := msg.Validate(); err != nil {
		return fmt.Errorf("invalid message: %s", err)
	}
	tx, err := newTx(msg)
	if err != nil {
		return err
	}
	_, err = writeTx(output, tx)
	return err
}
