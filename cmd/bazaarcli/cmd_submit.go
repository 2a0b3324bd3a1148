package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/bazaar"
)

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input and execute it against
the node state. The transaction is delivered in a new block which is then
committed.

For transactions returning data, for example the address of a created escrow,
the response is written out.

Make sure to collect enough signatures before submitting the transaction.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl = fl.String("home", defaultHome(),
			"Node home directory. You can use BAZAAR_HOME environment variable to set it.")
	)
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}
	raw, err := bazaar.Marshal(tx)
	if err != nil {
		return fmt.Errorf("cannot serialize transaction: %s", err)
	}

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	res, err := n.submit(raw)
	if err != nil {
		return err
	}
	if res.IsErr() {
		return fmt.Errorf("transaction failed with code %d: %s", res.Code, res.Log)
	}
	if len(res.Data) != 0 {
		fmt.Fprintln(output, bazaar.Address(res.Data))
	}
	return n.Close()
}
