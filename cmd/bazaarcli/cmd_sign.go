package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/bazaar/x/sigs"
)

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign given transaction. This is decoding a transaction data from standard
input, adds a signature and writes back to standard output signed transaction
content.

The chain id and the next sequence of the signer are read from the node
state.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl = fl.String("home", defaultHome(),
			"Node home directory. You can use BAZAAR_HOME environment variable to set it.")
		keyPathFl = fl.String("key", defaultKeyPath(),
			"Path to the private key file that transaction should be signed with. You can use BAZAAR_PRIV_KEY environment variable to set it.")
	)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return fmt.Errorf("cannot load private key: %s", err)
	}

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	chainID := n.GetChainID()
	if chainID == "" {
		return fmt.Errorf("node in %q is not initialized", *homeFl)
	}
	seq, err := sigs.NextSequence(n.DeliverStore(), key.PublicKey())
	if err != nil {
		return fmt.Errorf("cannot get the next sequence number: %s", err)
	}
	// signatures already attached are not counted by the state yet
	for _, s := range tx.Signatures {
		if s.Pubkey != nil && s.Pubkey.Address().Equals(key.PublicKey().Address()) {
			return fmt.Errorf("transaction already signed with this key")
		}
	}
	sig, err := sigs.SignTx(key, tx, chainID, seq)
	if err != nil {
		return fmt.Errorf("cannot sign transaction: %s", err)
	}
	tx.Signatures = append(tx.Signatures, sig)

	if _, err := writeTx(output, tx); err != nil {
		return fmt.Errorf("cannot write transaction: %s", err)
	}
	return n.Close()
}
