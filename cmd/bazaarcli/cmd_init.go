package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iov-one/bazaar/app"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize the node home directory from a genesis file.

A default config.toml is written unless one exists. The state is initialized
with the accounts and configuration of the genesis and committed. A node can
be initialized only once.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl = fl.String("home", defaultHome(),
			"Node home directory. You can use BAZAAR_HOME environment variable to set it.")
		genesisFl = fl.String("genesis", "", "Path to the genesis JSON file.")
	)
	fl.Parse(args)

	if *genesisFl == "" {
		return fmt.Errorf("genesis file is required")
	}
	genesis, err := app.LoadGenesis(*genesisFl)
	if err != nil {
		return fmt.Errorf("cannot load genesis: %s", err)
	}

	if err := os.MkdirAll(*homeFl, 0700); err != nil {
		return fmt.Errorf("cannot create home directory: %s", err)
	}
	if err := writeConfig(*homeFl, DefaultConfig()); err != nil {
		return err
	}

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	if err := n.InitFromGenesis(genesis); err != nil {
		return fmt.Errorf("cannot initialize state: %s", err)
	}
	if _, err := n.Commit(); err != nil {
		return fmt.Errorf("cannot commit: %s", err)
	}
	fmt.Fprintf(output, "initialized chain %s in %s\n", genesis.ChainID, *homeFl)
	return n.Close()
}
