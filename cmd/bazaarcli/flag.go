package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iov-one/bazaar"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *bazaar.Address {
	var a bazaar.Address
	if defaultVal != "" {
		var err error
		a, err = bazaar.ParseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q bazaar.Address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var((*flagAddress)(&a), name, usage)
	return &a
}

// flagAddress implements flag.Value for an address in any text form
// understood by bazaar.ParseAddress.
type flagAddress bazaar.Address

func (a *flagAddress) String() string {
	if a == nil {
		return ""
	}
	return bazaar.Address(*a).String()
}

func (a *flagAddress) Set(raw string) error {
	addr, err := bazaar.ParseAddress(raw)
	if err != nil {
		return err
	}
	*a = flagAddress(addr)
	return nil
}
