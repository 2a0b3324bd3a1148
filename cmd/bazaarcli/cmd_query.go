package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/orm"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/escrow"
	"github.com/iov-one/bazaar/x/sigs"
)

func cmdQuery(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Query the committed state and print every found entity as JSON, one per line.

Available paths are:
	/accounts         holding accounts by address
	/accounts/owner   holding accounts by owner
	/escrows          escrows by address
	/escrows/maker    escrows by maker
	/auth             signer sequences by address

Append "?prefix" to a path to list all entities with keys starting with the
given data. With an empty data this lists the whole bucket.
`)
		fl.PrintDefaults()
	}
	var (
		homeFl = fl.String("home", defaultHome(),
			"Node home directory. You can use BAZAAR_HOME environment variable to set it.")
		pathFl = fl.String("path", "/escrows?prefix", "Query path.")
		dataFl = flAddress(fl, "data", "", "Address used as the query data.")
	)
	fl.Parse(args)

	n, err := openNode(*homeFl)
	if err != nil {
		return err
	}
	defer n.Close()

	models, err := n.Query(*pathFl, *dataFl)
	if err != nil {
		return fmt.Errorf("cannot query: %s", err)
	}
	enc := json.NewEncoder(output)
	for _, m := range models {
		entity, err := decodeModel(*pathFl, m.Value)
		if err != nil {
			return err
		}
		if err := enc.Encode(queryResult{Key: hex.EncodeToString(m.Key), Value: entity}); err != nil {
			return fmt.Errorf("cannot write result: %s", err)
		}
	}
	return n.Close()
}

type queryResult struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// decodeModel unmarshals the raw value into the model kept under the
// queried path.
func decodeModel(path string, raw []byte) (interface{}, error) {
	bucket := strings.TrimPrefix(path, "/")
	bucket = strings.SplitN(bucket, "?", 2)[0]
	bucket = strings.SplitN(bucket, "/", 2)[0]

	var m orm.Model
	switch bucket {
	case "accounts":
		m = &cash.Account{}
	case "escrows":
		m = &escrow.Escrow{}
	case "auth":
		m = &sigs.UserData{}
	default:
		return hex.EncodeToString(raw), nil
	}
	if err := bazaar.Unmarshal(raw, m); err != nil {
		return nil, fmt.Errorf("cannot decode %T: %s", m, err)
	}
	return m, nil
}
