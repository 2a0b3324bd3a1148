package main

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/iov-one/bazaar/weavetest"
	"github.com/iov-one/bazaar/weavetest/assert"
	"github.com/iov-one/bazaar/x/cash"
	"github.com/iov-one/bazaar/x/escrow"
)

func TestCmdMakeEscrowHappyPath(t *testing.T) {
	maker := weavetest.NewAddress()

	var output bytes.Buffer
	args := []string{
		"-maker", maker.String(),
		"-asset-a", "AAA",
		"-asset-b", "BBB",
		"-salt", "42",
		"-deposit", "100",
		"-receive", "200",
	}
	if err := cmdMakeEscrow(nil, &output, args); err != nil {
		t.Fatalf("cannot create a new escrow transaction: %s", err)
	}

	tx, _, err := readTx(&output)
	if err != nil {
		t.Fatalf("cannot unmarshal created transaction: %s", err)
	}
	txmsg, err := tx.GetMsg()
	if err != nil {
		t.Fatalf("cannot get transaction message: %s", err)
	}
	msg := txmsg.(*escrow.CreateMsg)

	assert.Equal(t, maker, msg.Maker)
	assert.Equal(t, "AAA", msg.AssetA)
	assert.Equal(t, "BBB", msg.AssetB)
	assert.Equal(t, uint64(42), msg.Salt)
	assert.Equal(t, uint64(100), msg.Deposit)
	assert.Equal(t, uint64(200), msg.Receive)
}

func TestCmdMakeEscrowRejectsInvalidMessage(t *testing.T) {
	args := []string{
		"-maker", weavetest.NewAddress().String(),
		"-asset-a", "AAA",
		"-asset-b", "BBB",
		"-deposit", "0",
		"-receive", "200",
	}
	if err := cmdMakeEscrow(nil, &bytes.Buffer{}, args); err == nil {
		t.Fatal("zero deposit accepted")
	}
}

func TestCmdCancelEscrowHappyPath(t *testing.T) {
	maker := weavetest.NewAddress()

	var output bytes.Buffer
	args := []string{"-maker", maker.String(), "-asset-a", "AAA", "-salt", "3"}
	if err := cmdCancelEscrow(nil, &output, args); err != nil {
		t.Fatalf("cannot create a cancel transaction: %s", err)
	}
	tx, _, err := readTx(&output)
	if err != nil {
		t.Fatalf("cannot unmarshal created transaction: %s", err)
	}
	msg := tx.CancelEscrowMsg

	record, _, err := escrow.RecordAddress(maker, 3)
	assert.Nil(t, err)
	vault, err := escrow.VaultAddress(record, "AAA")
	assert.Nil(t, err)
	assert.Equal(t, maker, msg.Maker)
	assert.Equal(t, record, msg.Escrow)
	assert.Equal(t, vault, msg.Vault)
}

func TestCmdTakeEscrowHappyPath(t *testing.T) {
	maker := weavetest.NewAddress()
	taker := weavetest.NewAddress()

	var output bytes.Buffer
	args := []string{
		"-maker", maker.String(),
		"-taker", taker.String(),
		"-asset-a", "AAA",
		"-asset-b", "BBB",
		"-salt", "3",
	}
	if err := cmdTakeEscrow(nil, &output, args); err != nil {
		t.Fatalf("cannot create a fulfill transaction: %s", err)
	}
	tx, _, err := readTx(&output)
	if err != nil {
		t.Fatalf("cannot unmarshal created transaction: %s", err)
	}
	msg := tx.FulfillEscrowMsg

	account := func(owner []byte, asset string) []byte {
		addr, _, err := cash.AccountAddress(owner, asset)
		assert.Nil(t, err)
		return addr
	}
	assert.Equal(t, taker, msg.Taker)
	assert.Equal(t, account(maker, "BBB"), []byte(msg.MakerB))
	assert.Equal(t, account(taker, "AAA"), []byte(msg.TakerA))
	assert.Equal(t, account(taker, "BBB"), []byte(msg.TakerB))
}

func TestCmdDerive(t *testing.T) {
	maker := weavetest.NewAddress()

	var output bytes.Buffer
	args := []string{"-maker", maker.String(), "-asset-a", "AAA", "-salt", "9"}
	if err := cmdDerive(nil, &output, args); err != nil {
		t.Fatalf("cannot derive: %s", err)
	}
	record, bump, err := escrow.RecordAddress(maker, 9)
	assert.Nil(t, err)
	vault, err := escrow.VaultAddress(record, "AAA")
	assert.Nil(t, err)

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	assert.Equal(t, []string{
		"escrow\t" + record.String(),
		"bump\t" + itoa(bump),
		"vault\t" + vault.String(),
	}, lines)
}

func itoa(n uint8) string {
	return strconv.Itoa(int(n))
}
