package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/weavetest/assert"
)

func TestKeygen(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	keyPath := filepath.Join(dir, "key")

	if err := cmdKeygen(nil, ioutil.Discard, []string{"-key", keyPath}); err != nil {
		t.Fatalf("cannot generate key: %s", err)
	}
	fi, err := os.Stat(keyPath)
	assert.Nil(t, err)
	assert.Equal(t, os.FileMode(0600), fi.Mode().Perm())

	// a key file is never overwritten
	if err := cmdKeygen(nil, ioutil.Discard, []string{"-key", keyPath}); err == nil {
		t.Fatal("existing key file was overwritten")
	}

	var out bytes.Buffer
	if err := cmdKeyaddr(nil, &out, []string{"-key", keyPath}); err != nil {
		t.Fatalf("cannot print address: %s", err)
	}
	addr, err := bazaar.ParseAddress(strings.TrimSpace(out.String()))
	assert.Nil(t, err)

	key, err := decodePrivateKey(keyPath)
	assert.Nil(t, err)
	assert.Equal(t, key.PublicKey().Address(), addr)
}

func TestDecodeBrokenKey(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	keyPath := filepath.Join(dir, "key")
	assert.Nil(t, ioutil.WriteFile(keyPath, []byte("too short"), 0600))

	if _, err := decodePrivateKey(keyPath); err == nil {
		t.Fatal("broken key accepted")
	}
}

func tempDir(t testing.TB) (string, func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "bazaarcli")
	if err != nil {
		t.Fatalf("cannot create temporary directory: %s", err)
	}
	return dir, func() { os.RemoveAll(dir) }
}
