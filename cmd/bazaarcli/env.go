package main

import (
	"os"
	"path/filepath"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// defaultHome is the node directory used when BAZAAR_HOME is not set.
func defaultHome() string {
	return env("BAZAAR_HOME", filepath.Join(os.Getenv("HOME"), ".bazaar"))
}

// defaultKeyPath is the private key file used when BAZAAR_PRIV_KEY is not
// set.
func defaultKeyPath() string {
	return env("BAZAAR_PRIV_KEY", filepath.Join(os.Getenv("HOME"), ".bazaar.priv.key"))
}
