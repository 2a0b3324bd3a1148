/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension keeps a single configuration object in the state, saved under
the "_c:<package name>" key. It is loaded from the "conf" section of the
genesis file and may be later updated by the configuration owner with a
patch message.
*/
package gconf
