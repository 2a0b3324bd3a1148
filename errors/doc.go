/*
Package errors implements the error values shared by all bazaar extensions.

Every failure returned to a client wraps one of the root errors registered in
this package. Root errors carry a numeric code that is stable across releases
and is what a client should switch on:

	if errors.ErrNotFound.Is(err) {
		// the escrow was already settled or never existed
	}

Use Wrap or Wrapf at the point where the failure is detected to attach a
stacktrace and a short human readable description. Only the innermost wrap
records the stacktrace.

Format an error with %+v to print the stacktrace, with %s to print only the
message chain.

Extensions that need a root error not declared here may call Register from
an init function. Codes must be unique, reusing one panics.
*/
package errors
