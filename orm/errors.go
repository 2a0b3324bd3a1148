package orm

import (
	"github.com/iov-one/bazaar/errors"
)

// Orm reserves 100~109 error codes

var (
	// ErrInvalidIndex is returned when an index specified is invalid
	ErrInvalidIndex = errors.Register(100, "invalid index")
	// ErrUniqueConstraint is returned when a unique index already points
	// at another entity.
	ErrUniqueConstraint = errors.Register(101, "duplicate unique index value")
)
