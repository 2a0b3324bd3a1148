package coin

import (
	"math"
	"regexp"

	"github.com/iov-one/bazaar/errors"
)

// IsAsset is the RegExp to ensure valid asset identifiers
var IsAsset = regexp.MustCompile(`^[A-Z][A-Z0-9_\-]{1,15}$`).MatchString

// ValidateAsset returns ErrInvalidInput if the asset identifier is not
// well formed.
func ValidateAsset(asset string) error {
	if !IsAsset(asset) {
		return errors.Wrapf(errors.ErrInvalidInput, "invalid asset: %q", asset)
	}
	return nil
}

// Add returns a+b or ErrOverflow.
func Add(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return a + b, nil
}

// Sub returns a-b or ErrInsufficientFunds when b is greater.
func Sub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errors.Wrapf(errors.ErrInsufficientFunds, "have %d, need %d", a, b)
	}
	return a - b, nil
}
