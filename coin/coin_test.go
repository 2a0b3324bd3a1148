package coin

import (
	"math"
	"testing"

	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/weavetest/assert"
)

func TestAmountMath(t *testing.T) {
	sum, err := Add(10, 4)
	assert.Nil(t, err)
	assert.Equal(t, uint64(14), sum)

	_, err = Add(math.MaxUint64, 1)
	assert.IsErr(t, errors.ErrOverflow, err)

	diff, err := Sub(10, 4)
	assert.Nil(t, err)
	assert.Equal(t, uint64(6), diff)

	diff, err = Sub(4, 4)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), diff)

	_, err = Sub(4, 10)
	assert.IsErr(t, errors.ErrInsufficientFunds, err)
}

func TestValidateAsset(t *testing.T) {
	for _, ok := range []string{"AA", "GOLD", "USD-C", "TOKEN_B", "A1"} {
		assert.Nil(t, ValidateAsset(ok))
	}
	for _, bad := range []string{"", "A", "gold", "1ABC", "WAYTOOLONGASSETNAME"} {
		assert.IsErr(t, errors.ErrInvalidInput, ValidateAsset(bad))
	}
}
