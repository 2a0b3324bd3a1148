package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/store"
	"github.com/iov-one/bazaar/weavetest"
	"github.com/iov-one/bazaar/weavetest/assert"
)

func TestSaveLoad(t *testing.T) {
	owner := weavetest.NewAddress()
	cases := map[string]struct {
		Conf        *myconfig
		WantSaveErr *errors.Error
	}{
		"valid": {
			Conf: &myconfig{Owner: owner, Num: 852151421, Asset: "GOLD"},
		},
		"invalid address cannot be saved": {
			Conf:        &myconfig{Owner: bazaar.Address("too short"), Asset: "GOLD"},
			WantSaveErr: errors.ErrInvalidInput,
		},
		"invalid asset cannot be saved": {
			Conf:        &myconfig{Owner: owner},
			WantSaveErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			err := Save(db, "mypkg", tc.Conf)
			assert.IsErr(t, tc.WantSaveErr, err)

			var got myconfig
			err = Load(db, "mypkg", &got)
			if tc.WantSaveErr != nil {
				assert.IsErr(t, errors.ErrNotFound, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.Conf, &got)
		})
	}
}

func TestInitConfig(t *testing.T) {
	owner := weavetest.NewAddress()
	genesis := `{"conf": {"mypkg": {"owner": "` + owner.String() + `", "num": 7, "asset": "GOLD"}}}`

	var opts bazaar.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	assert.Nil(t, InitConfig(db, opts, "mypkg", &myconfig{}))

	var got myconfig
	assert.Nil(t, Load(db, "mypkg", &got))
	assert.Equal(t, &myconfig{Owner: owner, Num: 7, Asset: "GOLD"}, &got)

	err := InitConfig(db, opts, "otherpkg", &myconfig{})
	assert.IsErr(t, errors.ErrNotFound, err)
}
