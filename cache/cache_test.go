package cache

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/connectfour/config"
)

func TestLoadOnce(t *testing.T) {
	is := is.New(t)
	CreateGlobalObjectCache()
	cfg := config.DefaultConfig()
	calls := 0
	loader := func(cfg *config.Config, key string) (any, error) {
		calls++
		return key + "!", nil
	}
	for i := 0; i < 3; i++ {
		obj, err := Load(&cfg, "suite", loader)
		is.NoErr(err)
		is.Equal(obj.(string), "suite!")
	}
	is.Equal(calls, 1)

	Evict("suite")
	_, err := Load(&cfg, "suite", loader)
	is.NoErr(err)
	is.Equal(calls, 2)
}

func TestFailedLoadNotCached(t *testing.T) {
	is := is.New(t)
	CreateGlobalObjectCache()
	cfg := config.DefaultConfig()
	errBoom := errors.New("boom")
	fail := true
	loader := func(cfg *config.Config, key string) (any, error) {
		if fail {
			return nil, errBoom
		}
		return 42, nil
	}
	_, err := Load(&cfg, "x", loader)
	is.True(errors.Is(err, errBoom))
	fail = false
	obj, err := Load(&cfg, "x", loader)
	is.NoErr(err)
	is.Equal(obj.(int), 42)
}
