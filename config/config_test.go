package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

func tempHome(t *testing.T) string {
	dir, err := ioutil.TempDir("", "casper-home")
	require.NoError(t, err)
	return dir
}

func TestDefaults(t *testing.T) {
	home := tempHome(t)
	defer os.RemoveAll(home)

	c, err := Load(home)
	require.NoError(t, err)
	assert.Equal(t, "casper-test", c.ChainName)
	assert.Equal(t, home, c.RootDir)
	assert.Equal(t, filepath.Join(home, "data"), c.StorePath())

	ttl, err := c.TTLDuration()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, ttl)
	payment, err := c.Payment()
	require.NoError(t, err)
	assert.Equal(t, "100000000", payment.String())
}

func TestSaveAndLoad(t *testing.T) {
	home := tempHome(t)
	defer os.RemoveAll(home)

	c := DefaultConfig().SetRoot(home)
	c.ChainName = "casper-net-1"
	c.TTL = "1h 30m"
	c.GasPrice = 3
	c.StoreDir = "/var/lib/deploys"
	require.NoError(t, c.Save())

	back, err := Load(home)
	require.NoError(t, err)
	assert.Equal(t, "casper-net-1", back.ChainName)
	assert.Equal(t, uint64(3), back.GasPrice)
	assert.Equal(t, "/var/lib/deploys", back.StorePath())
	ttl, err := back.TTLDuration()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, ttl)
}

func TestEnvOverride(t *testing.T) {
	home := tempHome(t)
	defer os.RemoveAll(home)

	require.NoError(t, os.Setenv("CASPER_CHAIN_NAME", "from-env"))
	defer os.Unsetenv("CASPER_CHAIN_NAME")
	c, err := Load(home)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.ChainName)
}

func TestValidateBasic(t *testing.T) {
	cases := map[string]func(c *Config){
		"chain":   func(c *Config) { c.ChainName = "" },
		"ttl":     func(c *Config) { c.TTL = "soon" },
		"gas":     func(c *Config) { c.GasPrice = 0 },
		"payment": func(c *Config) { c.PaymentAmount = "1.5" },
	}
	for name, mutate := range cases {
		c := DefaultConfig()
		mutate(c)
		assert.Error(t, c.ValidateBasic(), name)
	}

	c := DefaultConfig()
	c.GasPrice = 0
	assert.True(t, errors.Is(c.ValidateBasic(), sdkerr.ErrInvalidArgument))
	assert.NoError(t, DefaultConfig().ValidateBasic())
}
