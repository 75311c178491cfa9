package config

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/bigint"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/deploy"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

const (
	FileName  = "config.toml"
	EnvPrefix = "CASPER"
)

// Config holds the defaults used when building and sending deploys.
type Config struct {
	RootDir string `mapstructure:"home"`

	ChainName     string `mapstructure:"chain_name"`
	NodeAddress   string `mapstructure:"node_address"`
	TTL           string `mapstructure:"ttl"`
	GasPrice      uint64 `mapstructure:"gas_price"`
	PaymentAmount string `mapstructure:"payment_amount"`
	LogLevel      string `mapstructure:"log_level"`
	StoreDir      string `mapstructure:"store_dir"`
	KeyFile       string `mapstructure:"key_file"`
}

func DefaultConfig() *Config {
	return &Config{
		ChainName:     "casper-test",
		NodeAddress:   "http://127.0.0.1:7777/rpc",
		TTL:           "30m",
		GasPrice:      1,
		PaymentAmount: "100000000",
		LogLevel:      "main:info,store:info,*:error",
		StoreDir:      "data",
		KeyFile:       "secret_key.pem",
	}
}

func (c *Config) SetRoot(root string) *Config {
	c.RootDir = root
	return c
}

func (c *Config) ConfigFile() string { return filepath.Join(c.RootDir, FileName) }

func (c *Config) StorePath() string { return rootify(c.StoreDir, c.RootDir) }

func (c *Config) KeyPath() string { return rootify(c.KeyFile, c.RootDir) }

func (c *Config) TTLDuration() (time.Duration, error) {
	return deploy.ParseDuration(c.TTL)
}

func (c *Config) Payment() (*big.Int, error) {
	return bigint.ParseDecimal(c.PaymentAmount, bigint.U512)
}

func (c *Config) ValidateBasic() error {
	if c.ChainName == "" {
		return errors.Wrap(sdkerr.ErrInvalidArgument, "chain_name is empty")
	}
	if _, err := c.TTLDuration(); err != nil {
		return errors.Wrap(err, "ttl")
	}
	if c.GasPrice == 0 {
		return errors.Wrap(sdkerr.ErrInvalidArgument, "gas_price must be positive")
	}
	if _, err := c.Payment(); err != nil {
		return errors.Wrap(err, "payment_amount")
	}
	return nil
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("chain_name", c.ChainName)
	v.SetDefault("node_address", c.NodeAddress)
	v.SetDefault("ttl", c.TTL)
	v.SetDefault("gas_price", c.GasPrice)
	v.SetDefault("payment_amount", c.PaymentAmount)
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("store_dir", c.StoreDir)
	v.SetDefault("key_file", c.KeyFile)
}

// Load reads home/config.toml when it exists. Values not set in the file come
// from CASPER_* environment variables or the defaults.
func Load(home string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := filepath.Join(home, FileName)
	v.SetConfigFile(file)
	if _, err := os.Stat(file); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read %s", file)
		}
	}

	configuration := new(Config)
	if err := v.Unmarshal(configuration); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	configuration.SetRoot(home)
	if err := configuration.ValidateBasic(); err != nil {
		return nil, err
	}
	return configuration, nil
}

// Save writes c to its config file, creating the home directory.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.RootDir, 0700); err != nil {
		return err
	}
	v := viper.New()
	setDefaults(v, c)
	return v.WriteConfigAs(c.ConfigFile())
}

func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
