/*
Package config loads configuration of the Subscription contract tools.

Values are taken from (in order of priority) command line flags bound to the
viper instance, SUBSCRIPTION_* environment variables (optionally loaded from
.env files), YAML configuration file and defaults. Keys are nested with dots,
environment variables use underscores instead, e.g. gateway.listen is
SUBSCRIPTION_GATEWAY_LISTEN.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/spf13/viper"
)

// EnvPrefix is a prefix of environment variables.
const EnvPrefix = "SUBSCRIPTION"

// Default values.
const (
	DefaultRPCEndpoint   = "http://localhost:30333"
	DefaultTimeout       = time.Minute
	DefaultGatewayListen = "localhost:8080"
	DefaultCacheTTL      = 5 * time.Second
	DefaultLogLevel      = "info"
	DefaultContractDir   = "contracts/subscription"
)

// Config groups all settings.
type Config struct {
	// RPCEndpoint is an URL of the Neo RPC node.
	RPCEndpoint string `mapstructure:"rpc_endpoint" validate:"required,url"`
	// Contract is an address or LE hex script hash of deployed Subscription
	// contract. Required by all commands except deploy.
	Contract string `mapstructure:"contract"`
	// Timeout limits waiting for RPC responses and persisted transactions.
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`

	Wallet  Wallet  `mapstructure:"wallet"`
	Gateway Gateway `mapstructure:"gateway"`
	Deploy  Deploy  `mapstructure:"deploy"`
	Logger  Logger  `mapstructure:"logger"`
}

// Wallet describes NEP-6 wallet used to sign transactions.
type Wallet struct {
	Path string `mapstructure:"path"`
	// Account is an address of the wallet account, default account is used
	// when empty.
	Account  string `mapstructure:"account"`
	Password string `mapstructure:"password"`
}

// Gateway configures HTTP read gateway.
type Gateway struct {
	Listen         string        `mapstructure:"listen" validate:"required,hostname_port"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl" validate:"gt=0"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// Deploy configures contract deployment.
type Deploy struct {
	// ContractDir is a directory with compiled contract.nef and manifest.json.
	ContractDir   string `mapstructure:"contract_dir" validate:"required"`
	RecordDeposit int64  `mapstructure:"record_deposit" validate:"gte=0"`
}

// Logger configures zap logger.
type Logger struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// New returns viper instance with defaults and environment binding set.
func New() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal sees environment only for known keys, so every key has a
	// default.
	v.SetDefault("rpc_endpoint", DefaultRPCEndpoint)
	v.SetDefault("contract", "")
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("wallet.path", "")
	v.SetDefault("wallet.account", "")
	v.SetDefault("wallet.password", "")
	v.SetDefault("gateway.listen", DefaultGatewayListen)
	v.SetDefault("gateway.cache_ttl", DefaultCacheTTL)
	v.SetDefault("gateway.allowed_origins", []string{"*"})
	v.SetDefault("deploy.contract_dir", DefaultContractDir)
	v.SetDefault("deploy.record_deposit", 0)
	v.SetDefault("logger.level", DefaultLogLevel)

	return v
}

// LoadEnv loads environment variables from the given .env files. Already set
// variables are not overridden, missing files are skipped.
func LoadEnv(files ...string) error {
	for i := range files {
		err := godotenv.Load(files[i])
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", files[i], err)
		}
	}

	return nil
}

// Load reads configuration from the optional file at path and v, and
// validates it.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)

		err := v.ReadInConfig()
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config

	err := v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks all values of the configuration.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err != nil {
		var vErrs validator.ValidationErrors
		if !errors.As(err, &vErrs) {
			return fmt.Errorf("invalid config: %w", err)
		}

		msgs := make([]string, len(vErrs))
		for i := range vErrs {
			msgs[i] = fmt.Sprintf("%s: failed on %q", vErrs[i].Namespace(), vErrs[i].Tag())
		}

		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}

	if c.Contract != "" {
		_, err = c.ContractHash()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}

	return nil
}

// ContractHash parses Contract value which is either Neo address or LE hex
// script hash.
func (c *Config) ContractHash() (util.Uint160, error) {
	if c.Contract == "" {
		return util.Uint160{}, errors.New("contract is not configured")
	}

	h, err := util.Uint160DecodeStringLE(strings.TrimPrefix(c.Contract, "0x"))
	if err == nil {
		return h, nil
	}

	h, err = address.StringToUint160(c.Contract)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("contract %q is neither address nor LE script hash", c.Contract)
	}

	return h, nil
}
