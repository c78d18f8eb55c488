package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	require.Equal(t, DefaultRPCEndpoint, cfg.RPCEndpoint)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, DefaultGatewayListen, cfg.Gateway.Listen)
	require.Equal(t, DefaultCacheTTL, cfg.Gateway.CacheTTL)
	require.Equal(t, []string{"*"}, cfg.Gateway.AllowedOrigins)
	require.Equal(t, DefaultContractDir, cfg.Deploy.ContractDir)
	require.Zero(t, cfg.Deploy.RecordDeposit)
	require.Equal(t, DefaultLogLevel, cfg.Logger.Level)
	require.Empty(t, cfg.Contract)

	_, err = cfg.ContractHash()
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
rpc_endpoint: https://rpc.example.org:10332
contract: "0x1122334455667788990011223344556677889900"
timeout: 15s
wallet:
  path: /etc/subscription/wallet.json
  password: secret
gateway:
  listen: 0.0.0.0:9000
  cache_ttl: 1m
  allowed_origins:
    - https://example.org
deploy:
  record_deposit: 100000000
logger:
  level: debug
`), 0o600))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	require.Equal(t, "https://rpc.example.org:10332", cfg.RPCEndpoint)
	require.Equal(t, 15*time.Second, cfg.Timeout)
	require.Equal(t, "/etc/subscription/wallet.json", cfg.Wallet.Path)
	require.Equal(t, "secret", cfg.Wallet.Password)
	require.Equal(t, "0.0.0.0:9000", cfg.Gateway.Listen)
	require.Equal(t, time.Minute, cfg.Gateway.CacheTTL)
	require.Equal(t, []string{"https://example.org"}, cfg.Gateway.AllowedOrigins)
	require.EqualValues(t, 100000000, cfg.Deploy.RecordDeposit)
	require.Equal(t, "debug", cfg.Logger.Level)

	h, err := cfg.ContractHash()
	require.NoError(t, err)
	require.Equal(t, "1122334455667788990011223344556677889900", h.StringLE())

	_, err = Load(New(), filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"_GATEWAY_LISTEN", "127.0.0.1:7000")
	t.Setenv(EnvPrefix+"_DEPLOY_RECORD_DEPOSIT", "42")
	t.Setenv(EnvPrefix+"_LOGGER_LEVEL", "warn")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:7000", cfg.Gateway.Listen)
	require.EqualValues(t, 42, cfg.Deploy.RecordDeposit)
	require.Equal(t, "warn", cfg.Logger.Level)
}

func TestLoadEnvFiles(t *testing.T) {
	const key = EnvPrefix + "_WALLET_PATH"

	// Register restoring of the variable, godotenv sets it directly.
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(key+"=/tmp/wallet.json\n"), 0o600))

	require.NoError(t, LoadEnv(filepath.Join(dir, "missing.env"), envFile))

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	require.Equal(t, "/tmp/wallet.json", cfg.Wallet.Path)

	t.Run("no override", func(t *testing.T) {
		t.Setenv(key, "/opt/wallet.json")
		require.NoError(t, LoadEnv(envFile))
		require.Equal(t, "/opt/wallet.json", os.Getenv(key))
	})

	t.Run("invalid file", func(t *testing.T) {
		require.Error(t, LoadEnv(dir))
	})
}

func TestValidate(t *testing.T) {
	for name, set := range map[string]func(v map[string]any){
		"endpoint":     func(v map[string]any) { v["rpc_endpoint"] = "not an url" },
		"timeout":      func(v map[string]any) { v["timeout"] = "0s" },
		"listen":       func(v map[string]any) { v["gateway.listen"] = "localhost" },
		"cache ttl":    func(v map[string]any) { v["gateway.cache_ttl"] = "-1s" },
		"contract dir": func(v map[string]any) { v["deploy.contract_dir"] = "" },
		"deposit":      func(v map[string]any) { v["deploy.record_deposit"] = -1 },
		"log level":    func(v map[string]any) { v["logger.level"] = "trace" },
		"contract":     func(v map[string]any) { v["contract"] = "NotAnAddress" },
	} {
		t.Run(name, func(t *testing.T) {
			vals := make(map[string]any)
			set(vals)

			v := New()
			for k, val := range vals {
				v.Set(k, val)
			}

			_, err := Load(v, "")
			require.Error(t, err)
		})
	}
}

func TestContractHash(t *testing.T) {
	h := util.Uint160{1, 2, 3, 4, 5}

	for _, s := range []string{
		h.StringLE(),
		"0x" + h.StringLE(),
		address.Uint160ToString(h),
	} {
		cfg := Config{Contract: s}

		res, err := cfg.ContractHash()
		require.NoError(t, err, s)
		require.Equal(t, h, res, s)
	}
}
