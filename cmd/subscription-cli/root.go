package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/subscription-contract/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// cli holds state shared by all commands.
type cli struct {
	v          *viper.Viper
	configPath string
	envFiles   []string

	cfg *config.Config
	log *zap.Logger
}

func newRootCommand() *cobra.Command {
	c := &cli{v: config.New()}

	root := &cobra.Command{
		Use:   "subscription-cli",
		Short: "Manage subscriptions of the Subscription contract",
		Long: `Manage subscriptions of the Subscription contract deployed to Neo blockchain.

Settings are read from the configuration file, SUBSCRIPTION_* environment
variables (.env files are loaded too) and flags.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.init,
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&c.configPath, "config", "c", "", "Path to YAML configuration file")
	f.StringSliceVar(&c.envFiles, "env-file", []string{".env"}, "Files with environment variables")
	f.String("rpc", config.DefaultRPCEndpoint, "Neo RPC endpoint")
	f.String("contract", "", "Subscription contract address or LE script hash")
	f.StringP("wallet", "w", "", "Path to NEP-6 wallet")
	f.StringP("account", "a", "", "Wallet account address, default account is used if empty")
	f.Duration("timeout", config.DefaultTimeout, "Timeout of RPC requests and transaction awaiting")
	f.String("log-level", config.DefaultLogLevel, "Logging level (debug, info, warn, error)")

	for key, flag := range map[string]string{
		"rpc_endpoint":   "rpc",
		"contract":       "contract",
		"wallet.path":    "wallet",
		"wallet.account": "account",
		"timeout":        "timeout",
		"logger.level":   "log-level",
	} {
		if err := c.v.BindPFlag(key, f.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}

	root.AddCommand(
		c.newCreateConfigCommand(),
		c.newUpdatePriceCommand(),
		c.newSubscribeCommand(),
		c.newExtendCommand(),
		c.newPauseCommand(),
		c.newResumeCommand(),
		c.newCancelCommand(),
		c.newConfigCommand(),
		c.newSubscriptionCommand(),
		c.newAddressCommand(),
		c.newDeployCommand(),
		c.newServeCommand(),
	)

	return root
}

func (c *cli) init(*cobra.Command, []string) error {
	err := config.LoadEnv(c.envFiles...)
	if err != nil {
		return err
	}

	c.cfg, err = config.Load(c.v, c.configPath)
	if err != nil {
		return err
	}

	c.log, err = newLogger(c.cfg.Logger.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level

	err := lvl.UnmarshalText([]byte(level))
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func (c *cli) contract() (util.Uint160, error) {
	h, err := c.cfg.ContractHash()
	if err != nil {
		return util.Uint160{}, fmt.Errorf("%w (use --contract flag or SUBSCRIPTION_CONTRACT variable)", err)
	}

	return h, nil
}

// context returns context limited by the configured timeout.
func (c *cli) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithTimeout(ctx, c.cfg.Timeout)
}

var errMissingWallet = errors.New("wallet is not configured (use --wallet flag or SUBSCRIPTION_WALLET_PATH variable)")
