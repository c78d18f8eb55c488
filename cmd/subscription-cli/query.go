package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/subscription-contract/rpc/subscription"
	"github.com/spf13/cobra"
)

// parseAccount parses Neo address or LE hex script hash.
func parseAccount(s string) (util.Uint160, error) {
	h, err := address.StringToUint160(s)
	if err == nil {
		return h, nil
	}

	h, err = util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("%w: %q is neither address nor LE script hash", subscription.ErrInvalidAccount, s)
	}

	return h, nil
}

func (c *cli) newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show creator config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			r, closeFn, err := c.newReader(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			cfg, err := r.GetConfig()
			if err != nil {
				return fmt.Errorf("read config: %w", err)
			}
			if cfg == nil {
				return subscription.ErrConfigNotFound
			}

			printPrices(cmd.OutOrStdout(), "creator config", cfg.Owner, cfg.MonthlyPrice, cfg.QuarterlyPrice, cfg.AnnualPrice)

			return nil
		},
	}
}

func (c *cli) newSubscriptionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "subscription [account]",
		Short: "Show subscription of the account, the wallet account by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				subscriber util.Uint160
				err        error
			)

			if len(args) > 0 {
				subscriber, err = parseAccount(args[0])
			} else {
				subscriber, err = c.walletAccount()
			}
			if err != nil {
				return err
			}

			ctx, cancel := c.context(cmd)
			defer cancel()

			r, closeFn, err := c.newReader(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			s, err := r.GetSubscription(subscriber)
			if err != nil {
				return fmt.Errorf("read subscription: %w", err)
			}
			if s == nil {
				return subscription.ErrSubscriptionNotFound
			}

			// Chain time lags behind, but the difference is negligible for
			// plan durations.
			now := time.Now()
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "subscriber: %s\n", address.Uint160ToString(s.Subscriber))
			fmt.Fprintf(w, "plan:       %s\n", subscription.Plan(s.Plan.Int64()))
			fmt.Fprintf(w, "status:     %s\n", s.Status(now))
			fmt.Fprintf(w, "expires:    %s\n", formatTime(s.ExpiresAt))
			if s.IsPaused() {
				fmt.Fprintf(w, "paused:     %s\n", formatTime(s.PausedSince))
			}
			fmt.Fprintf(w, "remaining:  %s\n", s.Remaining(now))

			return nil
		},
	}
}

// walletAccount returns address of the configured wallet account without
// decrypting it.
func (c *cli) walletAccount() (util.Uint160, error) {
	if c.cfg.Wallet.Account != "" {
		return address.StringToUint160(c.cfg.Wallet.Account)
	}

	if c.cfg.Wallet.Path == "" {
		return util.Uint160{}, fmt.Errorf("account is not specified: %w", errMissingWallet)
	}

	acc, err := c.openAccount()
	if err != nil {
		return util.Uint160{}, err
	}

	return acc.ScriptHash(), nil
}

func (c *cli) newAddressCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Compute canonical record addresses offline",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print address of the creator config record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			contract, err := c.contract()
			if err != nil {
				return err
			}

			addr, bump, err := subscription.ConfigAddress(contract)
			if err != nil {
				return err
			}

			printAddress(cmd, addr, bump)

			return nil
		},
	}, &cobra.Command{
		Use:   "subscription <account>",
		Short: "Print address of the subscription record of the account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contract, err := c.contract()
			if err != nil {
				return err
			}

			subscriber, err := parseAccount(args[0])
			if err != nil {
				return err
			}

			addr, bump, err := subscription.SubscriptionAddress(contract, subscriber)
			if err != nil {
				return err
			}

			printAddress(cmd, addr, bump)

			return nil
		},
	})

	return cmd
}

func printAddress(cmd *cobra.Command, addr util.Uint160, bump byte) {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "address: %s\n", subscription.EncodeAddress(addr))
	fmt.Fprintf(w, "key:     %s\n", addr.StringBE())
	fmt.Fprintf(w, "bump:    %d\n", bump)
}
