package main

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/subscription-contract/rpc/subscription"
	"github.com/spf13/cobra"
)

// gasPrecision is a number of GAS decimals.
const gasPrecision = 8

func parseGAS(s string) (*big.Int, error) {
	v, err := fixedn.FromString(s, gasPrecision)
	if err != nil {
		return nil, fmt.Errorf("invalid GAS amount %q: %w", s, err)
	}

	return v, nil
}

func formatGAS(v *big.Int) string {
	if v == nil {
		return "-"
	}
	return fixedn.ToString(v, gasPrecision) + " GAS"
}

// firstEvent returns the first parsed event.
func firstEvent[T any](evs []*T, err error) (*T, error) {
	if err != nil {
		return nil, fmt.Errorf("parse %T event: %w", *new(T), err)
	}
	if len(evs) == 0 {
		return nil, fmt.Errorf("missing %T event", *new(T))
	}

	return evs[0], nil
}

func formatTime(sec *big.Int) string {
	return time.Unix(sec.Int64(), 0).UTC().Format(time.RFC3339)
}

func (c *cli) newCreateConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create-config <monthly> <quarterly> <annual>",
		Short: "Create creator config with plan prices in GAS, the wallet account becomes the owner",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			prices := make([]*big.Int, len(args))
			for i := range args {
				var err error
				if prices[i], err = parseGAS(args[i]); err != nil {
					return err
				}
			}

			ctx, cancel := c.context(cmd)
			defer cancel()

			s, err := c.newSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			res, err := s.await(ctx)(s.contract.CreateConfig(s.account, prices[0], prices[1], prices[2]))
			if err != nil {
				return fmt.Errorf("create config: %w", err)
			}

			ev, err := firstEvent(subscription.ConfigCreatedEventsFromApplicationLog(applicationLog(res)))
			if err != nil {
				return err
			}

			printPrices(cmd.OutOrStdout(), "config created", ev.Owner, ev.MonthlyPrice, ev.QuarterlyPrice, ev.AnnualPrice)

			return nil
		},
	}
}

func (c *cli) newUpdatePriceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-price",
		Short: "Update plan prices in GAS, omitted prices are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var prices [3]*big.Int

			for i, name := range []string{"monthly", "quarterly", "annual"} {
				if !cmd.Flags().Changed(name) {
					continue
				}

				v, _ := cmd.Flags().GetString(name)

				var err error
				if prices[i], err = parseGAS(v); err != nil {
					return err
				}
			}

			if prices[0] == nil && prices[1] == nil && prices[2] == nil {
				return errors.New("at least one price must be specified")
			}

			ctx, cancel := c.context(cmd)
			defer cancel()

			s, err := c.newSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			res, err := s.await(ctx)(s.contract.UpdatePrice(s.account, prices[0], prices[1], prices[2]))
			if err != nil {
				return fmt.Errorf("update price: %w", err)
			}

			ev, err := firstEvent(subscription.PriceUpdatedEventsFromApplicationLog(applicationLog(res)))
			if err != nil {
				return err
			}

			printPrices(cmd.OutOrStdout(), "prices updated", ev.Owner, ev.MonthlyPrice, ev.QuarterlyPrice, ev.AnnualPrice)

			return nil
		},
	}

	cmd.Flags().String("monthly", "", "New monthly plan price")
	cmd.Flags().String("quarterly", "", "New quarterly plan price")
	cmd.Flags().String("annual", "", "New annual plan price")

	return cmd
}

func printPrices(w io.Writer, title string, owner util.Uint160, monthly, quarterly, annual *big.Int) {
	fmt.Fprintf(w, "%s\n", title)
	fmt.Fprintf(w, "owner:     %s\n", address.Uint160ToString(owner))
	fmt.Fprintf(w, "monthly:   %s\n", formatGAS(monthly))
	fmt.Fprintf(w, "quarterly: %s\n", formatGAS(quarterly))
	fmt.Fprintf(w, "annual:    %s\n", formatGAS(annual))
}

// creator returns creator account from the flag or the config owner.
func (s *session) creator(cmd *cobra.Command) (util.Uint160, error) {
	if v, _ := cmd.Flags().GetString("creator"); v != "" {
		h, err := address.StringToUint160(v)
		if err != nil {
			return util.Uint160{}, fmt.Errorf("invalid creator address: %w", err)
		}
		return h, nil
	}

	cfg, err := s.reader.GetConfig()
	if err != nil {
		return util.Uint160{}, fmt.Errorf("read config: %w", err)
	}
	if cfg == nil {
		return util.Uint160{}, subscription.ErrConfigNotFound
	}

	return cfg.Owner, nil
}

func (c *cli) newSubscribeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscribe <monthly|quarterly|annual>",
		Short: "Subscribe the wallet account paying the plan price to the creator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := subscription.ParsePlan(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := c.context(cmd)
			defer cancel()

			s, err := c.newSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			creator, err := s.creator(cmd)
			if err != nil {
				return err
			}

			res, err := s.await(ctx)(s.contract.Subscribe(s.account, creator, plan.BigInt()))
			if err != nil {
				return fmt.Errorf("subscribe: %w", err)
			}

			ev, err := firstEvent(subscription.SubscribedEventsFromApplicationLog(applicationLog(res)))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "subscribed to %s plan until %s\n",
				subscription.Plan(ev.Plan.Int64()), formatTime(ev.ExpiresAt))

			return nil
		},
	}

	cmd.Flags().String("creator", "", "Creator address, config owner by default")

	return cmd
}

func (c *cli) newExtendCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extend <monthly|quarterly|annual>",
		Short: "Extend subscription of the wallet account by the plan duration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := subscription.ParsePlan(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := c.context(cmd)
			defer cancel()

			s, err := c.newSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			creator, err := s.creator(cmd)
			if err != nil {
				return err
			}

			res, err := s.await(ctx)(s.contract.Extend(s.account, creator, plan.BigInt()))
			if err != nil {
				return fmt.Errorf("extend: %w", err)
			}

			ev, err := firstEvent(subscription.ExtendedEventsFromApplicationLog(applicationLog(res)))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "extended with %s plan until %s\n",
				subscription.Plan(ev.Plan.Int64()), formatTime(ev.ExpiresAt))

			return nil
		},
	}

	cmd.Flags().String("creator", "", "Creator address, config owner by default")

	return cmd
}

func (c *cli) newPauseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause subscription of the wallet account freezing its remaining time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			s, err := c.newSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			res, err := s.await(ctx)(s.contract.Pause(s.account))
			if err != nil {
				return fmt.Errorf("pause: %w", err)
			}

			ev, err := firstEvent(subscription.PausedEventsFromApplicationLog(applicationLog(res)))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "paused since %s\n", formatTime(ev.PausedSince))

			return nil
		},
	}
}

func (c *cli) newResumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume paused subscription of the wallet account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			s, err := c.newSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			res, err := s.await(ctx)(s.contract.Resume(s.account))
			if err != nil {
				return fmt.Errorf("resume: %w", err)
			}

			ev, err := firstEvent(subscription.ResumedEventsFromApplicationLog(applicationLog(res)))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "resumed until %s\n", formatTime(ev.ExpiresAt))

			return nil
		},
	}
}

func (c *cli) newCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Cancel subscription of the wallet account, record deposit is refunded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := c.context(cmd)
			defer cancel()

			s, err := c.newSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			_, err = s.await(ctx)(s.contract.Cancel(s.account))
			if err != nil {
				return fmt.Errorf("cancel: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "subscription cancelled")

			return nil
		},
	}
}
