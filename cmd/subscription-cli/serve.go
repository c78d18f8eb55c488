package main

import (
	"os/signal"
	"syscall"

	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/subscription-contract/internal/gateway"
	"github.com/nspcc-dev/subscription-contract/rpc/subscription"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *cli) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve read-only HTTP gateway to the contract records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if v, _ := cmd.Flags().GetString("listen"); v != "" {
				c.cfg.Gateway.Listen = v
			}

			contract, err := c.contract()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cl, err := c.dial(ctx)
			if err != nil {
				return err
			}
			defer cl.Close()

			g, err := gateway.New(gateway.Prm{
				Logger:         c.log.With(zap.String("component", "gateway")),
				Reader:         subscription.NewReader(invoker.New(cl, nil), contract),
				Contract:       contract,
				CacheTTL:       c.cfg.Gateway.CacheTTL,
				AllowedOrigins: c.cfg.Gateway.AllowedOrigins,
			})
			if err != nil {
				return err
			}

			return g.ListenAndServe(ctx, c.cfg.Gateway.Listen)
		},
	}

	cmd.Flags().String("listen", "", "Listen address, overrides configured one")

	return cmd
}
