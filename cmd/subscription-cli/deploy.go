package main

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/subscription-contract/contracts"
	"github.com/nspcc-dev/subscription-contract/deploy"
	"github.com/spf13/cobra"
)

func (c *cli) newDeployCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the contract or update it to the local version",
		Long: `Deploy the contract compiled into the configured directory (contract.nef and
manifest.json) from the wallet account. Already deployed contract is updated if
its version is older than the local one, the update requires committee witness.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("record-deposit") {
				v, _ := cmd.Flags().GetString("record-deposit")

				deposit, err := parseGAS(v)
				if err != nil {
					return err
				}
				if !deposit.IsInt64() {
					return fmt.Errorf("record deposit %s is too big", v)
				}

				c.cfg.Deploy.RecordDeposit = deposit.Int64()
			}

			ctr, err := contracts.ReadDir(c.cfg.Deploy.ContractDir)
			if err != nil {
				return fmt.Errorf("read compiled contract: %w", err)
			}

			acc, err := c.openAccount()
			if err != nil {
				return err
			}

			ctx, cancel := c.context(cmd)
			defer cancel()

			cl, err := c.dial(ctx)
			if err != nil {
				return err
			}
			defer cl.Close()

			addr, err := deploy.Deploy(ctx, deploy.Prm{
				Logger:       c.log,
				Blockchain:   cl,
				LocalAccount: acc,
				Contract: deploy.CommonDeployPrm{
					NEF:      ctr.NEF,
					Manifest: ctr.Manifest,
				},
				RecordDeposit: c.cfg.Deploy.RecordDeposit,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "contract: %s (%s)\n", address.Uint160ToString(addr), addr.StringLE())

			return nil
		},
	}

	cmd.Flags().String("record-deposit", "", "GAS amount held per subscription record, set on the first deployment only")

	return cmd
}
