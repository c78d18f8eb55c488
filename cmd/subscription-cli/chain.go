package main

import (
	"context"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/nspcc-dev/subscription-contract/rpc/subscription"
	"go.uber.org/zap"
)

func (c *cli) dial(ctx context.Context) (*rpcclient.Client, error) {
	cl, err := rpcclient.New(ctx, c.cfg.RPCEndpoint, rpcclient.Options{
		DialTimeout:    c.cfg.Timeout,
		RequestTimeout: c.cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = cl.Init()
	if err != nil {
		cl.Close()
		return nil, fmt.Errorf("init RPC client: %w", err)
	}

	return cl, nil
}

// openAccount opens configured wallet account and decrypts its key.
func (c *cli) openAccount() (*wallet.Account, error) {
	if c.cfg.Wallet.Path == "" {
		return nil, errMissingWallet
	}

	w, err := wallet.NewWalletFromFile(c.cfg.Wallet.Path)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}

	var h util.Uint160
	if c.cfg.Wallet.Account != "" {
		h, err = address.StringToUint160(c.cfg.Wallet.Account)
		if err != nil {
			return nil, fmt.Errorf("invalid account address: %w", err)
		}
	} else {
		h = w.GetChangeAddress()
	}

	acc := w.GetAccount(h)
	if acc == nil {
		return nil, fmt.Errorf("account %s is missing in the wallet", address.Uint160ToString(h))
	}

	err = acc.Decrypt(c.cfg.Wallet.Password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account %s: %w", acc.Address, err)
	}

	return acc, nil
}

// session groups connection to the contract on behalf of the wallet account.
type session struct {
	log      *zap.Logger
	rpc      *rpcclient.Client
	actor    *actor.Actor
	account  util.Uint160
	contract *subscription.Contract
	reader   *subscription.ContractReader
}

// newSession connects to the contract. Transactions are signed by the
// wallet account with witness scope limited to the contract and GAS, the
// latter is needed for payments made by the contract on behalf of the
// account.
func (c *cli) newSession(ctx context.Context) (*session, error) {
	contract, err := c.contract()
	if err != nil {
		return nil, err
	}

	acc, err := c.openAccount()
	if err != nil {
		return nil, err
	}

	cl, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}

	act, err := actor.New(cl, []actor.SignerAccount{{
		Signer: transaction.Signer{
			Account:          acc.ScriptHash(),
			Scopes:           transaction.CustomContracts,
			AllowedContracts: []util.Uint160{contract, gas.Hash},
		},
		Account: acc,
	}})
	if err != nil {
		cl.Close()
		return nil, fmt.Errorf("init actor: %w", err)
	}

	return &session{
		log:      c.log.With(zap.String("account", acc.Address)),
		rpc:      cl,
		actor:    act,
		account:  acc.ScriptHash(),
		contract: subscription.New(act, contract),
		reader:   subscription.NewReader(act, contract),
	}, nil
}

func (s *session) close() {
	s.rpc.Close()
}

// await returns function waiting for the transaction sent by the session
// actor to be persisted. Contract failures are mapped to the errors of the
// subscription package.
func (s *session) await(ctx context.Context) func(util.Uint256, uint32, error) (*state.AppExecResult, error) {
	return func(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error) {
		if err != nil {
			return nil, subscription.ParseFault(err)
		}

		s.log.Debug("transaction sent, waiting...", zap.Stringer("tx", h), zap.Uint32("vub", vub))

		res, err := s.actor.WaitAny(ctx, vub, h)
		if err != nil {
			return nil, fmt.Errorf("wait for transaction %s: %w", h.StringLE(), err)
		}

		if res.VMState != vmstate.Halt {
			return res, fmt.Errorf("transaction %s failed: %w", h.StringLE(), subscription.ParseFaultException(res.FaultException))
		}

		s.log.Info("transaction persisted", zap.Stringer("tx", h), zap.Int64("gasConsumed", res.GasConsumed))

		return res, nil
	}
}

// newReader returns read-only access to the contract, no wallet is needed.
func (c *cli) newReader(ctx context.Context) (*subscription.ContractReader, func(), error) {
	contract, err := c.contract()
	if err != nil {
		return nil, nil, err
	}

	cl, err := c.dial(ctx)
	if err != nil {
		return nil, nil, err
	}

	return subscription.NewReader(invoker.New(cl, nil), contract), cl.Close, nil
}

func applicationLog(res *state.AppExecResult) *result.ApplicationLog {
	return &result.ApplicationLog{
		Container:     res.Container,
		IsTransaction: true,
		Executions:    []state.Execution{res.Execution},
	}
}
