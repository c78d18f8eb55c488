/*
Package deploy synchronizes Subscription contract with the Neo blockchain.
*/
package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/nspcc-dev/subscription-contract/common"
	"github.com/nspcc-dev/subscription-contract/rpc/subscription"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the contract deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by
	// its address. It returns error with 'Unknown contract' substring if
	// requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)

	// GetApplicationLog returns execution results of the persisted
	// transaction. It's used to await sent transactions.
	GetApplicationLog(hash util.Uint256, trig *trigger.Type) (*result.ApplicationLog, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Prm groups all parameters of the deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// The account deploys the contract, so it defines contract address. To
	// update the contract the account must satisfy committee witness.
	LocalAccount *wallet.Account

	Contract CommonDeployPrm

	// GAS amount the contract holds per subscription record. It's set on the
	// first deployment only.
	RecordDeposit int64
}

// Deploy deploys Subscription contract if it's missing on the chain or
// updates it if the on-chain version is older than the local one. Address of
// the contract is returned.
//
// Deploy waits for the transaction to be persisted, ctx allows to abort
// waiting.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	if prm.RecordDeposit < 0 {
		return util.Uint160{}, fmt.Errorf("negative record deposit %d", prm.RecordDeposit)
	}

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	addr := ContractAddress(prm.LocalAccount.ScriptHash(), prm.Contract)
	l := prm.Logger.With(zap.Stringer("address", addr))

	_, err = prm.Blockchain.GetContractStateByHash(addr)
	if err != nil {
		if !isErrContractNotFound(err) {
			return addr, fmt.Errorf("get state of the contract by address %s: %w", addr.StringLE(), err)
		}

		l.Info("contract is missing on the chain, deploying...")

		res, err := waitAll(ctx, act)(management.New(act).Deploy(&prm.Contract.NEF, &prm.Contract.Manifest, []any{prm.RecordDeposit}))
		if err != nil {
			return addr, fmt.Errorf("deploy contract: %w", err)
		}

		l.Info("contract successfully deployed", zap.Int64("gasConsumed", res.GasConsumed))

		return addr, nil
	}

	reader := subscription.NewReader(act, addr)

	v, err := reader.Version()
	if err != nil {
		return addr, fmt.Errorf("get on-chain contract version: %w", err)
	}

	if !needsUpdate(v, common.Version) {
		l.Info("contract is up to date", zap.Stringer("version", v))
		return addr, nil
	}

	l.Info("on-chain contract is outdated, updating...",
		zap.Stringer("onChainVersion", v), zap.Int("localVersion", common.Version))

	bNEF, err := prm.Contract.NEF.Bytes()
	if err != nil {
		return addr, fmt.Errorf("encode contract NEF into binary: %w", err)
	}

	jManifest, err := json.Marshal(prm.Contract.Manifest)
	if err != nil {
		return addr, fmt.Errorf("encode contract manifest into JSON: %w", err)
	}

	_, err = waitAll(ctx, act)(subscription.New(act, addr).Update(bNEF, jManifest, nil))
	if err != nil {
		return addr, fmt.Errorf("update contract: %w", subscription.ParseFault(err))
	}

	l.Info("contract successfully updated")

	return addr, nil
}

// ContractAddress returns address of the contract deployed by the given
// sender.
func ContractAddress(sender util.Uint160, c CommonDeployPrm) util.Uint160 {
	return state.CreateContractHash(sender, c.NEF.Checksum, c.Manifest.Name)
}

// waitAll returns function awaiting transaction sent by the actor. Faulted
// transactions are reported as errors.
func waitAll(ctx context.Context, act *actor.Actor) func(util.Uint256, uint32, error) (*state.AppExecResult, error) {
	return func(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error) {
		if err != nil {
			return nil, err
		}

		res, err := act.WaitAny(ctx, vub, h)
		if err != nil {
			return nil, err
		}

		if res.VMState != vmstate.Halt {
			return res, subscription.ParseFaultException(res.FaultException)
		}

		return res, nil
	}
}

func needsUpdate(onChain *big.Int, local int) bool {
	return onChain.Cmp(big.NewInt(int64(local))) < 0
}

// errContractNotFound is returned by GetContractStateByHash implementations
// which don't use RPC.
var errContractNotFound = errors.New("Unknown contract")

func isErrContractNotFound(err error) bool {
	return errors.Is(err, errContractNotFound) || strings.Contains(err.Error(), "Unknown contract")
}
