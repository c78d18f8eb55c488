package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/subscription-contract/tests/dump"
	"go.uber.org/zap"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	chainLabel := flag.String("label", "", "Label of the blockchain environment (e.g. 'testnet')")
	contractFlag := flag.String("contract", "", "Address or LE script hash of the Subscription contract")
	rootDir := flag.String("dir", "testdata", "Directory to put dumps into")

	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *chainLabel == "":
		log.Fatal("missing blockchain label")
	case *contractFlag == "":
		log.Fatal("missing contract")
	}

	contract, err := parseContract(*contractFlag)
	if err != nil {
		log.Fatal("invalid contract", zap.Error(err))
	}

	err = os.MkdirAll(*rootDir, 0700)
	if err != nil {
		log.Fatal("create root dir", zap.Error(err))
	}

	err = _dump(log, *neoRPCEndpoint, *rootDir, *chainLabel, contract)
	if err != nil {
		log.Fatal("dump failed", zap.Error(err))
	}

	log.Info("Subscription contract is successfully dumped", zap.String("dir", *rootDir))
}

func parseContract(s string) (util.Uint160, error) {
	h, err := util.Uint160DecodeStringLE(s)
	if err == nil {
		return h, nil
	}

	return address.StringToUint160(s)
}

func _dump(log *zap.Logger, neoBlockchainRPCEndpoint, rootDir, label string, contract util.Uint160) error {
	b, err := newRemoteBlockChain(neoBlockchainRPCEndpoint)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}

	defer b.close()

	d, err := dump.NewCreator(rootDir, dump.ID{
		Label: label,
		Block: b.currentBlock,
	})
	if err != nil {
		return fmt.Errorf("init local dumper: %w", err)
	}

	defer d.Close()

	st, err := b.rpc.GetContractStateByHash(contract)
	if err != nil {
		return fmt.Errorf("get contract state by hash '%s': %w", contract.StringLE(), err)
	}

	log.Info("processing contract storage...", zap.String("name", st.Manifest.Name), zap.Uint32("block", b.currentBlock))

	var n int

	err = b.iterateContractStorage(contract, func(key, value []byte) error {
		n++
		return d.Write(key, value)
	})
	if err != nil {
		return fmt.Errorf("iterate contract storage: %w", err)
	}

	err = d.Flush(*st)
	if err != nil {
		return fmt.Errorf("flush dump: %w", err)
	}

	log.Info("storage items dumped", zap.Int("count", n))

	return nil
}
