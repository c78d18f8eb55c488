package subscription

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/subscription-contract/contracts/subscription/subscriptionconst"
)

// configKey returns storage key of the creator config and its bump.
func configKey() (interop.Hash160, int) {
	return findAddress([][]byte{[]byte(subscriptionconst.ConfigSeed)})
}

// subscriptionKey returns storage key of the subscriber record and its bump.
func subscriptionKey(subscriber interop.Hash160) (interop.Hash160, int) {
	return findAddress([][]byte{[]byte(subscriptionconst.SubscriptionSeed), subscriber})
}

// findAddress returns the first valid address of the record derived from
// seeds, bump goes down from MaxBump.
func findAddress(seeds [][]byte) (interop.Hash160, int) {
	checkSeeds(seeds)

	for bump := subscriptionconst.MaxBump; bump >= 0; bump-- {
		addr := deriveAddress(seeds, bump)
		if addr[0] >= subscriptionconst.ReservedKeySpace {
			return addr, bump
		}
	}

	panic(subscriptionconst.ErrNoValidBump)
}

func deriveAddress(seeds [][]byte, bump int) interop.Hash160 {
	preimage := []byte(runtime.GetExecutingScriptHash())
	for i := range seeds {
		preimage = append(preimage, byte(len(seeds[i])))
		preimage = append(preimage, seeds[i]...)
	}
	preimage = append(preimage, byte(bump))

	return crypto.Ripemd160(crypto.Sha256(preimage))
}

func checkSeeds(seeds [][]byte) {
	if len(seeds) == 0 || len(seeds) > subscriptionconst.MaxSeeds {
		panic(subscriptionconst.ErrInvalidSeed)
	}

	for i := range seeds {
		if len(seeds[i]) == 0 || len(seeds[i]) > subscriptionconst.MaxSeedLen {
			panic(subscriptionconst.ErrInvalidSeed)
		}
	}
}
