package subscription

import (
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/subscription-contract/contracts/subscription/subscriptionconst"
)

// CreateAddress derives record address of the contract for the given seeds
// and bump. It returns ErrNoValidBump if the resulting address falls into
// the key range reserved for contract service entries.
func CreateAddress(contract util.Uint160, seeds [][]byte, bump byte) (util.Uint160, error) {
	if err := checkSeeds(seeds); err != nil {
		return util.Uint160{}, err
	}

	addr := deriveAddress(contract, seeds, bump)
	if !isValidAddress(addr) {
		return util.Uint160{}, fmt.Errorf("%w: bump %d gives reserved address", ErrNoValidBump, bump)
	}

	return addr, nil
}

// FindAddress returns canonical record address of the contract for the given
// seeds together with the bump it was derived with. The search starts from
// the highest bump, the first valid address wins. Result is the same as
// the contract computes.
func FindAddress(contract util.Uint160, seeds [][]byte) (util.Uint160, byte, error) {
	if err := checkSeeds(seeds); err != nil {
		return util.Uint160{}, 0, err
	}

	for bump := subscriptionconst.MaxBump; bump >= 0; bump-- {
		addr := deriveAddress(contract, seeds, byte(bump))
		if isValidAddress(addr) {
			return addr, byte(bump), nil
		}
	}

	return util.Uint160{}, 0, ErrNoValidBump
}

// ConfigAddress returns canonical address of the creator config record.
func ConfigAddress(contract util.Uint160) (util.Uint160, byte, error) {
	return FindAddress(contract, [][]byte{[]byte(subscriptionconst.ConfigSeed)})
}

// SubscriptionAddress returns canonical address of the subscription record
// of the subscriber.
func SubscriptionAddress(contract, subscriber util.Uint160) (util.Uint160, byte, error) {
	return FindAddress(contract, [][]byte{
		[]byte(subscriptionconst.SubscriptionSeed),
		subscriber.BytesBE(),
	})
}

// EncodeAddress returns base58 representation of the record address used
// for display.
func EncodeAddress(addr util.Uint160) string {
	return base58.Encode(addr.BytesBE())
}

// DecodeAddress parses record address encoded by EncodeAddress.
func DecodeAddress(s string) (util.Uint160, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("decode base58: %w", err)
	}

	addr, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("decode address: %w", err)
	}

	return addr, nil
}

func checkSeeds(seeds [][]byte) error {
	if len(seeds) == 0 || len(seeds) > subscriptionconst.MaxSeeds {
		return fmt.Errorf("%w: %d seeds", ErrInvalidSeed, len(seeds))
	}

	for i := range seeds {
		if len(seeds[i]) == 0 || len(seeds[i]) > subscriptionconst.MaxSeedLen {
			return fmt.Errorf("%w: seed #%d has length %d", ErrInvalidSeed, i, len(seeds[i]))
		}
	}

	return nil
}

func deriveAddress(contract util.Uint160, seeds [][]byte, bump byte) util.Uint160 {
	preimage := contract.BytesBE()
	for i := range seeds {
		preimage = append(preimage, byte(len(seeds[i])))
		preimage = append(preimage, seeds[i]...)
	}
	preimage = append(preimage, bump)

	return hash.Hash160(preimage)
}

func isValidAddress(addr util.Uint160) bool {
	return addr.BytesBE()[0] >= subscriptionconst.ReservedKeySpace
}
