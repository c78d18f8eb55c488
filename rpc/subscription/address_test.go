package subscription

import (
	"bytes"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/subscription-contract/contracts/subscription/subscriptionconst"
	"github.com/stretchr/testify/require"
)

var testContract = util.Uint160{0xde, 0xad, 0xbe, 0xef}

func TestFindAddress(t *testing.T) {
	seeds := [][]byte{[]byte("subscription"), util.Uint160{1, 2, 3}.BytesBE()}

	addr, bump, err := FindAddress(testContract, seeds)
	require.NoError(t, err)
	require.GreaterOrEqual(t, addr.BytesBE()[0], byte(subscriptionconst.ReservedKeySpace))

	t.Run("deterministic", func(t *testing.T) {
		addr2, bump2, err := FindAddress(testContract, seeds)
		require.NoError(t, err)
		require.Equal(t, addr, addr2)
		require.Equal(t, bump, bump2)
	})

	t.Run("same as explicit bump", func(t *testing.T) {
		addr2, err := CreateAddress(testContract, seeds, bump)
		require.NoError(t, err)
		require.Equal(t, addr, addr2)
	})

	t.Run("higher bumps are invalid", func(t *testing.T) {
		for b := subscriptionconst.MaxBump; b > int(bump); b-- {
			_, err := CreateAddress(testContract, seeds, byte(b))
			require.ErrorIs(t, err, ErrNoValidBump)
		}
	})

	t.Run("depends on contract", func(t *testing.T) {
		addr2, _, err := FindAddress(util.Uint160{0xca, 0xfe}, seeds)
		require.NoError(t, err)
		require.NotEqual(t, addr, addr2)
	})

	t.Run("seed boundaries are encoded", func(t *testing.T) {
		// "ab"+"c" and "a"+"bc" must not collide
		a1, _, err := FindAddress(testContract, [][]byte{[]byte("ab"), []byte("c")})
		require.NoError(t, err)
		a2, _, err := FindAddress(testContract, [][]byte{[]byte("a"), []byte("bc")})
		require.NoError(t, err)
		require.NotEqual(t, a1, a2)
	})
}

func TestFindAddressInvalidSeeds(t *testing.T) {
	for _, tc := range []struct {
		name  string
		seeds [][]byte
	}{
		{"no seeds", nil},
		{"empty seed", [][]byte{[]byte("config"), {}}},
		{"long seed", [][]byte{bytes.Repeat([]byte{1}, subscriptionconst.MaxSeedLen+1)}},
		{"too many seeds", make([][]byte, subscriptionconst.MaxSeeds+1)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := FindAddress(testContract, tc.seeds)
			require.ErrorIs(t, err, ErrInvalidSeed)

			_, err = CreateAddress(testContract, tc.seeds, 255)
			require.ErrorIs(t, err, ErrInvalidSeed)
		})
	}

	_, _, err := FindAddress(testContract, [][]byte{bytes.Repeat([]byte{1}, subscriptionconst.MaxSeedLen)})
	require.NoError(t, err)
}

func TestRecordAddresses(t *testing.T) {
	cfg, _, err := ConfigAddress(testContract)
	require.NoError(t, err)

	alice := util.Uint160{0xa1}
	bob := util.Uint160{0xb0}

	sAlice, _, err := SubscriptionAddress(testContract, alice)
	require.NoError(t, err)
	sBob, _, err := SubscriptionAddress(testContract, bob)
	require.NoError(t, err)

	require.NotEqual(t, cfg, sAlice)
	require.NotEqual(t, sAlice, sBob)

	expected, _, err := FindAddress(testContract, [][]byte{[]byte("subscription"), alice.BytesBE()})
	require.NoError(t, err)
	require.Equal(t, expected, sAlice)
}

func TestEncodeAddress(t *testing.T) {
	addr, _, err := ConfigAddress(testContract)
	require.NoError(t, err)

	s := EncodeAddress(addr)
	require.NotEmpty(t, s)

	decoded, err := DecodeAddress(s)
	require.NoError(t, err)
	require.Equal(t, addr, decoded)

	_, err = DecodeAddress("0OIl")
	require.Error(t, err)

	_, err = DecodeAddress(EncodeAddress(util.Uint160{})[1:])
	require.Error(t, err)
}
