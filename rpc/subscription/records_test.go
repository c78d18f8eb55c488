package subscription

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/subscription-contract/contracts/subscription/subscriptionconst"
	"github.com/stretchr/testify/require"
)

func serializeRecord(t testing.TB, discriminator byte, fields ...stackitem.Item) []byte {
	b, err := stackitem.Serialize(stackitem.NewStruct(fields))
	require.NoError(t, err)
	return append([]byte{discriminator}, b...)
}

func configItems(owner util.Uint160, bump byte) []stackitem.Item {
	return []stackitem.Item{
		stackitem.NewByteArray(owner.BytesBE()),
		stackitem.Make(10_000_000),
		stackitem.Make(20_000_000),
		stackitem.Make(50_000_000),
		stackitem.Make(int(bump)),
	}
}

func subscriptionItems(subscriber util.Uint160, bump byte) []stackitem.Item {
	return []stackitem.Item{
		stackitem.NewByteArray(subscriber.BytesBE()),
		stackitem.Make(0),
		stackitem.Make(subscriptionconst.PlanAnnual),
		stackitem.Make(1_700_000_000),
		stackitem.Make(int(bump)),
	}
}

func TestDecodeRecord(t *testing.T) {
	owner := util.Uint160{0x0a}
	subscriber := util.Uint160{0x0b}

	cfgAddr, cfgBump, err := ConfigAddress(testContract)
	require.NoError(t, err)
	subAddr, subBump, err := SubscriptionAddress(testContract, subscriber)
	require.NoError(t, err)

	t.Run("config", func(t *testing.T) {
		r, err := DecodeRecord(cfgAddr.BytesBE(),
			serializeRecord(t, subscriptionconst.ConfigDiscriminator, configItems(owner, cfgBump)...))
		require.NoError(t, err)
		require.Equal(t, "config", r.Kind())
		require.Nil(t, r.Subscription)
		require.Equal(t, owner, r.Config.Owner)
		require.EqualValues(t, 50_000_000, r.Config.AnnualPrice.Int64())
		require.NoError(t, r.Verify(testContract))
	})

	t.Run("subscription", func(t *testing.T) {
		r, err := DecodeRecord(subAddr.BytesBE(),
			serializeRecord(t, subscriptionconst.SubscriptionDiscriminator, subscriptionItems(subscriber, subBump)...))
		require.NoError(t, err)
		require.Equal(t, "subscription", r.Kind())
		require.Nil(t, r.Config)
		require.Equal(t, subscriber, r.Subscription.Subscriber)
		require.EqualValues(t, subscriptionconst.PlanAnnual, r.Subscription.Plan.Int64())
		require.NoError(t, r.Verify(testContract))
	})

	t.Run("moved record", func(t *testing.T) {
		r, err := DecodeRecord(cfgAddr.BytesBE(),
			serializeRecord(t, subscriptionconst.SubscriptionDiscriminator, subscriptionItems(subscriber, subBump)...))
		require.NoError(t, err)
		require.ErrorIs(t, r.Verify(testContract), ErrRecordAddress)
	})

	t.Run("service entry", func(t *testing.T) {
		_, err := DecodeRecord([]byte{subscriptionconst.RecordDepositKey}, []byte{1})
		require.ErrorIs(t, err, ErrNotRecord)
	})

	t.Run("foreign discriminator", func(t *testing.T) {
		_, err := DecodeRecord(cfgAddr.BytesBE(), serializeRecord(t, 0x7f, configItems(owner, cfgBump)...))
		require.ErrorIs(t, err, ErrRecordType)

		_, err = DecodeRecord(cfgAddr.BytesBE(), nil)
		require.ErrorIs(t, err, ErrRecordType)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := DecodeRecord(cfgAddr.BytesBE(), []byte{subscriptionconst.ConfigDiscriminator, 0xff})
		require.Error(t, err)

		_, err = DecodeRecord(cfgAddr.BytesBE(),
			serializeRecord(t, subscriptionconst.ConfigDiscriminator, configItems(owner, cfgBump)[:3]...))
		require.Error(t, err)
	})
}

func TestContractReaderRecords(t *testing.T) {
	subscriber := util.Uint160{0x0c}
	subAddr, subBump, err := SubscriptionAddress(testContract, subscriber)
	require.NoError(t, err)

	kv := func(k, v []byte) stackitem.Item {
		return stackitem.NewStruct([]stackitem.Item{stackitem.NewByteArray(k), stackitem.NewByteArray(v)})
	}

	ti := new(testInv)
	ti.res = &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{stackitem.NewArray([]stackitem.Item{
			kv([]byte{subscriptionconst.RecordDepositKey}, big.NewInt(100).Bytes()),
			kv(subAddr.BytesBE(), serializeRecord(t, subscriptionconst.SubscriptionDiscriminator, subscriptionItems(subscriber, subBump)...)),
		})},
	}

	recs, err := NewReader(ti, testContract).Records(10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, subAddr, recs[0].Address)

	ti.res.Stack = []stackitem.Item{stackitem.NewArray([]stackitem.Item{stackitem.Make(1)})}
	_, err = NewReader(ti, testContract).Records(10)
	require.Error(t, err)
}
