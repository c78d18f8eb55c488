package dump

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/subscription-contract/contracts/subscription/subscriptionconst"
	"github.com/nspcc-dev/subscription-contract/rpc/subscription"
	"github.com/stretchr/testify/require"
)

var testContract = util.Uint160{0x51, 0xb5}

func testState(t testing.TB) state.Contract {
	f, err := nef.NewFile(make([]byte, 16))
	require.NoError(t, err)

	return state.Contract{
		ContractBase: state.ContractBase{
			ID:       7,
			Hash:     testContract,
			NEF:      *f,
			Manifest: *manifest.NewManifest("Subscription"),
		},
	}
}

func record(t testing.TB, discriminator byte, fields ...stackitem.Item) []byte {
	b, err := stackitem.Serialize(stackitem.NewStruct(fields))
	require.NoError(t, err)
	return append([]byte{discriminator}, b...)
}

type storageItem struct {
	kind       string
	key, value []byte
}

func testStorage(t testing.TB) []storageItem {
	owner := util.Uint160{0x0a}
	subscriber := util.Uint160{0x0b}

	cfgAddr, cfgBump, err := subscription.ConfigAddress(testContract)
	require.NoError(t, err)
	subAddr, subBump, err := subscription.SubscriptionAddress(testContract, subscriber)
	require.NoError(t, err)

	return []storageItem{
		{KindService, []byte{subscriptionconst.RecordDepositKey}, []byte{0x00, 0xe1, 0xf5, 0x05}},
		{KindConfig, cfgAddr.BytesBE(), record(t, subscriptionconst.ConfigDiscriminator,
			stackitem.NewByteArray(owner.BytesBE()),
			stackitem.Make(1), stackitem.Make(2), stackitem.Make(3),
			stackitem.Make(int(cfgBump)),
		)},
		{KindSubscription, subAddr.BytesBE(), record(t, subscriptionconst.SubscriptionDiscriminator,
			stackitem.NewByteArray(subscriber.BytesBE()),
			stackitem.Make(0),
			stackitem.Make(subscriptionconst.PlanMonthly),
			stackitem.Make(1_700_000_000),
			stackitem.Make(int(subBump)),
		)},
		{KindInvalid, subAddr.BytesBE(), []byte{0xff, 0x00}},
	}
}

func TestDump(t *testing.T) {
	dir := t.TempDir()
	id := ID{Label: "testnet", Block: 1024}
	st := testState(t)
	items := testStorage(t)

	c, err := NewCreator(dir, id)
	require.NoError(t, err)

	for i := range items {
		require.NoError(t, c.Write(items[i].key, items[i].value))
	}

	require.NoError(t, c.Flush(st))
	c.Close()

	_, err = NewCreator(dir, id)
	require.Error(t, err, "dump must not be overwritten")

	var n int

	err = IterateDumps(dir, func(readID ID, r *Reader) {
		n++

		require.Equal(t, id, readID)

		readState := r.ContractState()
		require.Equal(t, st.ID, readState.ID)
		require.Equal(t, st.Hash, readState.Hash)
		require.Equal(t, st.Manifest.Name, readState.Manifest.Name)

		var read []storageItem
		r.IterateStorage(func(kind string, key, value []byte) {
			read = append(read, storageItem{kind, key, value})
		})
		require.Equal(t, items, read)

		_, err := r.Records()
		require.Error(t, err, "invalid item must fail decoding")
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestReaderRecords(t *testing.T) {
	dir := t.TempDir()
	items := testStorage(t)
	items = items[:len(items)-1]

	c, err := NewCreator(dir, ID{Label: "mainnet", Block: 1})
	require.NoError(t, err)

	for i := range items {
		require.NoError(t, c.Write(items[i].key, items[i].value))
	}

	require.NoError(t, c.Flush(testState(t)))
	c.Close()

	err = IterateDumps(dir, func(_ ID, r *Reader) {
		recs, err := r.Records()
		require.NoError(t, err)
		require.Len(t, recs, 2)

		for i := range recs {
			require.NoError(t, recs[i].Verify(testContract))
		}

		require.Equal(t, KindConfig, recs[0].Kind())
		require.Equal(t, KindSubscription, recs[1].Kind())
	})
	require.NoError(t, err)
}

func TestIterateDumpsMissingDir(t *testing.T) {
	require.NoError(t, IterateDumps(filepath.Join(t.TempDir(), "missing"), func(ID, *Reader) {
		t.Fatal("no dumps expected")
	}))
}

func TestIterateDumpsCorrupted(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "testnet-1-contract.json"), []byte("{"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "testnet-1-storage.csv"), nil, 0o600))

	require.Error(t, IterateDumps(dir, func(ID, *Reader) {}))
}
