package subscription

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/subscription-contract/contracts/subscription/subscriptionconst"
)

// ErrNotRecord is returned by DecodeRecord for contract service entries.
var ErrNotRecord = errors.New("not a record")

// Record is a decoded contract storage item. Exactly one of Config and
// Subscription is set.
type Record struct {
	Address      util.Uint160
	Config       *CreatorConfig
	Subscription *Subscription
}

// Kind returns record type name.
func (r *Record) Kind() string {
	if r.Config != nil {
		return "config"
	}
	return "subscription"
}

// Seeds returns seeds the record address must be derived from.
func (r *Record) Seeds() [][]byte {
	if r.Config != nil {
		return [][]byte{[]byte(subscriptionconst.ConfigSeed)}
	}
	return [][]byte{[]byte(subscriptionconst.SubscriptionSeed), r.Subscription.Subscriber.BytesBE()}
}

func (r *Record) bump() int64 {
	if r.Config != nil {
		return r.Config.Bump.Int64()
	}
	return r.Subscription.Bump.Int64()
}

// Verify checks that the record is stored at the canonical address of the
// given contract.
func (r *Record) Verify(contract util.Uint160) error {
	addr, bump, err := FindAddress(contract, r.Seeds())
	if err != nil {
		return err
	}

	if int64(bump) != r.bump() || !addr.Equals(r.Address) {
		return fmt.Errorf("%w: stored at %s, expected %s", ErrRecordAddress, EncodeAddress(r.Address), EncodeAddress(addr))
	}

	return nil
}

// DecodeRecord decodes raw contract storage item. Service entries are
// reported with ErrNotRecord.
func DecodeRecord(key, value []byte) (*Record, error) {
	if len(key) != util.Uint160Size {
		return nil, ErrNotRecord
	}

	if len(value) == 0 {
		return nil, fmt.Errorf("%w: empty value", ErrRecordType)
	}

	addr, err := util.Uint160DecodeBytesBE(key)
	if err != nil {
		return nil, fmt.Errorf("decode address: %w", err)
	}

	item, err := stackitem.Deserialize(value[1:])
	if err != nil {
		return nil, fmt.Errorf("deserialize record: %w", err)
	}

	r := &Record{Address: addr}

	switch value[0] {
	case subscriptionconst.ConfigDiscriminator:
		r.Config = new(CreatorConfig)
		err = r.Config.FromStackItem(item)
	case subscriptionconst.SubscriptionDiscriminator:
		r.Subscription = new(Subscription)
		err = r.Subscription.FromStackItem(item)
	default:
		return nil, fmt.Errorf("%w: discriminator %d", ErrRecordType, value[0])
	}

	if err != nil {
		return nil, fmt.Errorf("decode %s record: %w", r.Kind(), err)
	}

	return r, nil
}

// RecordFromIteratorItem decodes key-value pair returned by the iterateRecords
// contract method.
func RecordFromIteratorItem(item stackitem.Item) (*Record, error) {
	kv, err := structFields(item, 2)
	if err != nil {
		return nil, fmt.Errorf("storage item: %w", err)
	}

	key, err := kv[0].TryBytes()
	if err != nil {
		return nil, fmt.Errorf("storage key: %w", err)
	}

	value, err := kv[1].TryBytes()
	if err != nil {
		return nil, fmt.Errorf("storage value: %w", err)
	}

	return DecodeRecord(key, value)
}

// Records returns up to maxItems records stored in the contract. Service
// entries are skipped.
func (c *ContractReader) Records(maxItems int) ([]*Record, error) {
	items, err := c.IterateRecordsExpanded(maxItems)
	if err != nil {
		return nil, err
	}

	res := make([]*Record, 0, len(items))
	for i := range items {
		r, err := RecordFromIteratorItem(items[i])
		if errors.Is(err, ErrNotRecord) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("item #%d: %w", i, err)
		}
		res = append(res, r)
	}

	return res, nil
}
