// Package subscription contains RPC wrappers for Subscription contract.
package subscription

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// CreatorConfig is a contract-specific subscription.CreatorConfig type used by its methods.
type CreatorConfig struct {
	Owner          util.Uint160
	MonthlyPrice   *big.Int
	QuarterlyPrice *big.Int
	AnnualPrice    *big.Int
	Bump           *big.Int
}

// Subscription is a contract-specific subscription.Subscription type used by its methods.
type Subscription struct {
	Subscriber  util.Uint160
	PausedSince *big.Int
	Plan        *big.Int
	ExpiresAt   *big.Int
	Bump        *big.Int
}

// ConfigCreatedEvent represents "ConfigCreated" event emitted by the contract.
type ConfigCreatedEvent struct {
	Owner          util.Uint160
	MonthlyPrice   *big.Int
	QuarterlyPrice *big.Int
	AnnualPrice    *big.Int
}

// PriceUpdatedEvent represents "PriceUpdated" event emitted by the contract.
type PriceUpdatedEvent struct {
	Owner          util.Uint160
	MonthlyPrice   *big.Int
	QuarterlyPrice *big.Int
	AnnualPrice    *big.Int
}

// SubscribedEvent represents "Subscribed" event emitted by the contract.
type SubscribedEvent struct {
	Subscriber util.Uint160
	Creator    util.Uint160
	Plan       *big.Int
	ExpiresAt  *big.Int
}

// ExtendedEvent represents "Extended" event emitted by the contract.
type ExtendedEvent struct {
	Subscriber util.Uint160
	Plan       *big.Int
	ExpiresAt  *big.Int
}

// PausedEvent represents "Paused" event emitted by the contract.
type PausedEvent struct {
	Subscriber  util.Uint160
	PausedSince *big.Int
}

// ResumedEvent represents "Resumed" event emitted by the contract.
type ResumedEvent struct {
	Subscriber util.Uint160
	ExpiresAt  *big.Int
}

// CancelledEvent represents "Cancelled" event emitted by the contract.
type CancelledEvent struct {
	Subscriber util.Uint160
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Hash returns hash of the contract.
func (c *ContractReader) Hash() util.Uint160 {
	return c.hash
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// GetConfig invokes `getConfig` method of contract. It returns nil without
// error if the config is not created yet.
func (c *ContractReader) GetConfig() (*CreatorConfig, error) {
	return itemToCreatorConfig(unwrap.Item(c.invoker.Call(c.hash, "getConfig")))
}

// GetSubscription invokes `getSubscription` method of contract. It returns
// nil without error if the subscriber has no subscription.
func (c *ContractReader) GetSubscription(subscriber util.Uint160) (*Subscription, error) {
	return itemToSubscription(unwrap.Item(c.invoker.Call(c.hash, "getSubscription", subscriber)))
}

// IsActive invokes `isActive` method of contract.
func (c *ContractReader) IsActive(subscriber util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isActive", subscriber))
}

// ConfigAddress invokes `configAddress` method of contract.
func (c *ContractReader) ConfigAddress() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "configAddress"))
}

// SubscriptionAddress invokes `subscriptionAddress` method of contract.
func (c *ContractReader) SubscriptionAddress(subscriber util.Uint160) (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "subscriptionAddress", subscriber))
}

// RecordDeposit invokes `recordDeposit` method of contract.
func (c *ContractReader) RecordDeposit() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "recordDeposit"))
}

// IterateRecords invokes `iterateRecords` method of contract.
func (c *ContractReader) IterateRecords() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "iterateRecords"))
}

// IterateRecordsExpanded is similar to IterateRecords (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) IterateRecordsExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "iterateRecords", _numOfIteratorItems))
}

// CreateConfig creates a transaction invoking `createConfig` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateConfig(owner util.Uint160, monthly, quarterly, annual *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createConfig", owner, monthly, quarterly, annual)
}

// CreateConfigTransaction creates a transaction invoking `createConfig` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateConfigTransaction(owner util.Uint160, monthly, quarterly, annual *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "createConfig", owner, monthly, quarterly, annual)
}

// CreateConfigUnsigned creates a transaction invoking `createConfig` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateConfigUnsigned(owner util.Uint160, monthly, quarterly, annual *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "createConfig", nil, owner, monthly, quarterly, annual)
}

// UpdatePrice creates a transaction invoking `updatePrice` method of the contract.
// Nil prices are left unchanged by the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdatePrice(caller util.Uint160, monthly, quarterly, annual *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updatePrice", caller, optional(monthly), optional(quarterly), optional(annual))
}

// UpdatePriceTransaction creates a transaction invoking `updatePrice` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdatePriceTransaction(caller util.Uint160, monthly, quarterly, annual *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updatePrice", caller, optional(monthly), optional(quarterly), optional(annual))
}

// UpdatePriceUnsigned creates a transaction invoking `updatePrice` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdatePriceUnsigned(caller util.Uint160, monthly, quarterly, annual *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updatePrice", nil, caller, optional(monthly), optional(quarterly), optional(annual))
}

// Subscribe creates a transaction invoking `subscribe` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Subscribe(subscriber, creator util.Uint160, plan *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "subscribe", subscriber, creator, plan)
}

// SubscribeTransaction creates a transaction invoking `subscribe` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SubscribeTransaction(subscriber, creator util.Uint160, plan *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "subscribe", subscriber, creator, plan)
}

// SubscribeUnsigned creates a transaction invoking `subscribe` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SubscribeUnsigned(subscriber, creator util.Uint160, plan *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "subscribe", nil, subscriber, creator, plan)
}

// Extend creates a transaction invoking `extend` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Extend(subscriber, creator util.Uint160, plan *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "extend", subscriber, creator, plan)
}

// ExtendTransaction creates a transaction invoking `extend` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ExtendTransaction(subscriber, creator util.Uint160, plan *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "extend", subscriber, creator, plan)
}

// ExtendUnsigned creates a transaction invoking `extend` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ExtendUnsigned(subscriber, creator util.Uint160, plan *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "extend", nil, subscriber, creator, plan)
}

// Pause creates a transaction invoking `pause` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Pause(subscriber util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "pause", subscriber)
}

// PauseTransaction creates a transaction invoking `pause` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) PauseTransaction(subscriber util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "pause", subscriber)
}

// PauseUnsigned creates a transaction invoking `pause` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) PauseUnsigned(subscriber util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "pause", nil, subscriber)
}

// Resume creates a transaction invoking `resume` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Resume(subscriber util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "resume", subscriber)
}

// ResumeTransaction creates a transaction invoking `resume` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ResumeTransaction(subscriber util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "resume", subscriber)
}

// ResumeUnsigned creates a transaction invoking `resume` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ResumeUnsigned(subscriber util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "resume", nil, subscriber)
}

// Cancel creates a transaction invoking `cancel` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Cancel(subscriber util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "cancel", subscriber)
}

// CancelTransaction creates a transaction invoking `cancel` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CancelTransaction(subscriber util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "cancel", subscriber)
}

// CancelUnsigned creates a transaction invoking `cancel` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CancelUnsigned(subscriber util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "cancel", nil, subscriber)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// optional turns nil price into Null contract parameter.
func optional(v *big.Int) any {
	if v == nil {
		return nil
	}
	return v
}

// itemToCreatorConfig converts stack item into *CreatorConfig. Null item
// results in nil config.
func itemToCreatorConfig(item stackitem.Item, err error) (*CreatorConfig, error) {
	if err != nil {
		return nil, err
	}
	if item.Type() == stackitem.AnyT {
		return nil, nil
	}
	var res = new(CreatorConfig)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of CreatorConfig from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *CreatorConfig) FromStackItem(item stackitem.Item) error {
	arr, err := structFields(item, 5)
	if err != nil {
		return err
	}

	res.Owner, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	res.MonthlyPrice, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field MonthlyPrice: %w", err)
	}

	res.QuarterlyPrice, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field QuarterlyPrice: %w", err)
	}

	res.AnnualPrice, err = arr[3].TryInteger()
	if err != nil {
		return fmt.Errorf("field AnnualPrice: %w", err)
	}

	res.Bump, err = arr[4].TryInteger()
	if err != nil {
		return fmt.Errorf("field Bump: %w", err)
	}

	return nil
}

// itemToSubscription converts stack item into *Subscription. Null item
// results in nil subscription.
func itemToSubscription(item stackitem.Item, err error) (*Subscription, error) {
	if err != nil {
		return nil, err
	}
	if item.Type() == stackitem.AnyT {
		return nil, nil
	}
	var res = new(Subscription)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Subscription from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Subscription) FromStackItem(item stackitem.Item) error {
	arr, err := structFields(item, 5)
	if err != nil {
		return err
	}

	res.Subscriber, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Subscriber: %w", err)
	}

	res.PausedSince, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field PausedSince: %w", err)
	}

	res.Plan, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Plan: %w", err)
	}

	res.ExpiresAt, err = arr[3].TryInteger()
	if err != nil {
		return fmt.Errorf("field ExpiresAt: %w", err)
	}

	res.Bump, err = arr[4].TryInteger()
	if err != nil {
		return fmt.Errorf("field Bump: %w", err)
	}

	return nil
}

// ConfigCreatedEventsFromApplicationLog retrieves a set of all emitted events
// with "ConfigCreated" name from the provided [result.ApplicationLog].
func ConfigCreatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ConfigCreatedEvent, error) {
	return eventsFromApplicationLog[ConfigCreatedEvent](log, "ConfigCreated")
}

// FromStackItem converts provided [stackitem.Array] to ConfigCreatedEvent or
// returns an error if it's not possible to do to so.
func (e *ConfigCreatedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 4)
	if err != nil {
		return err
	}

	e.Owner, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	return integerFields(arr[1:], []string{"MonthlyPrice", "QuarterlyPrice", "AnnualPrice"},
		&e.MonthlyPrice, &e.QuarterlyPrice, &e.AnnualPrice)
}

// PriceUpdatedEventsFromApplicationLog retrieves a set of all emitted events
// with "PriceUpdated" name from the provided [result.ApplicationLog].
func PriceUpdatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*PriceUpdatedEvent, error) {
	return eventsFromApplicationLog[PriceUpdatedEvent](log, "PriceUpdated")
}

// FromStackItem converts provided [stackitem.Array] to PriceUpdatedEvent or
// returns an error if it's not possible to do to so.
func (e *PriceUpdatedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 4)
	if err != nil {
		return err
	}

	e.Owner, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	return integerFields(arr[1:], []string{"MonthlyPrice", "QuarterlyPrice", "AnnualPrice"},
		&e.MonthlyPrice, &e.QuarterlyPrice, &e.AnnualPrice)
}

// SubscribedEventsFromApplicationLog retrieves a set of all emitted events
// with "Subscribed" name from the provided [result.ApplicationLog].
func SubscribedEventsFromApplicationLog(log *result.ApplicationLog) ([]*SubscribedEvent, error) {
	return eventsFromApplicationLog[SubscribedEvent](log, "Subscribed")
}

// FromStackItem converts provided [stackitem.Array] to SubscribedEvent or
// returns an error if it's not possible to do to so.
func (e *SubscribedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 4)
	if err != nil {
		return err
	}

	e.Subscriber, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Subscriber: %w", err)
	}

	e.Creator, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Creator: %w", err)
	}

	return integerFields(arr[2:], []string{"Plan", "ExpiresAt"}, &e.Plan, &e.ExpiresAt)
}

// ExtendedEventsFromApplicationLog retrieves a set of all emitted events
// with "Extended" name from the provided [result.ApplicationLog].
func ExtendedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ExtendedEvent, error) {
	return eventsFromApplicationLog[ExtendedEvent](log, "Extended")
}

// FromStackItem converts provided [stackitem.Array] to ExtendedEvent or
// returns an error if it's not possible to do to so.
func (e *ExtendedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.Subscriber, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Subscriber: %w", err)
	}

	return integerFields(arr[1:], []string{"Plan", "ExpiresAt"}, &e.Plan, &e.ExpiresAt)
}

// PausedEventsFromApplicationLog retrieves a set of all emitted events
// with "Paused" name from the provided [result.ApplicationLog].
func PausedEventsFromApplicationLog(log *result.ApplicationLog) ([]*PausedEvent, error) {
	return eventsFromApplicationLog[PausedEvent](log, "Paused")
}

// FromStackItem converts provided [stackitem.Array] to PausedEvent or
// returns an error if it's not possible to do to so.
func (e *PausedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}

	e.Subscriber, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Subscriber: %w", err)
	}

	return integerFields(arr[1:], []string{"PausedSince"}, &e.PausedSince)
}

// ResumedEventsFromApplicationLog retrieves a set of all emitted events
// with "Resumed" name from the provided [result.ApplicationLog].
func ResumedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ResumedEvent, error) {
	return eventsFromApplicationLog[ResumedEvent](log, "Resumed")
}

// FromStackItem converts provided [stackitem.Array] to ResumedEvent or
// returns an error if it's not possible to do to so.
func (e *ResumedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}

	e.Subscriber, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Subscriber: %w", err)
	}

	return integerFields(arr[1:], []string{"ExpiresAt"}, &e.ExpiresAt)
}

// CancelledEventsFromApplicationLog retrieves a set of all emitted events
// with "Cancelled" name from the provided [result.ApplicationLog].
func CancelledEventsFromApplicationLog(log *result.ApplicationLog) ([]*CancelledEvent, error) {
	return eventsFromApplicationLog[CancelledEvent](log, "Cancelled")
}

// FromStackItem converts provided [stackitem.Array] to CancelledEvent or
// returns an error if it's not possible to do to so.
func (e *CancelledEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 1)
	if err != nil {
		return err
	}

	e.Subscriber, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Subscriber: %w", err)
	}

	return nil
}

type event[T any] interface {
	*T
	FromStackItem(*stackitem.Array) error
}

func eventsFromApplicationLog[T any, PT event[T]](log *result.ApplicationLog, name string) ([]*T, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*T
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != name {
				continue
			}
			ev := PT(new(T))
			err := ev.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize %sEvent from stackitem (execution #%d, event #%d): %w", name, i, j, err)
			}
			res = append(res, (*T)(ev))
		}
	}

	return res, nil
}

func eventFields(item *stackitem.Array, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	return structFields(item, n)
}

func structFields(item stackitem.Item, n int) ([]stackitem.Item, error) {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != n {
		return nil, errors.New("wrong number of structure elements")
	}
	return arr, nil
}

func integerFields(items []stackitem.Item, names []string, dst ...**big.Int) error {
	var err error
	for i := range dst {
		*dst[i], err = items[i].TryInteger()
		if err != nil {
			return fmt.Errorf("field %s: %w", names[i], err)
		}
	}
	return nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, err
	}
	return u, nil
}
