package subscription

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/subscription-contract/common"
	"github.com/nspcc-dev/subscription-contract/contracts/subscription/subscriptionconst"
)

type (
	// CreatorConfig is a singleton record holding the service owner and
	// prices of all plans.
	CreatorConfig struct {
		Owner          interop.Hash160
		MonthlyPrice   int
		QuarterlyPrice int
		AnnualPrice    int
		// Bump used to derive the record address.
		Bump int
	}

	// Subscription is a record of the single subscriber. PausedSince is zero
	// for running subscriptions.
	Subscription struct {
		Subscriber  interop.Hash160
		PausedSince int
		Plan        int
		ExpiresAt   int
		// Bump used to derive the record address.
		Bump int
	}
)

// depositMarker tags deposit transfers made by the contract itself.
const depositMarker = "subscription-deposit"

// nolint:unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		recordDeposit int
	})

	if args.recordDeposit < 0 {
		panic("negative record deposit")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, []byte{subscriptionconst.RecordDepositKey}, args.recordDeposit)

	runtime.Log("subscription contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("subscription contract updated")
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract. It
// accepts record deposits made during Subscribe only.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		panic("only GAS can be accepted for deposit")
	}

	if data == nil || data.(string) != depositMarker {
		panic("direct payments are not accepted")
	}

	ctx := storage.GetReadOnlyContext()

	pending := storage.Get(ctx, []byte{subscriptionconst.PendingDepositKey})
	if pending == nil || !from.Equals(pending) || amount != recordDeposit(ctx) {
		panic(subscriptionconst.ErrUnexpectedDeposit)
	}

	if _, _, ok := readSubscription(ctx, from); !ok {
		panic(subscriptionconst.ErrUnexpectedDeposit)
	}
}

// CreateConfig allocates the creator configuration record. The owner becomes
// the only account allowed to change prices. The transaction must be
// witnessed by the owner.
//
// CreateConfig fails if the record already exists or any price is not
// positive. It produces ConfigCreated notification.
func CreateConfig(owner interop.Hash160, monthly, quarterly, annual int) {
	ctx := storage.GetContext()

	common.CheckWitnessWithMessage(owner, subscriptionconst.ErrUnauthorized)

	key, bump := configKey()
	if storage.Get(ctx, key) != nil {
		panic(subscriptionconst.ErrConfigAlreadyInitialized)
	}

	checkPrice(monthly)
	checkPrice(quarterly)
	checkPrice(annual)

	cfg := CreatorConfig{
		Owner:          owner,
		MonthlyPrice:   monthly,
		QuarterlyPrice: quarterly,
		AnnualPrice:    annual,
		Bump:           bump,
	}
	common.SetTagged(ctx, key, subscriptionconst.ConfigDiscriminator, cfg)

	runtime.Log("creator config created")
	runtime.Notify("ConfigCreated", owner, monthly, quarterly, annual)
}

// UpdatePrice overwrites prices of the plans. Null arguments leave the
// corresponding price unchanged. Caller must be the config owner and witness
// the transaction.
//
// It produces PriceUpdated notification with the resulting prices.
func UpdatePrice(caller interop.Hash160, monthly, quarterly, annual any) {
	ctx := storage.GetContext()

	common.CheckWitnessWithMessage(caller, subscriptionconst.ErrUnauthorized)

	cfg, key, ok := readConfig(ctx)
	if !ok {
		panic(subscriptionconst.ErrConfigNotFound)
	}

	if !cfg.Owner.Equals(caller) {
		panic(subscriptionconst.ErrInvalidCreator)
	}

	if monthly != nil {
		price := monthly.(int)
		checkPrice(price)
		cfg.MonthlyPrice = price
	}

	if quarterly != nil {
		price := quarterly.(int)
		checkPrice(price)
		cfg.QuarterlyPrice = price
	}

	if annual != nil {
		price := annual.(int)
		checkPrice(price)
		cfg.AnnualPrice = price
	}

	common.SetTagged(ctx, key, subscriptionconst.ConfigDiscriminator, cfg)

	runtime.Notify("PriceUpdated", cfg.Owner, cfg.MonthlyPrice, cfg.QuarterlyPrice, cfg.AnnualPrice)
}

// Subscribe creates subscription record of the subscriber for the given plan
// and transfers plan price in GAS from the subscriber to the creator. Creator
// must be the config owner. If record deposit is configured, it is
// transferred from the subscriber to the contract and returned by Cancel.
//
// Subscribe fails if the subscriber already has a subscription. It produces
// Subscribed notification.
func Subscribe(subscriber, creator interop.Hash160, plan int) {
	ctx := storage.GetContext()

	common.CheckWitnessWithMessage(subscriber, subscriptionconst.ErrUnauthorized)

	cfg := mustReadConfig(ctx)
	if !cfg.Owner.Equals(creator) {
		panic(subscriptionconst.ErrInvalidCreator)
	}

	price := cfg.priceOf(plan)

	key, bump := subscriptionKey(subscriber)
	if storage.Get(ctx, key) != nil {
		panic(subscriptionconst.ErrAlreadyExists)
	}

	s := Subscription{
		Subscriber:  subscriber,
		PausedSince: 0,
		Plan:        plan,
		ExpiresAt:   now() + planDuration(plan),
		Bump:        bump,
	}
	common.SetTagged(ctx, key, subscriptionconst.SubscriptionDiscriminator, s)

	common.TransferGAS(subscriber, creator, price, nil, subscriptionconst.ErrPaymentFailed)
	pendingKey := []byte{subscriptionconst.PendingDepositKey}
	storage.Put(ctx, pendingKey, subscriber)
	common.TransferGAS(subscriber, runtime.GetExecutingScriptHash(), recordDeposit(ctx), depositMarker,
		subscriptionconst.ErrPaymentFailed)
	storage.Delete(ctx, pendingKey)

	runtime.Notify("Subscribed", subscriber, creator, plan, s.ExpiresAt)
}

// Extend prolongs the subscription by the plan duration and pays plan price
// to the creator. The duration is always added to the stored expiration
// time, including lapsed and paused subscriptions. The plan of the record is
// replaced by the given one.
//
// It produces Extended notification.
func Extend(subscriber, creator interop.Hash160, plan int) {
	ctx := storage.GetContext()

	s, key := loadOwnSubscription(ctx, subscriber)

	cfg := mustReadConfig(ctx)
	if !cfg.Owner.Equals(creator) {
		panic(subscriptionconst.ErrInvalidCreator)
	}

	price := cfg.priceOf(plan)

	s.ExpiresAt += planDuration(plan)
	s.Plan = plan
	common.SetTagged(ctx, key, subscriptionconst.SubscriptionDiscriminator, s)

	common.TransferGAS(subscriber, creator, price, nil, subscriptionconst.ErrPaymentFailed)

	runtime.Notify("Extended", subscriber, plan, s.ExpiresAt)
}

// Pause freezes expiration time of the subscription. Expired or already
// paused subscriptions can't be paused.
//
// It produces Paused notification.
func Pause(subscriber interop.Hash160) {
	ctx := storage.GetContext()

	s, key := loadOwnSubscription(ctx, subscriber)
	if s.PausedSince != 0 {
		panic(subscriptionconst.ErrAlreadyPaused)
	}

	t := now()
	if t >= s.ExpiresAt {
		panic(subscriptionconst.ErrExpired)
	}

	s.PausedSince = t
	common.SetTagged(ctx, key, subscriptionconst.SubscriptionDiscriminator, s)

	runtime.Notify("Paused", subscriber, t)
}

// Resume unfreezes paused subscription. Expiration time is moved forward by
// the time spent in pause.
//
// It produces Resumed notification.
func Resume(subscriber interop.Hash160) {
	ctx := storage.GetContext()

	s, key := loadOwnSubscription(ctx, subscriber)
	if s.PausedSince == 0 {
		panic(subscriptionconst.ErrNotPaused)
	}

	s.ExpiresAt = s.ExpiresAt + now() - s.PausedSince
	s.PausedSince = 0
	common.SetTagged(ctx, key, subscriptionconst.SubscriptionDiscriminator, s)

	runtime.Notify("Resumed", subscriber, s.ExpiresAt)
}

// Cancel removes the subscription record in any state and returns record
// deposit to the subscriber. Unused subscription time is not refunded.
//
// It produces Cancelled notification.
func Cancel(subscriber interop.Hash160) {
	ctx := storage.GetContext()

	_, key := loadOwnSubscription(ctx, subscriber)
	storage.Delete(ctx, key)

	common.TransferGAS(runtime.GetExecutingScriptHash(), subscriber, recordDeposit(ctx), nil,
		subscriptionconst.ErrPaymentFailed)

	runtime.Log("subscription cancelled")
	runtime.Notify("Cancelled", subscriber)
}

// GetConfig returns CreatorConfig structure or null if the config is not
// created yet.
func GetConfig() any {
	cfg, _, ok := readConfig(storage.GetReadOnlyContext())
	if !ok {
		return nil
	}

	return cfg
}

// GetSubscription returns Subscription structure of the subscriber or null if
// there is no such subscription.
func GetSubscription(subscriber interop.Hash160) any {
	checkAccount(subscriber)

	s, _, ok := readSubscription(storage.GetReadOnlyContext(), subscriber)
	if !ok {
		return nil
	}

	return s
}

// IsActive checks whether the subscriber has a running subscription that is
// not expired at the current block time.
func IsActive(subscriber interop.Hash160) bool {
	checkAccount(subscriber)

	s, _, ok := readSubscription(storage.GetReadOnlyContext(), subscriber)
	if !ok {
		return false
	}

	return s.PausedSince == 0 && now() < s.ExpiresAt
}

// ConfigAddress returns storage address of the creator config record.
func ConfigAddress() interop.Hash160 {
	key, _ := configKey()
	return key
}

// SubscriptionAddress returns storage address of the subscription record of
// the subscriber.
func SubscriptionAddress(subscriber interop.Hash160) interop.Hash160 {
	checkAccount(subscriber)

	key, _ := subscriptionKey(subscriber)
	return key
}

// RecordDeposit returns amount of GAS held by the contract for each
// subscription record.
func RecordDeposit() int {
	return recordDeposit(storage.GetReadOnlyContext())
}

// IterateRecords returns iterator over all key-value pairs stored in the
// contract.
func IterateRecords() iterator.Iterator {
	return storage.Find(storage.GetReadOnlyContext(), []byte{}, storage.None)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func (c CreatorConfig) priceOf(plan int) int {
	switch plan {
	case subscriptionconst.PlanMonthly:
		return c.MonthlyPrice
	case subscriptionconst.PlanQuarterly:
		return c.QuarterlyPrice
	case subscriptionconst.PlanAnnual:
		return c.AnnualPrice
	default:
		panic(subscriptionconst.ErrInvalidPlan)
	}
}

func planDuration(plan int) int {
	switch plan {
	case subscriptionconst.PlanMonthly:
		return subscriptionconst.MonthlyDuration
	case subscriptionconst.PlanQuarterly:
		return subscriptionconst.QuarterlyDuration
	case subscriptionconst.PlanAnnual:
		return subscriptionconst.AnnualDuration
	default:
		panic(subscriptionconst.ErrInvalidPlan)
	}
}

// now returns current block time in seconds.
func now() int {
	return runtime.GetTime() / 1000
}

func checkPrice(price int) {
	if price <= 0 {
		panic(subscriptionconst.ErrPriceTooLow)
	}
}

func checkAccount(acc interop.Hash160) {
	if len(acc) != interop.Hash160Len {
		panic(subscriptionconst.ErrInvalidAccount)
	}
}

func recordDeposit(ctx storage.Context) int {
	return common.GetInt(ctx, []byte{subscriptionconst.RecordDepositKey}, 0)
}

func readConfig(ctx storage.Context) (CreatorConfig, interop.Hash160, bool) {
	key, bump := configKey()

	v := common.GetTagged(ctx, key, subscriptionconst.ConfigDiscriminator, subscriptionconst.ErrRecordType)
	if v == nil {
		return CreatorConfig{}, key, false
	}

	cfg := v.(CreatorConfig)
	if cfg.Bump != bump {
		panic(subscriptionconst.ErrRecordAddress)
	}

	return cfg, key, true
}

func mustReadConfig(ctx storage.Context) CreatorConfig {
	cfg, _, ok := readConfig(ctx)
	if !ok {
		panic(subscriptionconst.ErrConfigNotFound)
	}

	return cfg
}

func readSubscription(ctx storage.Context, subscriber interop.Hash160) (Subscription, interop.Hash160, bool) {
	key, bump := subscriptionKey(subscriber)

	v := common.GetTagged(ctx, key, subscriptionconst.SubscriptionDiscriminator, subscriptionconst.ErrRecordType)
	if v == nil {
		return Subscription{}, key, false
	}

	s := v.(Subscription)
	if s.Bump != bump {
		panic(subscriptionconst.ErrRecordAddress)
	}

	return s, key, true
}

// loadOwnSubscription returns subscription record of the subscriber who must
// witness current transaction.
func loadOwnSubscription(ctx storage.Context, subscriber interop.Hash160) (Subscription, interop.Hash160) {
	common.CheckWitnessWithMessage(subscriber, subscriptionconst.ErrUnauthorized)

	s, key, ok := readSubscription(ctx, subscriber)
	if !ok {
		panic(subscriptionconst.ErrSubscriptionNotFound)
	}

	if !s.Subscriber.Equals(subscriber) {
		panic(subscriptionconst.ErrUnauthorized)
	}

	return s, key
}
