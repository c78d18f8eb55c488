/*
Package subscriptionconst contains constants shared by the Subscription
contract and its off-chain clients.
*/
package subscriptionconst

// Subscription plans.
const (
	PlanMonthly   = 0
	PlanQuarterly = 1
	PlanAnnual    = 2
)

// Plan durations in seconds.
const (
	MonthlyDuration   = 30 * 24 * 60 * 60
	QuarterlyDuration = 90 * 24 * 60 * 60
	AnnualDuration    = 365 * 24 * 60 * 60
)

// Namespace tags used as the first seed of record addresses.
const (
	ConfigSeed       = "config"
	SubscriptionSeed = "subscription"
)

// Record discriminators prepended to serialized storage values.
const (
	ConfigDiscriminator       = 0x01
	SubscriptionDiscriminator = 0x02
)

// Address derivation limits. Derived addresses starting with a byte lower
// than ReservedKeySpace are rejected: that key range belongs to contract
// service entries.
const (
	MaxSeeds         = 16
	MaxSeedLen       = 32
	MaxBump          = 255
	ReservedKeySpace = 0x10

	// RecordDepositKey stores GAS amount held per subscription record.
	RecordDepositKey = 0x01
	// PendingDepositKey holds the subscriber whose deposit is being
	// transferred. It exists within a single Subscribe call only.
	PendingDepositKey = 0x02
)

// Fault exception messages of the contract.
const (
	ErrPriceTooLow              = "price is too low"
	ErrConfigAlreadyInitialized = "config already initialized"
	ErrInvalidCreator           = "invalid creator"
	ErrUnauthorized             = "unauthorized"
	ErrAlreadyPaused            = "subscription already paused"
	ErrNotPaused                = "subscription is not paused"
	ErrExpired                  = "subscription expired"
	ErrConfigNotFound           = "config not found"
	ErrSubscriptionNotFound     = "subscription not found"
	ErrAlreadyExists            = "subscription already exists"
	ErrInvalidPlan              = "invalid plan"
	ErrPaymentFailed            = "payment transfer failed"
	ErrInvalidSeed              = "invalid address seed"
	ErrNoValidBump              = "no valid address bump"
	ErrRecordType               = "unexpected record type"
	ErrRecordAddress            = "record address mismatch"
	ErrInvalidAccount           = "invalid account"
	ErrUnexpectedDeposit        = "unexpected deposit"
)
