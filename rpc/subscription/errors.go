package subscription

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/subscription-contract/contracts/subscription/subscriptionconst"
)

// Errors returned by the contract. Use ParseFault to convert a failed
// invocation into one of them.
var (
	ErrPriceTooLow              = errors.New(subscriptionconst.ErrPriceTooLow)
	ErrConfigAlreadyInitialized = errors.New(subscriptionconst.ErrConfigAlreadyInitialized)
	ErrInvalidCreator           = errors.New(subscriptionconst.ErrInvalidCreator)
	ErrUnauthorized             = errors.New(subscriptionconst.ErrUnauthorized)
	ErrAlreadyPaused            = errors.New(subscriptionconst.ErrAlreadyPaused)
	ErrNotPaused                = errors.New(subscriptionconst.ErrNotPaused)
	ErrExpired                  = errors.New(subscriptionconst.ErrExpired)
	ErrConfigNotFound           = errors.New(subscriptionconst.ErrConfigNotFound)
	ErrSubscriptionNotFound     = errors.New(subscriptionconst.ErrSubscriptionNotFound)
	ErrAlreadyExists            = errors.New(subscriptionconst.ErrAlreadyExists)
	ErrInvalidPlan              = errors.New(subscriptionconst.ErrInvalidPlan)
	ErrPaymentFailed            = errors.New(subscriptionconst.ErrPaymentFailed)
	ErrInvalidSeed              = errors.New(subscriptionconst.ErrInvalidSeed)
	ErrNoValidBump              = errors.New(subscriptionconst.ErrNoValidBump)
	ErrRecordType               = errors.New(subscriptionconst.ErrRecordType)
	ErrRecordAddress            = errors.New(subscriptionconst.ErrRecordAddress)
	ErrInvalidAccount           = errors.New(subscriptionconst.ErrInvalidAccount)
	ErrUnexpectedDeposit        = errors.New(subscriptionconst.ErrUnexpectedDeposit)
)

var faults = []error{
	ErrPriceTooLow,
	ErrConfigAlreadyInitialized,
	ErrInvalidCreator,
	ErrUnauthorized,
	ErrAlreadyPaused,
	ErrNotPaused,
	ErrExpired,
	ErrConfigNotFound,
	ErrSubscriptionNotFound,
	ErrAlreadyExists,
	ErrInvalidPlan,
	ErrPaymentFailed,
	ErrInvalidSeed,
	ErrNoValidBump,
	ErrRecordType,
	ErrRecordAddress,
	ErrInvalidAccount,
	ErrUnexpectedDeposit,
}

// ParseFault maps error of the contract invocation to the corresponding
// contract error, so it can be checked with errors.Is. The original error is
// kept in the chain. Errors unrelated to the contract are returned as is.
func ParseFault(err error) error {
	if err == nil {
		return nil
	}

	if e := faultOf(err.Error()); e != nil {
		if errors.Is(err, e) {
			return err
		}
		return fmt.Errorf("%w: %w", e, err)
	}

	return err
}

// ParseFaultException converts FAULT exception message of the VM (e.g. from
// application log) to the contract error. Empty message means no fault.
func ParseFaultException(exception string) error {
	if exception == "" {
		return nil
	}

	if e := faultOf(exception); e != nil {
		return fmt.Errorf("%w: %s", e, exception)
	}

	return errors.New(exception)
}

func faultOf(msg string) error {
	for _, e := range faults {
		if strings.Contains(msg, e.Error()) {
			return e
		}
	}

	return nil
}
