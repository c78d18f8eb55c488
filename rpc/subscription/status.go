package subscription

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/nspcc-dev/subscription-contract/contracts/subscription/subscriptionconst"
)

// Plan is a subscription plan.
type Plan int64

// Supported plans.
const (
	PlanMonthly   Plan = subscriptionconst.PlanMonthly
	PlanQuarterly Plan = subscriptionconst.PlanQuarterly
	PlanAnnual    Plan = subscriptionconst.PlanAnnual
)

// ParsePlan parses plan name, one of "monthly", "quarterly" or "annual".
func ParsePlan(s string) (Plan, error) {
	switch strings.ToLower(s) {
	case "monthly":
		return PlanMonthly, nil
	case "quarterly":
		return PlanQuarterly, nil
	case "annual":
		return PlanAnnual, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPlan, s)
	}
}

// String implements fmt.Stringer.
func (p Plan) String() string {
	switch p {
	case PlanMonthly:
		return "monthly"
	case PlanQuarterly:
		return "quarterly"
	case PlanAnnual:
		return "annual"
	default:
		return fmt.Sprintf("unknown(%d)", int64(p))
	}
}

// BigInt returns plan as contract parameter.
func (p Plan) BigInt() *big.Int {
	return big.NewInt(int64(p))
}

// Duration returns time the plan adds to the subscription.
func (p Plan) Duration() (time.Duration, error) {
	switch p {
	case PlanMonthly:
		return subscriptionconst.MonthlyDuration * time.Second, nil
	case PlanQuarterly:
		return subscriptionconst.QuarterlyDuration * time.Second, nil
	case PlanAnnual:
		return subscriptionconst.AnnualDuration * time.Second, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidPlan, int64(p))
	}
}

// Price returns price of the plan from the config.
func (c *CreatorConfig) Price(p Plan) (*big.Int, error) {
	switch p {
	case PlanMonthly:
		return c.MonthlyPrice, nil
	case PlanQuarterly:
		return c.QuarterlyPrice, nil
	case PlanAnnual:
		return c.AnnualPrice, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidPlan, int64(p))
	}
}

// Status describes subscription state at some moment.
type Status uint8

const (
	// StatusActive means subscription is running and not expired.
	StatusActive Status = iota
	// StatusPaused means expiration time is frozen.
	StatusPaused
	// StatusExpired means subscription is running, but its time is over.
	StatusExpired
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusPaused:
		return "paused"
	case StatusExpired:
		return "expired"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// IsPaused checks whether subscription expiration time is frozen.
func (s *Subscription) IsPaused() bool {
	return s.PausedSince != nil && s.PausedSince.Sign() != 0
}

// Status returns subscription state at the given time.
func (s *Subscription) Status(now time.Time) Status {
	switch {
	case s.IsPaused():
		return StatusPaused
	case now.Unix() < s.ExpiresAt.Int64():
		return StatusActive
	default:
		return StatusExpired
	}
}

// IsActive checks whether subscription gives access at the given time, i.e.
// it's not paused and not expired. Result matches isActive contract method
// executed at the block with the same time.
func IsActive(s *Subscription, now time.Time) bool {
	return s != nil && s.Status(now) == StatusActive
}

// Remaining returns subscription time left at the given moment. For paused
// subscriptions it is the time frozen at pause.
func (s *Subscription) Remaining(now time.Time) time.Duration {
	var from int64
	if s.IsPaused() {
		from = s.PausedSince.Int64()
	} else {
		from = now.Unix()
	}

	left := s.ExpiresAt.Int64() - from
	if left <= 0 {
		return 0
	}

	return time.Duration(left) * time.Second
}

// ExpirationTime returns ExpiresAt as time.
func (s *Subscription) ExpirationTime() time.Time {
	return time.Unix(s.ExpiresAt.Int64(), 0)
}
