package stream

import (
	"math"
	"strconv"
)

// Demand is the number of values a subscriber is currently willing to receive.
// It is either a bounded non-negative count or Unlimited.
type Demand int64

const (
	// None grants no additional values.
	None Demand = 0

	// Unlimited removes the upper bound on delivered values.
	// Adding to or consuming from Unlimited leaves it unchanged.
	Unlimited Demand = math.MaxInt64
)

// Max returns a bounded demand of n values.
// It panics if n is negative.
func Max(n int) Demand {
	if n < 0 {
		panic("stream: demand must not be negative")
	}
	return Demand(n)
}

// IsUnlimited reports whether d is the Unlimited sentinel.
func (d Demand) IsUnlimited() bool {
	return d == Unlimited
}

// Add returns d increased by o, saturating at Unlimited.
// Negative operands are treated as None.
func (d Demand) Add(o Demand) Demand {
	if d < 0 {
		d = None
	}
	switch {
	case o <= 0:
		return d
	case d == Unlimited || o == Unlimited:
		return Unlimited
	case d > Unlimited-o:
		return Unlimited
	}
	return d + o
}

// consume accounts for one delivered value.
func (d Demand) consume() Demand {
	switch {
	case d == Unlimited:
		return d
	case d > 0:
		return d - 1
	}
	return None
}

// String implements fmt.Stringer.
func (d Demand) String() string {
	switch {
	case d == Unlimited:
		return "unlimited"
	case d <= 0:
		return "none"
	}
	return "max(" + strconv.FormatInt(int64(d), 10) + ")"
}
