package runtime

import "errors"

// ErrComputeBudgetExceeded aborts an invocation whose metered cost passed
// the configured limit. The engine rolls back as for any other failure.
var ErrComputeBudgetExceeded = errors.New("compute budget exceeded")

// Cost model: a flat charge per invocation plus a charge per byte of
// instruction payload.
const (
	DefaultComputeBudget uint64 = 200_000
	baseInvocationCost   uint64 = 1_000
	perDataByteCost      uint64 = 10
)

// Meter tracks compute units consumed by one invocation.
type Meter struct {
	limit uint64
	used  uint64
}

// NewMeter creates a meter with the given unit limit.
func NewMeter(limit uint64) *Meter {
	return &Meter{limit: limit}
}

// Consume charges units against the budget.
func (m *Meter) Consume(units uint64) error {
	if m.used+units > m.limit {
		m.used = m.limit
		return ErrComputeBudgetExceeded
	}
	m.used += units
	return nil
}

// Used returns the units consumed so far.
func (m *Meter) Used() uint64 {
	return m.used
}

// Remaining returns the units left in the budget.
func (m *Meter) Remaining() uint64 {
	return m.limit - m.used
}
