// Package capacity sizes growable, windowed allocations such as score ledgers
// and game authority lists.
package capacity

const (
	// DefaultInitial is the slot count allocated when a ledger is registered.
	DefaultInitial = 10
	// DefaultWindow is the number of slots added by each growth step.
	DefaultWindow = 10
)

// Grow returns the capacity after one growth step.
func Grow(current, window int) int {
	return current + window
}

// Policy is a windowed growth policy.
type Policy struct {
	Initial int
	Window  int
}

// DefaultPolicy returns the 10/10 policy used for ledgers.
func DefaultPolicy() Policy {
	return Policy{Initial: DefaultInitial, Window: DefaultWindow}
}

// Next returns the capacity needed to hold one more entry when length entries
// are stored in current slots. It equals current unless the allocation is full.
func (p Policy) Next(current, length int) int {
	if length < current {
		return current
	}
	return Grow(current, p.window())
}

// NeedsGrowth reports whether appending to a full allocation requires a growth step.
func (p Policy) NeedsGrowth(current, length int) bool {
	return length >= current
}

func (p Policy) window() int {
	if p.Window <= 0 {
		return DefaultWindow
	}
	return p.Window
}
