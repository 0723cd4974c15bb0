package recurrence

import "time"

// Advance reconciles an overdue expression against now, eliminating the
// backlog of occurrences that became due while no scheduler was running.
// It is pure: the input is never mutated and the period never changes.
//
// Policy:
//   - Not yet due (Anchor after now): unchanged.
//   - Zero period: the anchor cannot move; the single due occurrence is
//     handed off by decrementing Repeats by exactly one, with no floor.
//     Decrementing from 0 yields -1 here, colliding with the Unbounded
//     sentinel; this degenerate behavior is long-standing and kept.
//   - Repeats == 0: the last guaranteed occurrence is held in place, overdue,
//     so it runs at the next opportunity instead of being skipped past.
//   - Unbounded: the anchor jumps to the first occurrence strictly after now.
//   - Bounded, not exhausted: every fully elapsed occurrence is consumed
//     from Repeats (floored at 0) and the anchor moves to the last
//     already-due occurrence, never past now.
//
// The number of elapsed periods is computed in closed form (or a logarithmic
// search for calendar periods), so a multi-year outage against a one-second
// period does not iterate tick by tick.
func Advance(expr Expression, now time.Time) Expression {
	if expr.Anchor.After(now) {
		return expr
	}

	if expr.Period.IsZero() {
		expr.Repeats--
		return expr
	}

	if expr.Repeats == 0 {
		return expr
	}

	// k is the count of due occurrences at or before now, counting the
	// anchor itself; equivalently the smallest k with anchor+k*period > now.
	k := elapsedPeriods(expr.Anchor, expr.Period, now)

	if expr.Repeats == Unbounded {
		expr.Anchor = expr.Period.Scale(k).AddTo(expr.Anchor)
		return expr
	}

	if advances := k - 1; advances > 0 {
		expr.Anchor = expr.Period.Scale(advances).AddTo(expr.Anchor)
	}
	expr.Repeats -= k
	if expr.Repeats < 0 {
		expr.Repeats = 0
	}
	return expr
}

// elapsedPeriods returns the smallest k >= 1 such that anchor advanced by k
// whole periods lands strictly after now. Requires anchor <= now and a
// non-zero period.
func elapsedPeriods(anchor time.Time, p Period, now time.Time) int {
	if !p.hasCalendar() {
		// Pure exact period: integer division of the elapsed time.
		d := p.exact()
		return int(now.Sub(anchor)/d) + 1
	}

	// Calendar components have variable length, so there is no exact
	// division. occurrence(k) is monotonic in k, so seed a lower bound from
	// an upper bound on the period's span, then gallop and binary-search.
	occurrence := func(k int) time.Time {
		return p.Scale(k).AddTo(anchor)
	}

	lo := int(now.Sub(anchor) / p.maxSpan()) // occurrence(lo) <= now
	hi := lo + 1
	for !occurrence(hi).After(now) {
		lo = hi
		hi *= 2
	}
	for lo+1 < hi {
		mid := lo + (hi-lo)/2
		if occurrence(mid).After(now) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi
}
