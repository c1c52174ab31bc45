package safeseq

import "sync"

// gate is the condition-variable-backed admission control described in
// spec §4.2. It shares its lock with the [ledger] it guards so that a
// predicate check and the debit that follows it are atomic with respect
// to every other admission and release — no waiter can "slip in" between
// the two.
type gate struct {
	cond   *sync.Cond
	ledger *ledger
}

func newGate(l *ledger) *gate {
	return &gate{cond: sync.NewCond(&l.mu), ledger: l}
}

// awaitAndAdmit blocks the calling goroutine until predicate(l) holds,
// then invokes debit(l) before releasing the lock. Broadcasts are
// wake-all with no fairness guarantee (spec §4.2): any waiter whose
// predicate holds when it re-acquires the lock wins the race.
//
// Spurious wakeups are handled by the standard for-Wait-recheck loop.
func (g *gate) awaitAndAdmit(predicate func(*ledger) bool, debit func(*ledger) error) error {
	g.cond.L.Lock()
	defer g.cond.L.Unlock()

	for !predicate(g.ledger) {
		g.cond.Wait()
	}
	return debit(g.ledger)
}

// releaseAndNotify invokes credit(l) under the lock, then wakes every
// waiter so queued admissions can re-evaluate their predicates.
func (g *gate) releaseAndNotify(credit func(*ledger) error) error {
	g.cond.L.Lock()
	err := credit(g.ledger)
	g.cond.L.Unlock()

	g.cond.Broadcast()
	return err
}

// adjustNoWait performs a ledger adjustment without waiting on any
// predicate and without broadcasting. Used by [Handle.Clone], where the
// spec (§4.3) explicitly forbids re-checking the admission predicate:
// the new credit is already compatible with the invariant because it is
// the same role on an already-admitted thread.
func (g *gate) adjustNoWait(fn func(*ledger) error) error {
	g.cond.L.Lock()
	defer g.cond.L.Unlock()
	return fn(g.ledger)
}
