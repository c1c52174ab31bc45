// Package ledgermodel provides a deliberately simple, sequential model of
// safeseq's per-owner reader/writer credit accounting.
//
// The model has no locking and no admission gating of its own: tests
// drive it from a single goroutine, in lock-step with the calls they
// make against a real [safeseq.SafeSequence], and then compare the two
// with [cmp.Diff]. It favors clarity over performance, mirroring the
// role pkg/slotcache/model plays for that package's on-disk state.
package ledgermodel

// Role mirrors safeseq.Role without importing the root package, keeping
// this model usable in isolation.
type Role int

const (
	RoleRead Role = iota
	RoleReadWrite
)

// Credits is the observable (reader, writer) pair for one owner.
type Credits struct {
	Reader int
	Writer int
}

// Ledger is the model's owner -> Credits table.
type Ledger struct {
	Entries map[string]Credits
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{Entries: map[string]Credits{}}
}

// Debit records the credit a fresh acquisition of role would add for
// owner: a reader Handle debits reader credit only; a writer Handle
// debits both reader and writer credit, matching
// SafeSequence.WriterAt's "adjust(reader,+1); adjust(writer,+1)".
func (l *Ledger) Debit(owner string, role Role) {
	c := l.Entries[owner]
	c.Reader++
	if role == RoleReadWrite {
		c.Writer++
	}
	l.Entries[owner] = c
}

// Release records the credit a Close of a Handle with the given role
// returns, pruning owner's entry once both credits reach zero.
func (l *Ledger) Release(owner string, role Role) {
	c := l.Entries[owner]
	c.Reader--
	if role == RoleReadWrite {
		c.Writer--
	}
	if c.Reader == 0 && c.Writer == 0 {
		delete(l.Entries, owner)
		return
	}
	l.Entries[owner] = c
}

// Snapshot returns a defensive copy of the current owner -> Credits
// table, suitable for cmp.Diff against another snapshot.
func (l *Ledger) Snapshot() map[string]Credits {
	out := make(map[string]Credits, len(l.Entries))
	for k, v := range l.Entries {
		out[k] = v
	}
	return out
}

// HasOther reports whether any owner other than self holds positive
// credit for role.
func (l *Ledger) HasOther(role Role, self string) bool {
	for owner, c := range l.Entries {
		if owner == self {
			continue
		}
		if role == RoleReadWrite && c.Writer > 0 {
			return true
		}
		if role == RoleRead && c.Reader > 0 {
			return true
		}
	}
	return false
}

// HasOtherAny reports whether any owner other than self holds positive
// credit for either role.
func (l *Ledger) HasOtherAny(self string) bool {
	for owner, c := range l.Entries {
		if owner == self {
			continue
		}
		if c.Reader > 0 || c.Writer > 0 {
			return true
		}
	}
	return false
}
