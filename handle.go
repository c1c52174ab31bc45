package safeseq

// Role identifies the access mode a [Handle] was admitted under.
type Role int

const (
	// RoleRead identifies a reader Handle; [Handle.Set] fails with
	// [ErrRoleViolation] on it.
	RoleRead Role = iota
	// RoleReadWrite identifies a writer Handle.
	RoleReadWrite
)

// Handle is a live, credited cursor into a [SafeSequence] (spec §3/§4.3,
// component C3). It is constructed only by [SafeSequence.ReaderAt],
// [SafeSequence.WriterAt], and their Begin*/End* shorthands — never
// directly.
//
// Go has neither destructors nor copy constructors, so the RAII lifetime
// the original design relies on is represented explicitly:
//   - [Handle.Close] is the destructor: it releases the Handle's credit
//     and wakes any goroutine waiting on the gate. Close is idempotent.
//   - [Handle.Clone] is the copy constructor: it debits a second credit
//     for the same role on the same owner, without re-checking the
//     admission predicate (spec §4.3).
//   - [Handle.Assign] is the copy-assignment operator: it releases the
//     receiver's current credit before debiting the one cloned from
//     other, and is a no-op on self-assignment (spec §9, fixing the
//     documented source defect of an assignment operator that updates
//     counters but forgets to return).
//
// A Handle's only valid state transition is Live -> Closed. Once closed,
// Advance, Get, Set, Clone and Assign return [ErrClosed]; Owner, Role,
// Position, Equal and Diff do not check whether the Handle is closed.
type Handle[T any] struct {
	seq    *SafeSequence[T]
	owner  *Owner
	role   Role
	pos    int
	closed bool
}

// Owner returns the Handle's recorded owner (spec's t_owner).
func (h *Handle[T]) Owner() *Owner { return h.owner }

// Role returns whether this Handle is a reader or a writer.
func (h *Handle[T]) Role() Role { return h.role }

// Position returns the current cursor offset.
func (h *Handle[T]) Position() int { return h.pos }

// Advance moves the cursor one element forward. Advancing is allowed up
// to and including the end position (size); any further call fails with
// [ErrOutOfBounds].
func (h *Handle[T]) Advance() error {
	if h.closed {
		return ErrClosed
	}
	if h.pos >= h.seq.size {
		return ErrOutOfBounds
	}
	h.pos++
	return nil
}

// Get returns the element at the current cursor position. Valid for
// both reader and writer Handles.
func (h *Handle[T]) Get() (T, error) {
	var zero T
	if h.closed {
		return zero, ErrClosed
	}
	if h.pos >= h.seq.size {
		return zero, ErrOutOfBounds
	}

	h.seq.bufMu.RLock()
	defer h.seq.bufMu.RUnlock()
	return h.seq.data[h.pos], nil
}

// Set writes v at the current cursor position. Only valid for writer
// Handles; fails with [ErrRoleViolation] on a reader Handle.
func (h *Handle[T]) Set(v T) error {
	if h.closed {
		return ErrClosed
	}
	if h.role != RoleReadWrite {
		return ErrRoleViolation
	}
	if h.pos >= h.seq.size {
		return ErrOutOfBounds
	}

	h.seq.bufMu.Lock()
	defer h.seq.bufMu.Unlock()
	h.seq.data[h.pos] = v
	return nil
}

// Equal reports whether h and other share the same SafeSequence and
// cursor position.
func (h *Handle[T]) Equal(other *Handle[T]) bool {
	return other != nil && h.seq == other.seq && h.pos == other.pos
}

// Diff returns h.Position() - other.Position(). Both Handles must be
// drawn from the same SafeSequence; a mismatched pair fails with
// [ErrMismatchedSequence].
func (h *Handle[T]) Diff(other *Handle[T]) (int, error) {
	if other == nil || h.seq != other.seq {
		return 0, ErrMismatchedSequence
	}
	return h.pos - other.pos, nil
}

// Clone debits a second credit for h's role on h's owner and returns an
// independent Handle at the same position. caller must be h's owner
// (pointer identity); a different *Owner fails with
// [ErrCrossThreadCopy]. Per spec §4.3, Clone does not re-check the
// admission predicate: the credit it adds is already compatible with
// the aliasing invariant, since it is the same role on a thread already
// admitted.
func (h *Handle[T]) Clone(caller *Owner) (*Handle[T], error) {
	if h.closed {
		return nil, ErrClosed
	}
	if caller != h.owner {
		return nil, ErrCrossThreadCopy
	}

	err := h.seq.gate.adjustNoWait(func(l *ledger) error {
		return debitRoleLocked(l, h.owner, h.role)
	})
	if err != nil {
		return nil, err
	}

	h.seq.tracer.Trace("handle_clone", "owner", h.owner.String(), "role", h.role)
	return &Handle[T]{seq: h.seq, owner: h.owner, role: h.role, pos: h.pos}, nil
}

// Assign reassigns h to be a copy of other: h's current credit is
// released before other's role credit is debited onto h's owner, h
// adopts other's role and position, and every goroutine waiting on the
// gate is woken to re-check its predicate. Self-assignment (h == other) is a
// no-op. h and other must share the same owner and SafeSequence;
// otherwise Assign fails and h is left unchanged, with
// [ErrMismatchedSequence] for a cross-sequence pair or [ErrInvalidOwner]
// for a cross-owner pair (sequence is checked first).
//
// This mirrors C++ copy-assignment and resolves the documented source
// defect (spec §9) of an assignment operator that updates counters but
// never returns the assigned-to object — Go's assignment statement has
// no return value to omit in the first place.
func (h *Handle[T]) Assign(other *Handle[T]) error {
	if h == other {
		return nil
	}
	if h.closed || other == nil || other.closed {
		return ErrClosed
	}
	if h.seq != other.seq {
		return ErrMismatchedSequence
	}
	if h.owner != other.owner {
		return ErrInvalidOwner
	}

	return h.seq.gate.releaseAndNotify(func(l *ledger) error {
		if err := releaseRoleLocked(l, h.owner, h.role); err != nil {
			return err
		}
		if err := debitRoleLocked(l, other.owner, other.role); err != nil {
			return err
		}
		h.role = other.role
		h.pos = other.pos
		return nil
	})
}

// Close releases h's credit back to the ledger and wakes any goroutine
// waiting on the gate. Close is idempotent: closing an already-closed
// Handle is a no-op. The credit is released against h's recorded owner
// regardless of which goroutine calls Close — there is no reliable way,
// nor a documented requirement, to detect that the calling goroutine
// differs from the owner that acquired the Handle (spec §7, §9 Open
// Questions: "t_owner != t_dtor").
func (h *Handle[T]) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true

	err := h.seq.gate.releaseAndNotify(func(l *ledger) error {
		return releaseRoleLocked(l, h.owner, h.role)
	})
	h.seq.tracer.Trace("handle_close", "owner", h.owner.String(), "role", h.role)
	return err
}

// releaseRoleLocked credits back exactly the role(s) debited when a
// Handle of the given role was created: a writer debited both reader
// and writer credit (spec §4.4), so releasing a writer releases both.
func releaseRoleLocked(l *ledger, owner *Owner, r Role) error {
	if err := l.adjustLocked(owner, roleReader, -1); err != nil {
		return err
	}
	if r == RoleReadWrite {
		if err := l.adjustLocked(owner, roleWriter, -1); err != nil {
			return err
		}
	}
	return nil
}

// debitRoleLocked debits exactly the role(s) a fresh acquisition of the
// given role would debit.
func debitRoleLocked(l *ledger, owner *Owner, r Role) error {
	if err := l.adjustLocked(owner, roleReader, +1); err != nil {
		return err
	}
	if r == RoleReadWrite {
		if err := l.adjustLocked(owner, roleWriter, +1); err != nil {
			return err
		}
	}
	return nil
}
