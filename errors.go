package safeseq

import "errors"

// Sentinel errors returned by safeseq operations.
//
// Callers should classify errors with [errors.Is].
var (
	// ErrRoleViolation is returned by [Handle.Set] when called on a
	// reader-role Handle.
	ErrRoleViolation = errors.New("safeseq: role violation")

	// ErrOutOfBounds is returned by [Handle.Advance], [Handle.Get], and
	// [Handle.Set] once the cursor is at or past the end position, and
	// by [SafeSequence.Read] for an out-of-range index.
	ErrOutOfBounds = errors.New("safeseq: out of bounds")

	// ErrCrossThreadCopy is returned by [Handle.Clone] when the calling
	// [Owner] differs from the Handle's recorded owner.
	ErrCrossThreadCopy = errors.New("safeseq: cross-thread copy")

	// ErrLedgerInvariant is returned when a credit adjustment would go
	// negative, or decrements an owner with no ledger entry. It indicates
	// prior corruption of the accounting; callers that see it should
	// treat it as fatal rather than retry.
	ErrLedgerInvariant = errors.New("safeseq: ledger invariant violated")

	// ErrInvalidSize is returned by [New] when size <= 0.
	ErrInvalidSize = errors.New("safeseq: invalid size")

	// ErrClosed is returned by operations on a [Handle] that has already
	// been closed.
	ErrClosed = errors.New("safeseq: handle closed")

	// ErrInvalidOwner is returned when a nil [Owner] is supplied to an
	// operation that requires one, or when [Handle.Assign] is called
	// across two Handles with different owners.
	ErrInvalidOwner = errors.New("safeseq: invalid owner")

	// ErrMismatchedSequence is returned by [Handle.Diff] and
	// [Handle.Assign] when the two Handles being compared or assigned
	// were not drawn from the same [SafeSequence]. Unlike
	// [ErrInvalidOwner], it signals a sequence-identity mismatch, not an
	// owner-identity one.
	ErrMismatchedSequence = errors.New("safeseq: mismatched sequence")
)
