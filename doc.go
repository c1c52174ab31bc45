// Package safeseq provides a fixed-size, thread-safe sequence container
// whose iterators — called Handles — are the unit of concurrency control.
//
// A [SafeSequence] hands out short-lived reader or writer [Handle] values.
// For as long as any Handle is outstanding, safeseq guarantees the global
// aliasing invariant holds: many readers XOR one writer. Acquiring a new
// Handle blocks the calling goroutine until that invariant can be
// re-established.
//
// # Basic usage
//
//	owner := safeseq.NewOwner()
//	seq, err := safeseq.New[byte](4, safeseq.Options{})
//	if err != nil {
//	    // handle [ErrInvalidSize]
//	}
//
//	w, err := seq.BeginWrite(owner)
//	for i := 0; i < seq.Size(); i++ {
//	    _ = w.Set('1')
//	    _ = w.Advance()
//	}
//	_ = w.Close()
//
//	r, _ := seq.BeginRead(owner)
//	v, _ := r.Get()
//	_ = r.Close()
//
// # Concurrency
//
// safeseq uses a multi-reader, single-writer model keyed by an explicit
// [Owner] token standing in for Go's lack of a stable, public goroutine
// identity:
//   - Many goroutines may hold reader Handles concurrently.
//   - Only one goroutine may hold a writer Handle at a time, and while it
//     does, no other goroutine may hold any Handle (reader or writer).
//   - A goroutine that already holds a writer Handle may still acquire a
//     reader Handle on the same [Owner] without blocking (§ "own-thread").
//
// # Error handling
//
// All failure modes are sentinel errors classified for [errors.Is]:
// [ErrRoleViolation], [ErrOutOfBounds], [ErrCrossThreadCopy],
// [ErrLedgerInvariant], [ErrInvalidSize], [ErrClosed], [ErrInvalidOwner],
// and [ErrMismatchedSequence]. A blocked call to
// [SafeSequence.ReaderAt] or [SafeSequence.WriterAt] is not a failure —
// it is the design; there is no cancellation or timeout.
package safeseq
