package safeseq

import "testing"

func Test_AdjustLocked_Creates_Entry_On_First_Debit(t *testing.T) {
	t.Parallel()

	l := newLedger()
	owner := NewOwner()

	if err := l.adjustLocked(owner, roleReader, +1); err != nil {
		t.Fatalf("adjustLocked: %v", err)
	}

	r, w := l.countLocked(owner)
	if r != 1 || w != 0 {
		t.Fatalf("got (%d, %d), want (1, 0)", r, w)
	}
}

func Test_AdjustLocked_Prunes_Entry_When_Both_Credits_Zero(t *testing.T) {
	t.Parallel()

	l := newLedger()
	owner := NewOwner()

	mustAdjust(t, l, owner, roleReader, +1)
	mustAdjust(t, l, owner, roleReader, -1)

	if _, ok := l.entries[owner]; ok {
		t.Fatal("entry should have been pruned")
	}
}

func Test_AdjustLocked_Rejects_Decrement_Below_Zero(t *testing.T) {
	t.Parallel()

	l := newLedger()
	owner := NewOwner()

	if err := l.adjustLocked(owner, roleReader, -1); err != ErrLedgerInvariant {
		t.Fatalf("got %v, want ErrLedgerInvariant", err)
	}
}

func Test_AdjustLocked_Rejects_Decrement_Past_Zero_On_Existing_Entry(t *testing.T) {
	t.Parallel()

	l := newLedger()
	owner := NewOwner()
	mustAdjust(t, l, owner, roleReader, +1)

	if err := l.adjustLocked(owner, roleWriter, -1); err != ErrLedgerInvariant {
		t.Fatalf("got %v, want ErrLedgerInvariant", err)
	}
}

func Test_SumLocked_Totals_Across_Owners(t *testing.T) {
	t.Parallel()

	l := newLedger()
	a, b := NewOwner(), NewOwner()
	mustAdjust(t, l, a, roleReader, +1)
	mustAdjust(t, l, b, roleReader, +1)
	mustAdjust(t, l, b, roleReader, +1)

	if got := l.sumLocked(roleReader); got != 3 {
		t.Fatalf("sumLocked(roleReader) = %d, want 3", got)
	}
}

func Test_HasOtherLocked_Ignores_Self(t *testing.T) {
	t.Parallel()

	l := newLedger()
	a, b := NewOwner(), NewOwner()
	mustAdjust(t, l, a, roleWriter, +1)

	if l.hasOtherLocked(roleWriter, a) {
		t.Fatal("a's own writer credit must not count as 'other'")
	}
	if !l.hasOtherLocked(roleWriter, b) {
		t.Fatal("b should observe a's writer credit")
	}
}

func Test_HasOtherAnyLocked_True_For_Either_Role(t *testing.T) {
	t.Parallel()

	l := newLedger()
	a, b := NewOwner(), NewOwner()
	mustAdjust(t, l, a, roleReader, +1)

	if !l.hasOtherAnyLocked(b) {
		t.Fatal("b should observe a's reader credit via hasOtherAnyLocked")
	}
	if l.hasOtherAnyLocked(a) {
		t.Fatal("a's own credit must not count as 'other'")
	}
}

func mustAdjust(t *testing.T, l *ledger, owner *Owner, r role, delta int) {
	t.Helper()
	if err := l.adjustLocked(owner, r, delta); err != nil {
		t.Fatalf("adjustLocked(%v, %d): %v", r, delta, err)
	}
}
