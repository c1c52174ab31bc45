package safeseq

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/natefinch/atomic"
)

// OwnerCredit is one owner's row in a [LedgerSnapshot].
type OwnerCredit struct {
	Owner  string `json:"owner"`
	Reader int    `json:"reader_credit"`
	Writer int    `json:"writer_credit"`
}

// LedgerSnapshot is a point-in-time view of a SafeSequence's ledger,
// intended for postmortem debugging — not part of the synchronization
// engine itself. Entries is sorted by Owner label for stable output.
type LedgerSnapshot struct {
	Entries []OwnerCredit `json:"entries"`
}

// Snapshot captures the current ledger state under the ledger's mutex.
// self is recorded only so the snapshot can be labeled from the caller's
// point of view; it is not required to be non-nil.
func (s *SafeSequence[T]) Snapshot(self *Owner) LedgerSnapshot {
	s.ledger.mu.Lock()
	defer s.ledger.mu.Unlock()

	snap := LedgerSnapshot{Entries: make([]OwnerCredit, 0, len(s.ledger.entries))}
	for owner, c := range s.ledger.entries {
		label := owner.String()
		if owner == self {
			label += " (self)"
		}
		snap.Entries = append(snap.Entries, OwnerCredit{Owner: label, Reader: c.reader, Writer: c.writer})
	}

	sort.Slice(snap.Entries, func(i, j int) bool {
		return snap.Entries[i].Owner < snap.Entries[j].Owner
	})
	return snap
}

// DumpSnapshot marshals snap as indented JSON and writes it to path
// atomically, so a reader never observes a partially-written file. This
// mirrors the atomic-write discipline the teacher's filesystem layer
// applies to its own on-disk state.
func DumpSnapshot(path string, snap LedgerSnapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}
