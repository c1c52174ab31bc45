package safeseq

import (
	"strconv"
	"sync/atomic"
)

var ownerSeq atomic.Uint64

// Owner is an explicit stand-in for thread identity.
//
// Go exposes no stable, public identifier for the calling goroutine, so
// every ledger-affecting operation ([SafeSequence.ReaderAt],
// [SafeSequence.WriterAt], [Handle.Clone], the count queries) takes an
// *Owner explicitly instead of inferring it from the runtime. A single
// goroutine should create one Owner with [NewOwner] and reuse it for the
// lifetime of that goroutine's interaction with a [SafeSequence]; sharing
// an Owner across goroutines defeats the accounting it exists to support.
//
// The zero value is not a valid Owner; always construct one with
// [NewOwner]. Owner identity is pointer identity — two Owners are "the
// same thread" iff they are the same *Owner.
type Owner struct {
	_  [0]func() // not comparable by value, not copyable in spirit
	id uint64
}

// NewOwner allocates a fresh Owner, distinct from every other Owner ever
// allocated in this process.
func NewOwner() *Owner {
	return &Owner{id: ownerSeq.Add(1)}
}

// String returns a short, stable label for diagnostics. It has no
// bearing on Owner identity, which is always pointer identity.
func (o *Owner) String() string {
	if o == nil {
		return "owner(nil)"
	}
	return "owner#" + strconv.FormatUint(o.id, 10)
}
