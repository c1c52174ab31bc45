package safeseq

import "sync"

// Options configures [New].
type Options struct {
	// Tracer receives diagnostic events. Nil means [NoopTracer].
	Tracer Tracer
}

// SafeSequence is a fixed-size sequence of T whose mutable access is
// mediated entirely through [Handle] values (spec §3/§4.4, component
// C4). It owns its element buffer, its [ledger] (C1), and its [gate]
// (C2) exclusively; a Handle holds only a non-owning back-reference, so
// outside this file only the package's white-box tests construct a ledger
// or gate directly.
//
// A SafeSequence must not be used again, and no Handle derived from it
// may be used again, once every outstanding Handle has been closed and
// the SafeSequence is discarded. SafeSequence has no Close method;
// discarding one while Handles remain outstanding is not supported, and
// the caller is responsible for closing every Handle first.
type SafeSequence[T any] struct {
	size   int
	data   []T
	ledger *ledger
	gate   *gate
	tracer Tracer

	// bufMu guards element access against [SafeSequence.Read], which
	// intentionally bypasses the ledger (spec §4.4: "no credit
	// required"). Handle-mediated Get/Set also take it, so the momentary
	// random-read path and Handle-mediated reads/writes never tear
	// against one another at the memory level; admission to acquire a
	// Handle in the first place is still governed entirely by gate and
	// ledger.
	bufMu sync.RWMutex
}

// New allocates a SafeSequence of the given size, every element
// default-initialized. size must be > 0.
func New[T any](size int, opts Options) (*SafeSequence[T], error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	l := newLedger()
	tracer := opts.Tracer
	if tracer == nil {
		tracer = NoopTracer()
	}

	return &SafeSequence[T]{
		size:   size,
		data:   make([]T, size),
		ledger: l,
		gate:   newGate(l),
		tracer: tracer,
	}, nil
}

// Size returns the fixed element count.
func (s *SafeSequence[T]) Size() int { return s.size }

// Read returns a snapshot of the element at i without requiring any
// credit (spec §4.4). It is safe to call concurrently with any Handle
// activity; the read is taken under a momentary read lock of the buffer.
func (s *SafeSequence[T]) Read(i int) (T, error) {
	var zero T
	if i < 0 || i >= s.size {
		return zero, ErrOutOfBounds
	}

	s.bufMu.RLock()
	defer s.bufMu.RUnlock()
	return s.data[i], nil
}

// ReaderAt blocks owner until no other owner holds a writer credit, then
// returns a reader-role Handle positioned at offset. offset may equal
// size (the end position); advancing it further fails with
// [ErrOutOfBounds].
func (s *SafeSequence[T]) ReaderAt(owner *Owner, offset int) (*Handle[T], error) {
	if owner == nil {
		return nil, ErrInvalidOwner
	}
	if offset < 0 || offset > s.size {
		return nil, ErrOutOfBounds
	}

	err := s.gate.awaitAndAdmit(
		func(l *ledger) bool { return !l.hasOtherLocked(roleWriter, owner) },
		func(l *ledger) error { return l.adjustLocked(owner, roleReader, +1) },
	)
	if err != nil {
		return nil, err
	}

	s.tracer.Trace("reader_at", "owner", owner.String(), "offset", offset)
	return &Handle[T]{seq: s, owner: owner, role: RoleRead, pos: offset}, nil
}

// WriterAt blocks owner until every other owner's credits are zero, then
// returns a writer-role Handle positioned at offset. A writer also
// counts as a reader on its own owner (spec §3), so the same owner may
// still request a reader Handle without blocking (see ReaderAt's
// predicate, which ignores owner's own credits).
func (s *SafeSequence[T]) WriterAt(owner *Owner, offset int) (*Handle[T], error) {
	if owner == nil {
		return nil, ErrInvalidOwner
	}
	if offset < 0 || offset > s.size {
		return nil, ErrOutOfBounds
	}

	err := s.gate.awaitAndAdmit(
		func(l *ledger) bool { return !l.hasOtherAnyLocked(owner) },
		func(l *ledger) error {
			if err := l.adjustLocked(owner, roleReader, +1); err != nil {
				return err
			}
			return l.adjustLocked(owner, roleWriter, +1)
		},
	)
	if err != nil {
		return nil, err
	}

	s.tracer.Trace("writer_at", "owner", owner.String(), "offset", offset)
	return &Handle[T]{seq: s, owner: owner, role: RoleReadWrite, pos: offset}, nil
}

// BeginRead is ReaderAt(owner, 0).
func (s *SafeSequence[T]) BeginRead(owner *Owner) (*Handle[T], error) {
	return s.ReaderAt(owner, 0)
}

// EndRead is ReaderAt(owner, s.Size()).
func (s *SafeSequence[T]) EndRead(owner *Owner) (*Handle[T], error) {
	return s.ReaderAt(owner, s.size)
}

// BeginWrite is WriterAt(owner, 0).
func (s *SafeSequence[T]) BeginWrite(owner *Owner) (*Handle[T], error) {
	return s.WriterAt(owner, 0)
}

// EndWrite is WriterAt(owner, s.Size()).
func (s *SafeSequence[T]) EndWrite(owner *Owner) (*Handle[T], error) {
	return s.WriterAt(owner, s.size)
}

// UnsafeBegin returns an [UnsafeCursor] at offset 0. It performs no
// ledger interaction whatsoever (spec §4.5); concurrent mutation through
// a Handle is a data race by design.
func (s *SafeSequence[T]) UnsafeBegin() UnsafeCursor[T] {
	return UnsafeCursor[T]{data: s.data, pos: 0}
}

// UnsafeEnd returns an [UnsafeCursor] at offset size.
func (s *SafeSequence[T]) UnsafeEnd() UnsafeCursor[T] {
	return UnsafeCursor[T]{data: s.data, pos: s.size}
}

// ReaderCountSelf returns owner's current outstanding reader credit.
func (s *SafeSequence[T]) ReaderCountSelf(owner *Owner) int {
	s.ledger.mu.Lock()
	defer s.ledger.mu.Unlock()
	r, _ := s.ledger.countLocked(owner)
	return r
}

// WriterCountSelf returns owner's current outstanding writer credit.
func (s *SafeSequence[T]) WriterCountSelf(owner *Owner) int {
	s.ledger.mu.Lock()
	defer s.ledger.mu.Unlock()
	_, w := s.ledger.countLocked(owner)
	return w
}
