package safeseq

// Tracer receives diagnostic events from a [SafeSequence]. It replaces
// the process-wide logging singleton of the original design (spec §9)
// with an explicitly injected sink; the zero value of [Options] uses a
// no-op Tracer, so tracing is strictly opt-in.
//
// Trace is called with the event name and a flat list of key/value
// pairs, following the same loosely-structured shape a caller would
// later hand to a structured logger of their choice — safeseq does not
// depend on one itself.
type Tracer interface {
	Trace(event string, kv ...any)
}

type noopTracer struct{}

func (noopTracer) Trace(string, ...any) {}

// NoopTracer returns a [Tracer] that discards every event. It is the
// default used when [Options.Tracer] is nil.
func NoopTracer() Tracer { return noopTracer{} }
