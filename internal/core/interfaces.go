package core

// Frame is a raw outbound payload, already encoded for the wire.
type Frame []byte

// SignalConnection abstracts a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// RelayResult reports delivery stats/backpressure to the orchestrator.
type RelayResult struct {
	SentTo  int
	Dropped int
}
