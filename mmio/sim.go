package mmio

// Write records one bus write for test assertions on ordering.
type Write struct {
	Off uintptr
	V   uint32
}

// SimBus is an in-memory register block for host-side tests and tooling.
// An optional OnWrite hook runs after every store; simulators use it to
// latch status bits in response to enable bits (a stand-in for hardware
// behaviour, like the host fakes the register consumers are tested with).
type SimBus struct {
	words   []uint32
	OnWrite func(off uintptr, v uint32)

	// Journal, when enabled with Record, keeps every Write32 in order.
	Journal []Write

	record bool
}

// NewSimBus creates a zeroed block of size bytes (rounded up to a word).
func NewSimBus(size uintptr) *SimBus {
	return &SimBus{words: make([]uint32, (size+3)/4)}
}

func (b *SimBus) Read32(off uintptr) uint32 { return b.words[off/4] }

func (b *SimBus) Write32(off uintptr, v uint32) {
	b.words[off/4] = v
	if b.record {
		b.Journal = append(b.Journal, Write{Off: off, V: v})
	}
	if b.OnWrite != nil {
		b.OnWrite(off, v)
	}
}

// Poke stores directly, bypassing the journal and the OnWrite hook.
// Hooks use it to mutate state without recursing.
func (b *SimBus) Poke(off uintptr, v uint32) { b.words[off/4] = v }

// Peek reads without going through Read32 (symmetry with Poke).
func (b *SimBus) Peek(off uintptr) uint32 { return b.words[off/4] }

// Record turns the write journal on or off and clears it.
func (b *SimBus) Record(on bool) {
	b.record = on
	b.Journal = nil
}
