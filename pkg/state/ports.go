package state

import "github.com/nodeflow/engine/pkg/types"

// PortArena is the handle-indexed store of live port values: two parallel
// arrays, one holding each port's current value and one holding the
// evaluation generation at which that value was last written. Both are
// sized to the total port count at load and never grow afterward, so the
// scheduler's hot path never allocates or hashes to read or write a port.
type PortArena struct {
	values      []types.Value
	generations []uint64
}

// NewPortArena allocates an arena sized to len(ports), with every slot
// initialized to its port's type-appropriate zero value and generation
// stamp zero.
func NewPortArena(ports []types.Port) *PortArena {
	values := make([]types.Value, len(ports))
	for i, p := range ports {
		values[i] = types.Zero(p.DataType)
	}
	return &PortArena{
		values:      values,
		generations: make([]uint64, len(ports)),
	}
}

// Value returns the current value held at port handle h.
func (a *PortArena) Value(h types.PortHandle) types.Value { return a.values[h] }

// Generation returns the evaluation generation at which port handle h's
// value was last written, or zero if it has never been written since
// load.
func (a *PortArena) Generation(h types.PortHandle) uint64 { return a.generations[h] }

// Set writes v to port handle h and stamps its generation to gen,
// unconditionally — the caller decides separately whether the write
// constitutes a change worth propagating.
func (a *PortArena) Set(h types.PortHandle, v types.Value, gen uint64) {
	a.values[h] = v
	a.generations[h] = gen
}

// Len returns the number of ports the arena was sized for.
func (a *PortArena) Len() int { return len(a.values) }
