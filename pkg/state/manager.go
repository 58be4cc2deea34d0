package state

// TimerState is the per-node-kind state of one Timer node: a f64
// accumulator and whether a pulse from the most recent tick is still
// pending. The engine clears Pulse once the following Evaluate has
// served it.
type TimerState struct {
	Accumulator float64
	Pulse bool
}

// CounterState is the per-node-kind state of one Counter node: the
// previous-tick high/low reading and the running total.
type CounterState struct {
	PrevHigh bool
	Total float64
}

// Manager owns the Timer and Counter side tables, indexed by node table
// position. Nodes of other kinds simply never touch their slot.
type Manager struct {
	timers []TimerState
	counters []CounterState
}

// New allocates a Manager sized for nodeCount nodes, all state
// zero-initialized.
func New(nodeCount int) *Manager {
	return &Manager{
		timers: make([]TimerState, nodeCount),
		counters: make([]CounterState, nodeCount),
	}
}

// Timer returns a mutable pointer to node index i's Timer state.
func (m *Manager) Timer(i int) *TimerState { return &m.timers[i] }

// Counter returns a mutable pointer to node index i's Counter state.
func (m *Manager) Counter(i int) *CounterState { return &m.counters[i] }

// Reset zeroes every Timer and Counter slot, equivalent to a fresh New
// of the same size.
func (m *Manager) Reset() {
	for i := range m.timers {
		m.timers[i] = TimerState{}
	}
	for i := range m.counters {
		m.counters[i] = CounterState{}
	}
}
