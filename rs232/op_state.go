package rs232

import "sync/atomic"

// OpState is the lifecycle state of a Conn.
type OpState uint32

const (
	ClosedState OpState = iota
	ClosingState
	OpeningState
	OpenedState
)

func (s OpState) String() string {
	switch s {
	case ClosedState:
		return "Closed"
	case ClosingState:
		return "Closing"
	case OpeningState:
		return "Opening"
	case OpenedState:
		return "Opened"
	default:
		return "Unknown"
	}
}

// atomicOpState allows metric readers to observe the state without taking
// part in the single-owner discipline of Conn.
type atomicOpState struct {
	state atomic.Uint32
}

func (st *atomicOpState) String() string {
	return st.Get().String()
}

func (st *atomicOpState) Get() OpState {
	return OpState(st.state.Load())
}

func (st *atomicOpState) Set(state OpState) {
	st.state.Store(uint32(state))
}

func (st *atomicOpState) IsClosed() bool {
	return st.Get() == ClosedState
}

func (st *atomicOpState) IsOpened() bool {
	return st.Get() == OpenedState
}

// ToOpening moves Closed to Opening. It fails for any other state, so a live
// link is never replaced in place.
func (st *atomicOpState) ToOpening() bool {
	return st.state.CompareAndSwap(uint32(ClosedState), uint32(OpeningState))
}

func (st *atomicOpState) ToOpened() bool {
	if st.IsOpened() {
		return true
	}

	return st.state.CompareAndSwap(uint32(OpeningState), uint32(OpenedState))
}

func (st *atomicOpState) ToClosing() bool {
	if st.state.CompareAndSwap(uint32(OpenedState), uint32(ClosingState)) {
		return true
	}

	return st.state.CompareAndSwap(uint32(OpeningState), uint32(ClosingState))
}

func (st *atomicOpState) ToClosed() bool {
	if st.IsClosed() {
		return true
	}

	return st.state.CompareAndSwap(uint32(ClosingState), uint32(ClosedState))
}
