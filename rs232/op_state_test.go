package rs232

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpState_String(t *testing.T) {
	assert.Equal(t, "Closed", ClosedState.String())
	assert.Equal(t, "Closing", ClosingState.String())
	assert.Equal(t, "Opening", OpeningState.String())
	assert.Equal(t, "Opened", OpenedState.String())
	assert.Equal(t, "Unknown", OpState(99).String())
}

func TestAtomicOpState_Transitions(t *testing.T) {
	st := &atomicOpState{}
	assert.True(t, st.IsClosed())

	assert.False(t, st.ToOpened(), "Closed -> Opened must go through Opening")
	assert.True(t, st.ToOpening())
	assert.False(t, st.ToOpening(), "no reopen while opening")
	assert.True(t, st.ToOpened())
	assert.True(t, st.ToOpened(), "Opened -> Opened is a no-op")
	assert.False(t, st.ToOpening(), "no reconnect in place")

	assert.True(t, st.ToClosing())
	assert.Equal(t, "Closing", st.String())
	assert.True(t, st.ToClosed())
	assert.True(t, st.ToClosed(), "Closed -> Closed is a no-op")
	assert.False(t, st.ToClosing())
}

func TestAtomicOpState_AbortOpening(t *testing.T) {
	st := &atomicOpState{}
	assert.True(t, st.ToOpening())
	assert.True(t, st.ToClosing())
	assert.True(t, st.ToClosed())
}
