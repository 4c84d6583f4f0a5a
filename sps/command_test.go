package sps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCommands = []Command{
	CmdIdle, CmdStartPump, CmdStopPump, CmdLockGateValve, CmdUnlockGateValve, CmdResetFaults,
}

func TestOutBuffer_RoundTrip(t *testing.T) {
	var out OutBuffer

	for _, cmd := range allCommands {
		require.NoError(t, out.Encode(cmd))

		got, err := out.Command()
		require.NoError(t, err)
		assert.Equal(t, cmd, got)
		assert.Equal(t, byte(cmd), out.Bytes()[OffsetCommand])
	}
}

func TestOutBuffer_Persistent(t *testing.T) {
	var out OutBuffer

	var b Builder
	b.PumpOn(true).Status(0x12, 0x34).Messages(1, 2, 3).Pressures(1e-3, 2e-6)
	in := b.Frame()
	out.Load(in)

	require.NoError(t, out.Encode(CmdStopPump))
	require.NoError(t, out.Encode(CmdResetFaults))

	got := out.Bytes()
	require.Len(t, got, FrameSize)
	for i := range got {
		if i == OffsetCommand {
			assert.Equal(t, byte(CmdResetFaults), got[i])
			continue
		}
		assert.Equal(t, in[i], got[i], "byte %d", i)
	}
}

func TestOutBuffer_BytesIsCopy(t *testing.T) {
	var out OutBuffer
	require.NoError(t, out.Encode(CmdStartPump))

	b := out.Bytes()
	b[OffsetCommand] = 0xEE

	got, err := out.Command()
	require.NoError(t, err)
	assert.Equal(t, CmdStartPump, got)
}

func TestOutBuffer_InvalidCommand(t *testing.T) {
	var out OutBuffer
	require.NoError(t, out.Encode(CmdLockGateValve))

	err := out.Encode(Command(3))
	require.ErrorIs(t, err, ErrInvalidCommand)

	got, err := out.Command()
	require.NoError(t, err)
	assert.Equal(t, CmdLockGateValve, got)

	var f Frame
	f[OffsetCommand] = 0x40
	out.Load(f)
	_, err = out.Command()
	assert.ErrorIs(t, err, ErrInvalidCommand)
}

func TestCommandFromSetpoint(t *testing.T) {
	for i, want := range allCommands {
		got, err := CommandFromSetpoint(float32(i))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	for _, v := range []float32{-1, 6, 1.5, 128} {
		_, err := CommandFromSetpoint(v)
		assert.ErrorIs(t, err, ErrInvalidCommand, "setpoint %v", v)
	}
}

func TestParseCommand(t *testing.T) {
	tests := map[string]Command{
		"idle":   CmdIdle,
		"start":  CmdStartPump,
		"stop":   CmdStopPump,
		"lock":   CmdLockGateValve,
		"unlock": CmdUnlockGateValve,
		"reset":  CmdResetFaults,
	}
	for name, want := range tests {
		got, err := ParseCommand(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseCommand("vent")
	assert.ErrorIs(t, err, ErrInvalidCommand)
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "start pump", CmdStartPump.String())
	assert.Equal(t, "reset faults", CmdResetFaults.String())
	assert.Equal(t, "Command(3)", Command(3).String())
	assert.False(t, Command(16).Valid())
}
