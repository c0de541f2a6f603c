package wire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func testCodec() Codec {
	return NewCodec(0x01, 71)
}

func TestControlChangeRoundTrip(t *testing.T) {
	c := testCodec()
	msg := ControlChange{Channel: 0, Control: 13, Value: 60}

	b, err := c.ToBytes(msg)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xB0, 13, 60}, b)

	decoded, err := c.FromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, msg, decoded)
}

func TestControlChangeRoundTripProperty(t *testing.T) {
	c := testCodec()
	rapid.Check(t, func(rt *rapid.T) {
		channel := uint8(rapid.IntRange(0, 15).Draw(rt, "channel"))
		control := uint8(rapid.IntRange(0, 127).Draw(rt, "control"))
		value := uint8(rapid.IntRange(0, 127).Draw(rt, "value"))

		msg := ControlChange{Channel: channel, Control: control, Value: value}
		b, err := c.ToBytes(msg)
		require.NoError(rt, err)

		decoded, err := c.FromBytes(b)
		require.NoError(rt, err)
		assert.Equal(rt, msg, decoded)
	})
}

// S5 — Inquiry response.
func TestUniversalDeviceInquiryResponse(t *testing.T) {
	c := testCodec()
	msg := UniversalDeviceInquiryResponse{
		Channel: 0x7f,
		Family:  0x0000,
		Member:  0x0300,
		Version: "0223",
	}

	b, err := c.ToBytes(msg)
	require.NoError(t, err)

	decoded, err := c.FromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, msg, decoded)
}

func TestUniversalDeviceInquiryRoundTrip(t *testing.T) {
	c := testCodec()
	msg := UniversalDeviceInquiry{Channel: BroadcastChannel}

	b, err := c.ToBytes(msg)
	require.NoError(t, err)

	decoded, err := c.FromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, msg, decoded)
}

// S6 — Patch dump length check.
func TestProgramEditBufferDumpBadLength(t *testing.T) {
	c := testCodec()
	raw, err := c.ToBytes(ProgramEditBufferDump{Ver: 1, Data: make([]byte, 70)})
	require.NoError(t, err)

	_, err = c.FromBytes(raw)
	var badLen *BadLengthError
	require.ErrorAs(t, err, &badLen)
	assert.Equal(t, 71, badLen.Expected)
	assert.Equal(t, 70, badLen.Got)
}

func TestProgramEditBufferDumpRoundTrip(t *testing.T) {
	c := testCodec()
	data := make([]byte, 71)
	for i := range data {
		data[i] = byte(i)
	}
	msg := ProgramEditBufferDump{Ver: 2, Data: data}

	b, err := c.ToBytes(msg)
	require.NoError(t, err)

	decoded, err := c.FromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, msg, decoded)
}

func TestProgramPatchDumpRoundTrip(t *testing.T) {
	c := testCodec()
	data := make([]byte, 71)
	msg := ProgramPatchDump{Patch: 5, Ver: 2, Data: data}

	b, err := c.ToBytes(msg)
	require.NoError(t, err)

	decoded, err := c.FromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, msg, decoded)
}

func TestProgramEditBufferDumpRequestRoundTrip(t *testing.T) {
	c := testCodec()
	b, err := c.ToBytes(ProgramEditBufferDumpRequest{})
	require.NoError(t, err)

	decoded, err := c.FromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, ProgramEditBufferDumpRequest{}, decoded)
}

func TestProgramPatchDumpRequestRoundTrip(t *testing.T) {
	c := testCodec()
	b, err := c.ToBytes(ProgramPatchDumpRequest{Patch: 9})
	require.NoError(t, err)

	decoded, err := c.FromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, ProgramPatchDumpRequest{Patch: 9}, decoded)
}

func TestShortFrame(t *testing.T) {
	c := testCodec()
	_, err := c.FromBytes([]byte{0xB0})
	assert.ErrorIs(t, err, ErrShortFrame)

	_, err = c.FromBytes(nil)
	assert.ErrorIs(t, err, ErrShortFrame)
}

func TestUnknownVendor(t *testing.T) {
	c := testCodec()
	_, err := c.FromBytes([]byte{0xF0, 0x41, 0x00, 0x00, 0x01, 0xF7})
	assert.ErrorIs(t, err, ErrBadVendor)
}

func TestUnknownOpcode(t *testing.T) {
	c := testCodec()
	frame := []byte{0xF0, 0x00, 0x01, 0x0C, 0x01, 0xFE, 0xF7}
	_, err := c.FromBytes(frame)
	assert.True(t, errors.Is(err, ErrUnknownOpcode))
}

func TestUnrecognizedMessageKind(t *testing.T) {
	c := testCodec()
	_, err := c.FromBytes([]byte{0xFF, 0x00})
	assert.ErrorIs(t, err, ErrUnknownMessage)
}
