package spp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrwynneiii/spp_tools"
)

func TestMakePrimaryHeader(t *testing.T) {
	h, err := MakePrimaryHeader([]byte{0x11, 0xAB, 0xC0, 0x00, 0x00, 0x09})
	require.NoError(t, err)

	assert.Equal(t, uint8(0), h.Version)
	assert.Equal(t, Telecommand, h.Type)
	assert.False(t, h.SecondaryHeaderFlag)
	assert.Equal(t, uint16(0x1AB), h.APID)
	assert.Equal(t, uint8(0b11), h.SequenceFlags)
	assert.Equal(t, uint16(0), h.SequenceCount)
	assert.Equal(t, uint16(9), h.DataLength)
}

func TestMakePrimaryHeaderNamed(t *testing.T) {
	h, err := MakePrimaryHeader([]byte{0x11, 0xAB, 0xDA, 0x5A, 0x00, 0x09})
	require.NoError(t, err)

	assert.Equal(t, uint16(0x1AB), h.APID)
	assert.Equal(t, uint16(0x1A5A), h.SequenceCount)
}

func TestMakePrimaryHeaderTelemetry(t *testing.T) {
	h, err := MakePrimaryHeader([]byte{0x09, 0x42, 0xC0, 0x7F, 0x12, 0x34})
	require.NoError(t, err)

	assert.Equal(t, Telemetry, h.Type)
	assert.True(t, h.SecondaryHeaderFlag)
	assert.Equal(t, uint16(0x142), h.APID)
	assert.Equal(t, uint16(0x7F), h.SequenceCount)
	assert.Equal(t, uint16(0x1234), h.DataLength)
}

func TestMakePrimaryHeaderShort(t *testing.T) {
	_, err := MakePrimaryHeader([]byte{0x11, 0xAB, 0xC0})
	assert.ErrorIs(t, err, spp_tools.ErrMalformed)

	_, err = MakePrimaryHeader(nil)
	assert.ErrorIs(t, err, spp_tools.ErrMalformed)
}

func TestPutIdentification(t *testing.T) {
	b := make([]byte, 2)

	putIdentification(b, Telecommand, false, 0x1AB)
	assert.Equal(t, []byte{0x11, 0xAB}, b)

	putIdentification(b, Telemetry, false, 0x1AB)
	assert.Equal(t, []byte{0x01, 0xAB}, b)

	putIdentification(b, Telemetry, true, 0x1AB)
	assert.Equal(t, []byte{0x09, 0xAB}, b)

	// APID is masked to 11 bits
	putIdentification(b, Telemetry, false, 0xFFFF)
	assert.Equal(t, []byte{0x07, 0xFF}, b)
}

func TestPutSequenceControl(t *testing.T) {
	b := make([]byte, 2)

	putSequenceControl(b, 0)
	assert.Equal(t, []byte{0xC0, 0x00}, b)

	putSequenceControl(b, 0x1A5A)
	assert.Equal(t, []byte{0xDA, 0x5A}, b)

	// Count is masked to 14 bits, the flags stay untouched
	putSequenceControl(b, 0xFFFF)
	assert.Equal(t, []byte{0xFF, 0xFF}, b)
	putSequenceControl(b, 0x4000)
	assert.Equal(t, []byte{0xC0, 0x00}, b)
}

func TestPutDataLength(t *testing.T) {
	b := make([]byte, 2)

	putDataLength(b, 9)
	assert.Equal(t, []byte{0x00, 0x09}, b)

	putDataLength(b, 0xFFFF)
	assert.Equal(t, []byte{0xFF, 0xFF}, b)
}

func TestIsIdle(t *testing.T) {
	assert.True(t, PrimaryHeader{APID: APIDIdle}.IsIdle())
	assert.False(t, PrimaryHeader{APID: APIDMax}.IsIdle())
}
