package spp

import (
	"encoding/binary"
	"fmt"

	"github.com/jrwynneiii/spp_tools"
)

// HeaderSize is the fixed size of the space packet primary header in octets.
const HeaderSize = 6

// APID limits. 0x7FF is reserved for idle packets.
const (
	APIDMin  uint16 = 0
	APIDMax  uint16 = 0x7FE
	APIDIdle uint16 = 0x7FF
)

type PacketType uint8

const (
	Telemetry   PacketType = 0
	Telecommand PacketType = 1
)

// Identification field layout
const (
	packetVersion1 = 0b000
	versionShift   = 13
	typeMask       = 0x1
	typeShift      = 12
	secHdrShift    = 11
	apidMask       = 0x7FF
)

// Sequence control field layout
const (
	sequenceUnsegmented = 0b11
	sequenceFlagsShift  = 14
	sequenceCountMask   = 0x3FFF
)

// PrimaryHeader holds the decoded fields of a space packet primary header,
// in host byte order.
type PrimaryHeader struct {
	Version             uint8
	Type                PacketType
	SecondaryHeaderFlag bool
	APID                uint16
	SequenceFlags       uint8
	SequenceCount       uint16
	DataLength          uint16 // octets following the header, minus one
}

// MakePrimaryHeader decodes the first 6 octets of data as a primary header.
func MakePrimaryHeader(data []byte) (PrimaryHeader, error) {
	h := PrimaryHeader{}
	if len(data) < HeaderSize {
		return h, fmt.Errorf("%w: need %d octets for the primary header, have %d", spp_tools.ErrMalformed, HeaderSize, len(data))
	}

	ident := binary.BigEndian.Uint16(data[0:2])
	seq := binary.BigEndian.Uint16(data[2:4])

	h.Version = uint8(ident >> versionShift)
	h.Type = PacketType((ident >> typeShift) & typeMask)
	h.SecondaryHeaderFlag = ((ident >> secHdrShift) & 0x1) > 0
	h.APID = ident & apidMask
	h.SequenceFlags = uint8(seq >> sequenceFlagsShift)
	h.SequenceCount = seq & sequenceCountMask
	h.DataLength = binary.BigEndian.Uint16(data[4:6])

	return h, nil
}

func (h PrimaryHeader) IsIdle() bool {
	return h.APID == APIDIdle
}

// putIdentification encodes the first header word: version, packet type,
// secondary header flag and APID, big-endian on the wire.
func putIdentification(b []byte, t PacketType, secondary bool, apid uint16) {
	ident := uint16(packetVersion1)<<versionShift |
		(uint16(t)&typeMask)<<typeShift |
		apid&apidMask
	if secondary {
		ident |= 1 << secHdrShift
	}
	binary.BigEndian.PutUint16(b, ident)
}

// putSequenceControl encodes the second header word. User data is always
// unsegmented; count carries either the running counter or a packet name.
func putSequenceControl(b []byte, count uint16) {
	binary.BigEndian.PutUint16(b, sequenceUnsegmented<<sequenceFlagsShift | count&sequenceCountMask)
}

// putDataLength encodes the third header word, the packet data field length
// minus one.
func putDataLength(b []byte, n uint16) {
	binary.BigEndian.PutUint16(b, n)
}
