package spp

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/jrwynneiii/spp_tools"
	"github.com/jrwynneiii/spp_tools/du"
)

// Indication delivers inbound traffic to the user of a service. It runs
// synchronously inside the reception call and receives ownership of the data
// unit. Callers must not re-enter Request on the same service from inside it.
type Indication func(p *du.DataUnit, apid uint16, packetLoss bool)

// PacketService sends fully pre-formed space packets and tracks sequence
// continuity on reception. It does no header assembly and no APID filtering;
// it exists for callers that manage their own headers and for the octet
// service to delegate through.
type PacketService struct {
	subnetwork spp_tools.Service
	callback   Indication
	tracker    sequenceTracker
}

func NewPacketService(subnetwork spp_tools.Service) *PacketService {
	return &PacketService{
		subnetwork: subnetwork,
		tracker:    newSequenceTracker(),
	}
}

// SetIndication registers the reception callback.
func (s *PacketService) SetIndication(fn Indication) {
	s.callback = fn
}

// Request sends a pre-formed space packet. qos is accepted for interface
// completeness but not enforced.
func (s *PacketService) Request(packet *du.DataUnit, qos int) error {
	_ = qos
	return s.Transfer(packet)
}

// Transfer forwards the packet chain to the subnetwork, transferring
// ownership with it.
func (s *PacketService) Transfer(p *du.DataUnit) error {
	if s.subnetwork == nil {
		return spp_tools.ErrNoNetwork
	}
	return s.subnetwork.Transfer(p)
}

// Receive accepts an inbound packet from the subnetwork, checks sequence
// continuity against the raw header and hands the whole packet to the
// indication callback along with its APID.
func (s *PacketService) Receive(p *du.DataUnit) error {
	header, err := MakePrimaryHeader(p.Bytes())
	if err != nil {
		return err
	}

	packetLoss := s.tracker.Observe(header.SequenceCount)
	if s.callback != nil {
		s.callback(p, header.APID, packetLoss)
	}
	return nil
}

// OctetService sends and receives arbitrary octet strings as space packets
// on a single APID. Sending wraps the payload in a freshly assembled primary
// header; receiving filters on the APID, strips the header and delivers the
// bare payload.
type OctetService struct {
	service     *PacketService
	callback    Indication
	id          uint16
	packetCount uint16
	tracker     sequenceTracker
}

func NewOctetService(id uint16, subnetwork spp_tools.Service) *OctetService {
	return &OctetService{
		service: NewPacketService(subnetwork),
		id:      id & apidMask,
		tracker: newSequenceTracker(),
	}
}

// SetIndication registers the reception callback.
func (s *OctetService) SetIndication(fn Indication) {
	s.callback = fn
}

// Request assembles a space packet of the given type around payload and
// sends it, consuming one value of the running sequence counter.
func (s *OctetService) Request(payload *du.DataUnit, secondary bool, t PacketType) error {
	packet, err := s.assembly(payload, secondary, t, s.packetCount)
	if err != nil {
		return err
	}
	s.packetCount = (s.packetCount + 1) & sequenceCountMask
	return s.service.Transfer(packet)
}

// RequestNamed assembles a telecommand packet carrying the caller-supplied
// packet name in the sequence field and sends it. The running sequence
// counter is not advanced.
func (s *OctetService) RequestNamed(payload *du.DataUnit, secondary bool, name uint16) error {
	packet, err := s.assembly(payload, secondary, Telecommand, name)
	if err != nil {
		return err
	}
	return s.service.Transfer(packet)
}

// assembly builds the primary header node and chains the payload behind it.
// Only the 6 header octets are allocated; payload bytes are never copied.
func (s *OctetService) assembly(payload *du.DataUnit, secondary bool, t PacketType, count uint16) (*du.DataUnit, error) {
	total := payload.TotalSize()
	if total < 1 {
		return nil, fmt.Errorf("%w: packet data field must hold at least one octet", spp_tools.ErrInvalidLength)
	}
	if total > 0x10000 {
		return nil, fmt.Errorf("%w: packet data field holds %d octets, maximum is %d", spp_tools.ErrInvalidLength, total, 0x10000)
	}

	header := du.Alloc(HeaderSize)
	b := header.Bytes()
	putIdentification(b[0:2], t, secondary, s.id)
	putSequenceControl(b[2:4], count)
	putDataLength(b[4:6], uint16(total-1))

	if err := header.Append(payload); err != nil {
		return nil, err
	}
	return header, nil
}

// Transfer is not valid on an octet service; payload enters through Request
// only. The guard is reachable through the shared Service interface.
func (s *OctetService) Transfer(p *du.DataUnit) error {
	return spp_tools.ErrNoSupport
}

// Receive accepts an inbound packet from the subnetwork. Packets for other
// APIDs are dropped silently; they belong to a different logical receiver on
// the same subnetwork. On a match the header is checked for continuity,
// detached, and the bare payload is delivered to the indication callback.
func (s *OctetService) Receive(p *du.DataUnit) error {
	header, err := MakePrimaryHeader(p.Bytes())
	if err != nil {
		return err
	}

	if header.APID != s.id {
		log.Debugf("Dropping packet for APID 0x%03X (service is bound to 0x%03X)", header.APID, s.id)
		return nil
	}

	packetLoss := s.tracker.Observe(header.SequenceCount)

	payload := p.Pop()
	if payload == nil {
		return fmt.Errorf("%w: no payload chained behind the primary header", spp_tools.ErrMalformed)
	}

	if s.callback != nil {
		s.callback(payload, header.APID, packetLoss)
	}
	return nil
}
