package spp_tools

import (
	"errors"

	"github.com/jrwynneiii/spp_tools/du"
)

// Errors shared by every service layer
var (
	// Operation not valid for this service (e.g. raw Transfer on an octet
	// service, which only accepts payload through Request)
	ErrNoSupport = errors.New("operation not supported by this service")
	// No subnetwork configured at send time
	ErrNoNetwork = errors.New("no subnetwork configured")
	// Packet data field must hold at least one octet
	ErrInvalidLength = errors.New("invalid packet data length")
	// Inbound data too short to carry a primary header
	ErrMalformed = errors.New("malformed space packet")
)

// Service moves a data unit toward the wire. Ownership of the whole chain
// transfers with the call. Every protocol layer and the subnetwork itself
// implement this, so layers stack transparently.
type Service interface {
	Transfer(p *du.DataUnit) error
}

// Receiver accepts inbound traffic from the layer below. The caller hands
// over ownership of a freshly parsed packet chain (header node first).
type Receiver interface {
	Receive(p *du.DataUnit) error
}
