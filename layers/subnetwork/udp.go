package subnetwork

import (
	"errors"
	"fmt"
	"net"

	"github.com/charmbracelet/log"

	"github.com/jrwynneiii/spp_tools"
	"github.com/jrwynneiii/spp_tools/du"
	"github.com/jrwynneiii/spp_tools/spp"
)

// Largest datagram we accept: primary header plus a full 65536-octet packet
// data field.
const maxDatagram = spp.HeaderSize + 0x10000

// UDP is a subnetwork that carries one space packet per datagram. Sending
// flattens the packet chain into a single write; receiving splits each
// datagram back into a header node with the payload chained behind it and
// hands the chain to the registered receiver.
type UDP struct {
	conn     net.PacketConn
	remote   net.Addr
	receiver spp_tools.Receiver
	done     chan struct{}
}

// NewUDP binds the local listen address. remote may be empty for a
// receive-only subnetwork; Transfer then fails with ErrNoNetwork.
func NewUDP(listen, remote string) (*UDP, error) {
	conn, err := net.ListenPacket("udp", listen)
	if err != nil {
		return nil, err
	}

	u := &UDP{
		conn: conn,
		done: make(chan struct{}),
	}
	if remote != "" {
		if u.remote, err = net.ResolveUDPAddr("udp", remote); err != nil {
			conn.Close()
			return nil, err
		}
	}
	return u, nil
}

func (u *UDP) LocalAddr() net.Addr {
	return u.conn.LocalAddr()
}

// SetReceiver registers the upper layer that inbound packets are delivered to.
func (u *UDP) SetReceiver(r spp_tools.Receiver) {
	u.receiver = r
}

// Transfer sends the packet chain as one datagram, consuming the chain. The
// wire has no notion of a chain, so this is the one place the payload bytes
// are copied.
func (u *UDP) Transfer(p *du.DataUnit) error {
	if u.remote == nil {
		return spp_tools.ErrNoNetwork
	}

	buf := make([]byte, 0, p.TotalSize())
	for n := p; n != nil; n = n.Next() {
		buf = append(buf, n.Bytes()...)
	}

	if _, err := u.conn.WriteTo(buf, u.remote); err != nil {
		return fmt.Errorf("udp transfer failed: %w", err)
	}
	return nil
}

// Start runs the receive loop until Destroy is called.
func (u *UDP) Start() {
	buf := make([]byte, maxDatagram)
	for {
		n, _, err := u.conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			select {
			case <-u.done:
				return
			default:
				log.Error(err)
				continue
			}
		}

		// The read buffer is reused, so the packet gets its own copy
		data := make([]byte, n)
		copy(data, buf[:n])
		u.deliver(data)
	}
}

func (u *UDP) deliver(data []byte) {
	if len(data) <= spp.HeaderSize {
		log.Errorf("Datagram too short for a space packet: %d octets", len(data))
		return
	}

	packet := du.Wrap(data[:spp.HeaderSize])
	if err := packet.Append(du.Wrap(data[spp.HeaderSize:])); err != nil {
		log.Error(err)
		return
	}

	if u.receiver == nil {
		log.Debug("No receiver registered, dropping packet")
		return
	}
	if err := u.receiver.Receive(packet); err != nil {
		log.Error(err)
	}
}

func (u *UDP) Destroy() {
	close(u.done)
	u.conn.Close()
}
