package artnet

import (
	"fmt"
	"net"

	"github.com/copsvsninjas/eegsynth/internal/logger"
)

// Sender owns the broadcast UDP endpoint and the wire sequence counter.
type Sender struct {
	logger logger.Logger
	conn   *net.UDPConn
	seq    uint8
}

// NewSender binds a datagram socket aimed at the configured broadcast
// address and port. A bad address is a startup failure.
func NewSender(log logger.Logger, broadcast string, port int) (*Sender, error) {
	raddr, err := net.ResolveUDPAddr("udp4", fmt.Sprintf("%s:%d", broadcast, port))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve broadcast address: %w", err)
	}

	conn, err := net.DialUDP("udp4", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("failed to open broadcast socket: %w", err)
	}

	log.With(logger.Fields{"module": "art-net"}).Infof("Broadcasting to %s", raddr.String())

	return &Sender{logger: log, conn: conn}, nil
}

// SendDMX encodes the frame for the given address and broadcasts it.
// The sequence counter wraps within 1..255; 0 is reserved for
// "sequencing disabled" and is never sent.
func (s *Sender) SendDMX(frame []byte, addr Address) error {
	s.seq++
	if s.seq == 0 {
		s.seq = 1
	}

	packet, err := EncodeDMX(frame, addr, s.seq)
	if err != nil {
		return err
	}

	if _, err := s.conn.Write(packet); err != nil {
		return fmt.Errorf("broadcast send failed: %w", err)
	}

	s.logger.With(logger.Fields{"module": "art-net"}).Debugf("DMX. Sent %d bytes to address %v", len(packet), addr)
	return nil
}

// Close releases the endpoint. Safe to call once during shutdown.
func (s *Sender) Close() error {
	return s.conn.Close()
}
